// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"

	"github.com/speakhelper/speakhelper/internal/model"
)

// ErrFieldRequired is wrapped by Validate when a required field is absent.
var ErrFieldRequired = errors.New("field required")

// FieldError names the missing field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + ErrFieldRequired.Error()
}

func (e *FieldError) Unwrap() error {
	return ErrFieldRequired
}

// Required fields are pointers so that an absent field can be told apart
// from an empty string, which is accepted.

// PracticeEntryRequest is the body of POST /practice-history.
type PracticeEntryRequest struct {
	Prompt   *string `json:"prompt"`
	Response *string `json:"response"`
}

// Validate checks required fields.
func (r *PracticeEntryRequest) Validate() error {
	return firstMissing(field{"prompt", r.Prompt}, field{"response", r.Response})
}

// PracticeEntryResponse is returned after a successful write.
type PracticeEntryResponse struct {
	Status string               `json:"status"`
	Entry  *model.PracticeEntry `json:"entry"`
}

// PracticeHistoryResponse lists the caller's entries.
type PracticeHistoryResponse struct {
	Entries []*model.PracticeEntry `json:"entries"`
}

// EmailRequest is the body of POST /email-check.
type EmailRequest struct {
	Email *string `json:"email"`
	Tone  string  `json:"tone,omitempty"`
}

// Validate checks required fields.
func (r *EmailRequest) Validate() error {
	return firstMissing(field{"email", r.Email})
}

// EmailResponse carries the rewritten email.
type EmailResponse struct {
	ImprovedEmail string `json:"improved_email"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	Text           *string `json:"text"`
	TargetLanguage string  `json:"target_language,omitempty"`
}

// Validate checks required fields.
func (r *TranslateRequest) Validate() error {
	return firstMissing(field{"text", r.Text})
}

// TranslateResponse carries the translation.
type TranslateResponse struct {
	Translation string `json:"translation"`
}

// GenerateRequest is the body of POST /generate-phrases.
type GenerateRequest struct {
	Query *string `json:"query"`
}

// Validate checks required fields.
func (r *GenerateRequest) Validate() error {
	return firstMissing(field{"query", r.Query})
}

// PhrasesResponse carries the parsed phrase list.
type PhrasesResponse struct {
	Phrases []string `json:"phrases"`
}

// TextRequest is the body of POST /speaking-practice.
type TextRequest struct {
	Text *string `json:"text"`
}

// Validate checks required fields.
func (r *TextRequest) Validate() error {
	return firstMissing(field{"text", r.Text})
}

// PracticeResponse carries the conversation partner's reply.
type PracticeResponse struct {
	Response string `json:"response"`
}

// TranscriptResponse carries the speech-to-text result.
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// MessageResponse is a plain informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type field struct {
	name  string
	value *string
}

func firstMissing(fields ...field) error {
	for _, f := range fields {
		if f.value == nil {
			return &FieldError{Field: f.name}
		}
	}
	return nil
}
