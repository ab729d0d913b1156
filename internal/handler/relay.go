package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/speakhelper/speakhelper/internal/handler/dto"
	"github.com/speakhelper/speakhelper/internal/llm"
)

// audioFormField is the multipart field carrying the recording.
const audioFormField = "file"

// Relayer is the relay capability the handlers need.
type Relayer interface {
	ImproveEmail(ctx context.Context, email, tone string) (string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	GeneratePhrases(ctx context.Context, query string) ([]string, error)
	SpeakingPractice(ctx context.Context, text string) (string, error)
	Transcribe(ctx context.Context, audio llm.AudioFile) (string, error)
}

// RelayHandler handles the LLM relay endpoints.
type RelayHandler struct {
	svc             Relayer
	logger          *slog.Logger
	maxUploadMemory int64
}

// NewRelayHandler creates a new RelayHandler. maxUploadMemory is the part of
// a multipart upload kept in memory while parsing; the rest spills to disk.
func NewRelayHandler(svc Relayer, logger *slog.Logger, maxUploadMemory int64) *RelayHandler {
	return &RelayHandler{
		svc:             svc,
		logger:          logger,
		maxUploadMemory: maxUploadMemory,
	}
}

// EmailCheck handles POST /email-check.
func (h *RelayHandler) EmailCheck(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	improved, err := h.svc.ImproveEmail(r.Context(), *req.Email, req.Tone)
	if err != nil {
		writeServiceError(w, r, h.logger, "email_check", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EmailResponse{ImprovedEmail: improved})
}

// Translate handles POST /translate.
func (h *RelayHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req dto.TranslateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	translation, err := h.svc.Translate(r.Context(), *req.Text, req.TargetLanguage)
	if err != nil {
		writeServiceError(w, r, h.logger, "translate", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TranslateResponse{Translation: translation})
}

// GeneratePhrases handles POST /generate-phrases.
func (h *RelayHandler) GeneratePhrases(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	phrases, err := h.svc.GeneratePhrases(r.Context(), *req.Query)
	if err != nil {
		writeServiceError(w, r, h.logger, "generate_phrases", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PhrasesResponse{Phrases: phrases})
}

// SpeakingPractice handles POST /speaking-practice.
func (h *RelayHandler) SpeakingPractice(w http.ResponseWriter, r *http.Request) {
	var req dto.TextRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.svc.SpeakingPractice(r.Context(), *req.Text)
	if err != nil {
		writeServiceError(w, r, h.logger, "speaking_practice", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PracticeResponse{Response: reply})
}

// SpeechToText handles POST /speech-to-text. The whole upload is read into
// memory and sent to the transcriber under its uploaded filename.
func (h *RelayHandler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMemory); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid multipart upload: "+err.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(audioFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeDetail(w, http.StatusUnprocessableEntity, audioFormField+": field required")
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid multipart upload: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeServiceError(w, r, h.logger, "speech_to_text", err)
		return
	}

	transcript, err := h.svc.Transcribe(r.Context(), llm.AudioFile{Name: header.Filename, Data: data})
	if err != nil {
		writeServiceError(w, r, h.logger, "speech_to_text", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TranscriptResponse{Transcript: transcript})
}
