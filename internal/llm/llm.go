// Package llm defines the narrow model capabilities the relay depends on and
// an OpenAI-backed implementation of them.
package llm

import (
	"context"
	"errors"
)

// ErrNoChoices is returned when a chat completion comes back empty.
var ErrNoChoices = errors.New("no choices returned")

// ChatRequest is a single-turn chat completion request.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	// MaxTokens caps the completion length. Zero leaves it to the provider.
	MaxTokens int
}

// AudioFile is an uploaded recording held in memory. Name must keep the
// uploaded extension; the transcription API infers the format from it.
type AudioFile struct {
	Name string
	Data []byte
}

// ChatCompleter returns the text of one chat completion.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Transcriber turns speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio AudioFile) (string, error)
}
