// Package relay turns client requests into single LLM calls and adapts the answers.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/speakhelper/speakhelper/internal/llm"
	"github.com/speakhelper/speakhelper/internal/metrics"
)

// Endpoint labels used for metrics and error context.
const (
	EndpointEmailCheck       = "email_check"
	EndpointTranslate        = "translate"
	EndpointGeneratePhrases  = "generate_phrases"
	EndpointSpeechToText     = "speech_to_text"
	EndpointSpeakingPractice = "speaking_practice"
)

// Service holds the model clients. It keeps no per-request state.
type Service struct {
	chat        llm.ChatCompleter
	transcriber llm.Transcriber
	metrics     metrics.Recorder
}

// NewService creates a new Service.
func NewService(chat llm.ChatCompleter, transcriber llm.Transcriber, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Service{
		chat:        chat,
		transcriber: transcriber,
		metrics:     recorder,
	}
}

// ImproveEmail rewrites an email in a friendlier business-casual voice.
func (s *Service) ImproveEmail(ctx context.Context, email, tone string) (string, error) {
	return s.complete(ctx, EndpointEmailCheck, llm.ChatRequest{
		SystemPrompt: emailSystemPrompt,
		UserPrompt:   emailPrompt(email, tone),
		Temperature:  defaultTemperature,
	})
}

// Translate translates text into targetLanguage (DefaultTargetLanguage when empty).
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}
	return s.complete(ctx, EndpointTranslate, llm.ChatRequest{
		SystemPrompt: translateSystemPrompt,
		UserPrompt:   translatePrompt(text, targetLanguage),
		Temperature:  defaultTemperature,
	})
}

// GeneratePhrases asks for five polite phrases suited to the situation in query.
func (s *Service) GeneratePhrases(ctx context.Context, query string) ([]string, error) {
	raw, err := s.complete(ctx, EndpointGeneratePhrases, llm.ChatRequest{
		SystemPrompt: phrasesSystemPrompt,
		UserPrompt:   phrasesPrompt(query),
		Temperature:  defaultTemperature,
		MaxTokens:    phrasesMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("Error generating phrases: %w", err)
	}

	phrases, err := ParsePhrases(raw)
	if err != nil {
		return nil, fmt.Errorf("Error generating phrases: %w", err)
	}
	return phrases, nil
}

// SpeakingPractice replies as a conversation partner for the given scenario.
func (s *Service) SpeakingPractice(ctx context.Context, text string) (string, error) {
	return s.complete(ctx, EndpointSpeakingPractice, llm.ChatRequest{
		SystemPrompt: practiceSystemPrompt,
		UserPrompt:   practicePrompt(text),
		Temperature:  practiceTemperature,
	})
}

// Transcribe converts an uploaded recording to text.
func (s *Service) Transcribe(ctx context.Context, audio llm.AudioFile) (string, error) {
	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, audio)
	s.observe(EndpointSpeechToText, start, err)
	if err != nil {
		return "", &ExternalAPIError{Endpoint: EndpointSpeechToText, Err: err}
	}
	return text, nil
}

func (s *Service) complete(ctx context.Context, endpoint string, req llm.ChatRequest) (string, error) {
	start := time.Now()
	text, err := s.chat.Complete(ctx, req)
	s.observe(endpoint, start, err)
	if err != nil {
		return "", &ExternalAPIError{Endpoint: endpoint, Err: err}
	}
	return text, nil
}

func (s *Service) observe(endpoint string, start time.Time, err error) {
	s.metrics.ObserveUpstreamDuration(endpoint, time.Since(start))
	if err != nil {
		s.metrics.IncRelayCall(endpoint, metrics.StatusFailed)
		return
	}
	s.metrics.IncRelayCall(endpoint, metrics.StatusSuccess)
}
