package llm

import (
	"bytes"
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is used when no chat model is configured.
	DefaultChatModel = openai.GPT3Dot5Turbo
	// DefaultTranscriptionModel is used when no transcription model is configured.
	DefaultTranscriptionModel = openai.Whisper1
)

// OpenAI implements ChatCompleter and Transcriber with the OpenAI API or any
// OpenAI-compatible endpoint.
type OpenAI struct {
	client             *openai.Client
	chatModel          string
	transcriptionModel string
}

// Compile-time checks.
var (
	_ ChatCompleter = (*OpenAI)(nil)
	_ Transcriber   = (*OpenAI)(nil)
)

type openAIConfig struct {
	baseURL            string
	chatModel          string
	transcriptionModel string
	httpClient         *http.Client
}

// OpenAIOption configures an OpenAI client.
type OpenAIOption func(*openAIConfig)

// WithBaseURL points the client at an OpenAI-compatible API (".../v1").
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) {
		c.baseURL = url
	}
}

// WithChatModel overrides DefaultChatModel.
func WithChatModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.chatModel = model
		}
	}
}

// WithTranscriptionModel overrides DefaultTranscriptionModel.
func WithTranscriptionModel(model string) OpenAIOption {
	return func(c *openAIConfig) {
		if model != "" {
			c.transcriptionModel = model
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *openAIConfig) {
		c.httpClient = hc
	}
}

// NewOpenAI creates a client authenticated with apiKey.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	cfg := openAIConfig{
		chatModel:          DefaultChatModel,
		transcriptionModel: DefaultTranscriptionModel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}
	if cfg.httpClient != nil {
		clientCfg.HTTPClient = cfg.httpClient
	}

	return &OpenAI{
		client:             openai.NewClientWithConfig(clientCfg),
		chatModel:          cfg.chatModel,
		transcriptionModel: cfg.transcriptionModel,
	}
}

// Complete sends a system+user message pair and returns the first choice.
func (o *OpenAI) Complete(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe uploads the in-memory recording and returns the transcript.
func (o *OpenAI) Transcribe(ctx context.Context, audio AudioFile) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.transcriptionModel,
		FilePath: audio.Name,
		Reader:   bytes.NewReader(audio.Data),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
