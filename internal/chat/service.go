// Package chat builds completion requests from conversations and file uploads
// and forwards them to the provider.
package chat

import (
	"context"
	"log/slog"
	"time"

	"nerachat/internal/core"
	"nerachat/internal/extract"
	"nerachat/internal/providers/openrouter"
)

// Request parameters for the two completion paths.
const (
	Temperature = 0.7

	ChatMaxTokens = 1500
	ChatTimeout   = 30 * time.Second

	UploadMaxTokens = 2000
	UploadTimeout   = 60 * time.Second
)

// Service forwards conversations and file uploads to the provider.
// All fields are set at construction and never mutated, so one Service serves all requests.
type Service struct {
	provider  core.Provider
	extractor *extract.Extractor
	model     string
}

// NewService creates a Service sending requests for model through provider.
func NewService(provider core.Provider, extractor *extract.Extractor, model string) *Service {
	return &Service{
		provider:  provider,
		extractor: extractor,
		model:     model,
	}
}

// Model returns the configured model identifier.
func (s *Service) Model() string {
	return s.model
}

// Complete answers a conversation. Questions about the assistant's creator are
// answered locally; everything else is sent to the provider behind the system prompt.
func (s *Service) Complete(ctx context.Context, messages []core.Message) (string, error) {
	if last, ok := lastUserMessage(messages); ok && asksForCreator(last.Content) {
		slog.InfoContext(ctx, "answering creator question locally", core.RequestAttr(ctx))
		return creatorAttribution, nil
	}

	apiMessages := make([]core.Message, 0, len(messages)+1)
	apiMessages = append(apiMessages, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	apiMessages = append(apiMessages, messages...)

	ctx, cancel := context.WithTimeout(ctx, ChatTimeout)
	defer cancel()

	slog.InfoContext(ctx, "sending chat request",
		core.RequestAttr(ctx),
		"provider", s.provider.Name(),
		"model", s.model,
		"messages", len(apiMessages),
	)
	resp, err := s.provider.ChatCompletion(openrouter.WithTitle(ctx, openrouter.TitleChat), &core.ChatRequest{
		Model:       s.model,
		Messages:    apiMessages,
		Temperature: Temperature,
		MaxTokens:   ChatMaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "chat request failed", core.RequestAttr(ctx), "error", err)
		return "", err
	}

	content, ok := resp.FirstContent()
	if !ok {
		return "", core.NewProviderError(s.provider.Name(), "response did not contain any choices", nil)
	}
	return content, nil
}

// CompleteWithFiles extracts every attachment, embeds the text in one prompt and sends it.
// A response without choices yields a fallback text instead of an error.
func (s *Service) CompleteWithFiles(ctx context.Context, message string, files []core.UploadedFile) (*core.CompletionResult, error) {
	results := s.extractor.ExtractAll(ctx, files)
	prompt := uploadPrompt(message, joinFileBlocks(results))

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	slog.InfoContext(ctx, "sending upload request",
		core.RequestAttr(ctx),
		"provider", s.provider.Name(),
		"model", s.model,
		"files", len(files),
		"prompt_chars", len(prompt),
	)
	resp, err := s.provider.ChatCompletion(openrouter.WithTitle(ctx, openrouter.TitleUpload), &core.ChatRequest{
		Model:       s.model,
		Messages:    []core.Message{{Role: core.RoleUser, Content: prompt}},
		Temperature: Temperature,
		MaxTokens:   UploadMaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "upload request failed", core.RequestAttr(ctx), "error", err)
		return nil, err
	}

	content, ok := resp.FirstContent()
	if !ok {
		slog.ErrorContext(ctx, "unexpected response format from provider", core.RequestAttr(ctx))
		return &core.CompletionResult{Text: uploadFallback, Model: s.model}, nil
	}

	return &core.CompletionResult{
		Text:       content,
		Model:      s.model,
		TokensUsed: resp.TotalTokens(),
	}, nil
}

// CheckProvider reports whether the provider credential is configured and accepted.
func (s *Service) CheckProvider(ctx context.Context) error {
	return s.provider.CheckAvailability(ctx)
}

func lastUserMessage(messages []core.Message) (core.Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			return messages[i], true
		}
	}
	return core.Message{}, false
}
