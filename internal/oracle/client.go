// Package oracle wraps the Groq chat-completion API behind the three
// judgments the application consumes: invoice field extraction, bank-statement
// matching, and the optimisation analysis. Groq speaks the OpenAI wire
// protocol, so the client is a go-openai client pointed at Groq's base URL.
//
// Oracle output is untrusted: every call runs in JSON mode and the response
// body is validated before use. Callers decide what a failure means; this
// package only classifies it (unavailable vs malformed).
package oracle

import (
	"context"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/FaridBenamara/Bill-z/internal/config"
)

// chatCompleter is the slice of the go-openai client the oracle uses,
// extracted so tests can substitute a scripted fake
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client issues chat completions against the configured Groq models
type Client struct {
	api           chatCompleter
	extractModel  string
	analysisModel string
	logger        *slog.Logger
}

// NewClient creates an oracle client from configuration
func NewClient(logger *slog.Logger, cfg *config.OracleConfig) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL

	return &Client{
		api:           openai.NewClientWithConfig(apiConfig),
		extractModel:  cfg.ExtractModel,
		analysisModel: cfg.AnalysisModel,
		logger:        logger,
	}
}

// complete performs one JSON-mode chat completion and returns the raw body
func (c *Client) complete(ctx context.Context, model, systemContext, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemContext},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
