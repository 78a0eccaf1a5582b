package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/config"
	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

// CaptionClient drafts a caption for the operator's context prompt
type CaptionClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// chatCompleter is the part of the OpenAI client the caption client uses
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICaptionClient calls an OpenAI-compatible chat completion endpoint
type OpenAICaptionClient struct {
	api         chatCompleter
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	niche       string
}

// NewOpenAICaptionClient creates a caption client. BaseURL may point at any
// OpenAI-compatible proxy (e.g. "http://127.0.0.1:8317/v1").
func NewOpenAICaptionClient(cfg config.CaptionConfig) *OpenAICaptionClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAICaptionClient{
		api:         openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		niche:       cfg.Niche,
	}
}

// BuildCaptionPrompt wraps the operator's context in the caption instruction
func BuildCaptionPrompt(niche, prompt string) string {
	return fmt.Sprintf(
		"Create a clear, concise social media caption optimized for engagement in the %s niche. Context: %s",
		niche, strings.TrimSpace(prompt))
}

// Generate implements CaptionClient. Every failure, including a timeout or a
// blank completion, is reported as *common.CaptionServiceError.
func (c *OpenAICaptionClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildCaptionPrompt(c.niche, prompt)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	captionRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		result := "error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result = "timeout"
		}
		captionRequestsTotal.WithLabelValues(result).Inc()
		pkglogger.GetLogger().Warn().Err(err).Str("model", c.model).Str("result", result).Msg("caption request failed")
		return "", &common.CaptionServiceError{Err: err}
	}

	if len(resp.Choices) == 0 {
		captionRequestsTotal.WithLabelValues("empty").Inc()
		return "", &common.CaptionServiceError{Err: fmt.Errorf("%w: no choices", common.ErrEmptyCaption)}
	}
	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		captionRequestsTotal.WithLabelValues("empty").Inc()
		return "", &common.CaptionServiceError{Err: common.ErrEmptyCaption}
	}

	captionRequestsTotal.WithLabelValues("ok").Inc()
	return caption, nil
}
