package openai

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "strings"

    "github.com/sashabaranov/go-openai"

    "github.com/bryanwahyu/symptom-assist/internal/domain/ai"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

type Client struct {
    api       *openai.Client
    MaxTokens int
}

// NewClient builds a client for apiKey. An empty baseURL means GeminiBaseURL.
func NewClient(apiKey, baseURL string, maxTokens int) *Client {
    cfg := openai.DefaultConfig(apiKey)
    cfg.BaseURL = GeminiBaseURL
    if baseURL != "" {
        cfg.BaseURL = strings.TrimRight(baseURL, "/")
    }
    return &Client{api: openai.NewClientWithConfig(cfg), MaxTokens: maxTokens}
}

// Generate sends prompt as a single user message. The text is returned untrimmed.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
    req := openai.ChatCompletionRequest{
        Model: model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleUser, Content: prompt},
        },
    }
    if c.MaxTokens > 0 {
        // For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
        if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
            req.MaxCompletionTokens = c.MaxTokens
        } else {
            req.MaxTokens = c.MaxTokens
        }
    }

    resp, err := c.api.CreateChatCompletion(ctx, req)
    if err != nil {
        return "", &ai.ProviderError{Op: "generate", Err: translate(err)}
    }
    if len(resp.Choices) == 0 {
        return "", &ai.ProviderError{Op: "generate", Err: ai.ErrEmptyResponse}
    }
    return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of every model the provider lists.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
    list, err := c.api.ListModels(ctx)
    if err != nil {
        return nil, &ai.ProviderError{Op: "list models", Err: translate(err)}
    }
    ids := make([]string, 0, len(list.Models))
    for _, m := range list.Models {
        ids = append(ids, m.ID)
    }
    return ids, nil
}

// translate tags status-coded failures with the ai sentinels, keeping the cause.
func translate(err error) error {
    status := 0
    var apiErr *openai.APIError
    var reqErr *openai.RequestError
    switch {
    case errors.As(err, &apiErr):
        status = apiErr.HTTPStatusCode
    case errors.As(err, &reqErr):
        status = reqErr.HTTPStatusCode
    }
    switch status {
    case http.StatusTooManyRequests:
        return fmt.Errorf("%w: %w", ai.ErrQuotaExceeded, err)
    case http.StatusUnauthorized, http.StatusForbidden:
        return fmt.Errorf("%w: %w", ai.ErrUnauthorized, err)
    }
    return err
}
