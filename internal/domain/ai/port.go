package ai

import "context"

// Client is the hosted language-model provider.
type Client interface {
	// Generate sends prompt to model and returns the generated text as is.
	Generate(ctx context.Context, model, prompt string) (string, error)
	// ListModels returns every model id the provider currently offers.
	ListModels(ctx context.Context) ([]string, error)
}

// RoleUser marks a patient turn in a chat history. Any other role renders as
// the assistant.
const RoleUser = "user"

// Turn is one prior message of a chat supplied by the caller.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
