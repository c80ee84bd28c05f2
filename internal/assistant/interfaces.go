package assistant

import "context"

// Generator talks to a generative model.
type Generator interface {
	Chat(ctx context.Context, apiKey string, req ChatRequest) (string, error)
	Generate(ctx context.Context, apiKey, model, prompt string) (string, error)
}

// KeyStore persists the assistant credential.
type KeyStore interface {
	AssistantKey(ctx context.Context) (string, error)
	SetAssistantKey(ctx context.Context, key string) error
	ClearAssistantKey(ctx context.Context) error
}
