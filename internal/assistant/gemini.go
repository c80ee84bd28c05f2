package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API. A client is created per call so a changed
// credential takes effect immediately.
type Gemini struct{}

// NewGemini creates a Gemini generator.
func NewGemini() *Gemini {
	return &Gemini{}
}

func (g *Gemini) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return client, nil
}

// Chat replays the history and sends one message.
func (g *Gemini) Chat(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	client, err := g.client(ctx, apiKey)
	if err != nil {
		return "", err
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, genai.NewContentFromText(m.Text, genai.Role(m.Role)))
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}

	chat, err := client.Chats.Create(ctx, req.Model, config, history)
	if err != nil {
		return "", fmt.Errorf("starting chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Message})
	if err != nil {
		return "", fmt.Errorf("sending chat message: %w", err)
	}
	return resp.Text(), nil
}

// Generate runs a single prompt.
func (g *Gemini) Generate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := g.client(ctx, apiKey)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	return resp.Text(), nil
}
