package reasoner

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements Reasoner using Google's Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   string
	persona *PersonaSource
}

// NewGeminiClient creates a Gemini-backed reasoner.
func NewGeminiClient(apiKey, model string, persona *PersonaSource) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		persona: persona,
	}, nil
}

// Think sends the utterance to Gemini and returns the reply text.
func (g *GeminiClient) Think(ctx context.Context, text string) (*Result, error) {
	var cfg *genai.GenerateContentConfig
	if system := g.persona.Current(); system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate failed: %w", err)
	}

	return &Result{
		Response: result.Text(),
		Model:    g.model,
	}, nil
}
