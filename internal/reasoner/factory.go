package reasoner

import (
	"fmt"

	"sonny/internal/config"

	"go.uber.org/zap"
)

// New constructs the configured reasoner provider. The persona source is
// created here too; callers close it via the returned cleanup function.
func New(cfg *config.Config, log *zap.Logger) (Reasoner, func() error, error) {
	persona, err := NewPersonaSource(cfg.Reasoner.PersonaPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start persona source: %w", err)
	}

	cleanup := persona.Close

	switch cfg.Reasoner.Provider {
	case "openai":
		client, err := NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.Reasoner.APIKey,
			BaseURL: cfg.Reasoner.BaseURL,
			Model:   cfg.Reasoner.Model,
			Timeout: cfg.GetReasonerTimeout(),
			Persona: persona,
		})
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		return client, cleanup, nil

	case "gemini":
		client, err := NewGeminiClient(cfg.Reasoner.APIKey, cfg.Reasoner.Model, persona)
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		return client, cleanup, nil

	default:
		_ = cleanup()
		return nil, nil, fmt.Errorf("unknown reasoner provider: %s", cfg.Reasoner.Provider)
	}
}
