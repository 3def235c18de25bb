// Package voice implements text-to-speech output against a local
// synthesis daemon. Absence and failure both degrade to text-only.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer speaks text through an HTTP synthesis endpoint.
type Synthesizer struct {
	baseURL    string
	voiceID    string
	speed      float64
	httpClient *http.Client
}

// Config holds synthesizer configuration.
type Config struct {
	BaseURL string
	VoiceID string
	Speed   float64
	Timeout time.Duration
}

// NewSynthesizer creates a synthesizer client and verifies the daemon is
// reachable, so a dead endpoint shows up at initialization time.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("voice base URL not configured")
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = "matthew"
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	s := &Synthesizer{
		baseURL: cfg.BaseURL,
		voiceID: cfg.VoiceID,
		speed:   cfg.Speed,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}

	if err := s.ping(); err != nil {
		return nil, fmt.Errorf("voice daemon unreachable: %w", err)
	}
	return s, nil
}

func (s *Synthesizer) ping() error {
	resp, err := s.httpClient.Get(s.baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

type speakRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice"`
	Speed float64 `json:"speed"`
}

// Speak synthesizes and plays the given text. The daemon owns playback;
// the call returns once synthesis is accepted.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	payload, err := json.Marshal(speakRequest{
		Text:  text,
		Voice: s.voiceID,
		Speed: s.speed,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speak request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("synthesis returned status %d", resp.StatusCode)
	}
	return nil
}
