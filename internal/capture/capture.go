// Package capture implements the speech front-end: a client for a local
// recognizer daemon plus a blocking text-input fallback.
package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoSpeech reports that a capture attempt finished without a
// recognizable utterance. The loop re-listens; no turn is dispatched.
var ErrNoSpeech = errors.New("no recognizable speech")

// ListenOptions bounds one capture attempt.
type ListenOptions struct {
	// WaitTimeout is the overall wait for speech to start.
	WaitTimeout time.Duration

	// PhraseLimit caps one phrase once speech has started.
	PhraseLimit time.Duration
}

// Microphone talks to a recognizer daemon that owns the audio hardware
// and the speech-to-text engine.
type Microphone struct {
	baseURL    string
	device     int
	httpClient *http.Client
}

// Config holds microphone configuration.
type Config struct {
	BaseURL     string
	DeviceIndex int
}

// NewMicrophone selects a capture device by index. Selection fails if the
// daemon is unreachable, no devices exist, or the index is out of range;
// callers fall back to text input.
func NewMicrophone(cfg Config) (*Microphone, []string, error) {
	if cfg.BaseURL == "" {
		return nil, nil, fmt.Errorf("capture base URL not configured")
	}

	m := &Microphone{
		baseURL: cfg.BaseURL,
		device:  cfg.DeviceIndex,
		// Listen carries its own deadline via context; no client timeout here.
		httpClient: &http.Client{},
	}

	devices, err := m.ListDevices()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list capture devices: %w", err)
	}
	if cfg.DeviceIndex < 0 || cfg.DeviceIndex >= len(devices) {
		return nil, devices, fmt.Errorf("capture device index %d out of range (%d devices)",
			cfg.DeviceIndex, len(devices))
	}

	return m, devices, nil
}

// ListDevices queries a recognizer daemon without selecting a device.
func ListDevices(baseURL string) ([]string, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("capture base URL not configured")
	}
	m := &Microphone{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	return m.ListDevices()
}

// ListDevices returns the recognizer's device names in index order.
func (m *Microphone) ListDevices() ([]string, error) {
	resp, err := m.httpClient.Get(m.baseURL + "/devices")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device listing returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Devices []string `json:"devices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse device listing: %w", err)
	}
	return parsed.Devices, nil
}

type listenRequest struct {
	Device      int     `json:"device"`
	WaitSeconds float64 `json:"wait_seconds"`
	MaxSeconds  float64 `json:"max_seconds"`
}

type listenResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Listen blocks for one bounded capture attempt and returns the
// recognized utterance. Recognition failures return ErrNoSpeech.
func (m *Microphone) Listen(ctx context.Context, opts ListenOptions) (string, error) {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 15 * time.Second
	}
	if opts.PhraseLimit <= 0 {
		opts.PhraseLimit = 40 * time.Second
	}

	// The daemon can take the full wait plus a full phrase; pad the
	// request deadline beyond both.
	ctx, cancel := context.WithTimeout(ctx, opts.WaitTimeout+opts.PhraseLimit+5*time.Second)
	defer cancel()

	payload, err := json.Marshal(listenRequest{
		Device:      m.device,
		WaitSeconds: opts.WaitTimeout.Seconds(),
		MaxSeconds:  opts.PhraseLimit.Seconds(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal listen request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.baseURL+"/listen", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create listen request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("capture request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read capture response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("capture returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed listenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse capture response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrNoSpeech, parsed.Error)
	}
	if parsed.Text == "" {
		return "", ErrNoSpeech
	}
	return parsed.Text, nil
}
