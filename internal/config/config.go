// Package config holds the sonny configuration surface.
// Configuration is loaded from a YAML file with environment overrides;
// every subsystem section can be disabled independently.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sonny configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Mode selects the interaction front-end: "voice" (microphone capture
	// with text fallback) or "text" (text input only).
	Mode string `yaml:"mode"`

	// Vision gates construction of the optional vision subsystem.
	// No vision engine ships in this build; the flag only controls whether
	// the initializer attempts the role at all.
	Vision bool `yaml:"vision"`

	// Reasoner configuration
	Reasoner ReasonerConfig `yaml:"reasoner"`

	// Memory configuration
	Memory MemoryConfig `yaml:"memory"`

	// External knowledge lookup
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	// Voice output (text-to-speech)
	Voice VoiceConfig `yaml:"voice"`

	// Audio capture (speech-to-text)
	Capture CaptureConfig `yaml:"capture"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ReasonerConfig configures the reasoning subsystem.
type ReasonerConfig struct {
	Provider    string `yaml:"provider"` // openai, gemini
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	PersonaPath string `yaml:"persona_path"` // system prompt file, hot-reloaded
}

// MemoryConfig configures the memory subsystems.
type MemoryConfig struct {
	// StorePath is the SQLite memory store location.
	StorePath string `yaml:"store_path"`

	// MeshDir is the conversation-memory directory (JSON-lines journals).
	MeshDir string `yaml:"mesh_dir"`
}

// KnowledgeConfig configures the external knowledge lookup client.
type KnowledgeConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// VoiceConfig configures the text-to-speech output.
type VoiceConfig struct {
	Enabled bool    `yaml:"enabled"`
	BaseURL string  `yaml:"base_url"`
	VoiceID string  `yaml:"voice_id"`
	Speed   float64 `yaml:"speed"`
	Timeout string  `yaml:"timeout"`
}

// CaptureConfig configures the speech recognizer front-end.
type CaptureConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`

	// MicIndex selects a device from the recognizer's device list.
	// An invalid index degrades to text input.
	MicIndex int `yaml:"mic_index"`

	// WaitTimeout bounds the wait for speech to start.
	WaitTimeout string `yaml:"wait_timeout"`

	// PhraseLimit bounds a single phrase once speech has started.
	PhraseLimit string `yaml:"phrase_limit"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "sonny",
		Version: "1.0.0",
		Mode:    "voice",
		Vision:  false,

		Reasoner: ReasonerConfig{
			Provider: "openai",
			// Model is left empty; each provider client applies its own
			// default when unset.
			BaseURL:     "https://api.openai.com/v1",
			Timeout:     "120s",
			PersonaPath: "persona.txt",
		},

		Memory: MemoryConfig{
			StorePath: "memory/memory_store.db",
			MeshDir:   "memory/conversations",
		},

		Knowledge: KnowledgeConfig{
			Enabled: true,
			Model:   "sonar",
			BaseURL: "https://api.perplexity.ai",
			Timeout: "60s",
		},

		Voice: VoiceConfig{
			Enabled: true,
			BaseURL: "http://localhost:5002",
			VoiceID: "matthew",
			Speed:   1.0,
			Timeout: "30s",
		},

		Capture: CaptureConfig{
			Enabled:     true,
			BaseURL:     "http://localhost:5003",
			MicIndex:    0,
			WaitTimeout: "15s",
			PhraseLimit: "40s",
		},

		Logging: LoggingConfig{
			Level: "info",
			File:  "sonny.log",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields defaults; environment overrides always apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if mode := os.Getenv("SONNY_MODE"); mode != "" {
		c.Mode = strings.ToLower(mode)
	}
	if v := os.Getenv("SONNY_VISION"); v != "" {
		c.Vision = strings.EqualFold(v, "true")
	}

	// Reasoner API key in priority order
	if key := os.Getenv("SONNY_API_KEY"); key != "" {
		c.Reasoner.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Reasoner.APIKey = key
		c.Reasoner.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Reasoner.APIKey = key
		c.Reasoner.Provider = "gemini"
	}

	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		c.Knowledge.APIKey = key
	}

	if path := os.Getenv("SONNY_DB"); path != "" {
		c.Memory.StorePath = path
	}
	if dir := os.Getenv("SONNY_MEMORY_DIR"); dir != "" {
		c.Memory.MeshDir = dir
	}

	if idx := os.Getenv("SONNY_MIC_INDEX"); idx != "" {
		if n, err := strconv.Atoi(idx); err == nil {
			c.Capture.MicIndex = n
		}
	}
}

// GetReasonerTimeout returns the reasoner timeout as a duration.
func (c *Config) GetReasonerTimeout() time.Duration {
	d, err := time.ParseDuration(c.Reasoner.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetKnowledgeTimeout returns the knowledge lookup timeout as a duration.
func (c *Config) GetKnowledgeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Knowledge.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetVoiceTimeout returns the voice synthesis timeout as a duration.
func (c *Config) GetVoiceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Voice.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCaptureWaitTimeout returns the capture overall wait timeout.
func (c *Config) GetCaptureWaitTimeout() time.Duration {
	d, err := time.ParseDuration(c.Capture.WaitTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetCapturePhraseLimit returns the maximum phrase duration.
func (c *Config) GetCapturePhraseLimit() time.Duration {
	d, err := time.ParseDuration(c.Capture.PhraseLimit)
	if err != nil {
		return 40 * time.Second
	}
	return d
}

// ValidProviders lists all supported reasoner providers.
var ValidProviders = []string{"openai", "gemini"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Mode != "voice" && c.Mode != "text" {
		return fmt.Errorf("invalid mode: %s (valid: voice, text)", c.Mode)
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.Reasoner.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid reasoner provider: %s (valid: %v)", c.Reasoner.Provider, ValidProviders)
	}

	return nil
}
