// Package reasoner implements the language-understanding subsystem.
// A Reasoner takes one utterance and produces a reply; providers are
// interchangeable behind the Reasoner interface.
package reasoner

import "context"

// Result is what a reasoner returns for one utterance. Response may be
// empty when the provider produced no usable text.
type Result struct {
	Response string `json:"response"`
	Model    string `json:"model,omitempty"`
	Tokens   int    `json:"tokens,omitempty"`
}

// Reasoner is the reasoning contract the orchestrator consumes.
type Reasoner interface {
	Think(ctx context.Context, text string) (*Result, error)
}
