// Package assistant implements the supervisory core: subsystem
// initialization that tolerates partial failure, the per-turn dispatch
// pipeline, the interaction loop, and the shutdown sequencer.
package assistant

import (
	"context"

	"sonny/internal/capture"
	"sonny/internal/memory"
	"sonny/internal/reasoner"
)

// Reasoner mirrors reasoner.Reasoner so fakes stay local to this package.
type Reasoner interface {
	Think(ctx context.Context, text string) (*reasoner.Result, error)
}

// MemoryStore is the narrow persistence contract the core consumes.
type MemoryStore interface {
	Store(entry memory.Entry) error
	Save() error
}

// Knowledge is the external lookup contract.
type Knowledge interface {
	Lookup(ctx context.Context, query string) (string, error)
}

// Speaker is the voice-output contract.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener is the audio-capture contract.
type Listener interface {
	Listen(ctx context.Context, opts capture.ListenOptions) (string, error)
}

// Role names one independently-failing subsystem.
type Role string

const (
	RoleReasoner  Role = "reasoner"
	RoleMemory    Role = "memory"
	RoleKnowledge Role = "knowledge"
	RoleVoice     Role = "voice"
	RoleCapture   Role = "capture"
)

// Registry holds the optional live handle for each subsystem role.
// A nil field means the role is absent; absence is a queryable state,
// never an error. The registry is populated once by the Initializer and
// is read-only afterwards.
type Registry struct {
	Reasoner  Reasoner
	Memory    MemoryStore // summarized exchanges (SQLite engine)
	Mesh      MemoryStore // conversation transcript journal
	Knowledge Knowledge
	Voice     Speaker
	Capture   Listener

	// CaptureDevices lists the recognizer's device names when the
	// daemon answered, even if device selection itself failed.
	CaptureDevices []string

	cleanups []cleanup
}

type cleanup struct {
	name string
	fn   func() error
}

// Has reports whether the given role is present.
func (r *Registry) Has(role Role) bool {
	switch role {
	case RoleReasoner:
		return r.Reasoner != nil
	case RoleMemory:
		return r.Memory != nil
	case RoleKnowledge:
		return r.Knowledge != nil
	case RoleVoice:
		return r.Voice != nil
	case RoleCapture:
		return r.Capture != nil
	}
	return false
}

// Missing returns the absent roles, in a fixed order.
func (r *Registry) Missing() []Role {
	var out []Role
	for _, role := range []Role{RoleReasoner, RoleMemory, RoleKnowledge, RoleVoice, RoleCapture} {
		if !r.Has(role) {
			out = append(out, role)
		}
	}
	return out
}

// addCleanup registers a teardown step run by the ShutdownSequencer.
func (r *Registry) addCleanup(name string, fn func() error) {
	r.cleanups = append(r.cleanups, cleanup{name: name, fn: fn})
}
