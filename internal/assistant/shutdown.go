package assistant

import (
	"sync"

	"go.uber.org/zap"
)

// ShutdownSequencer flushes and stops the stateful subsystems in a
// fixed order on loop exit. Each attempt is isolated; shutdown itself
// never fails and runs at most once.
type ShutdownSequencer struct {
	reg  *Registry
	log  *zap.Logger
	once sync.Once
}

// NewShutdownSequencer builds the sequencer over the registry.
func NewShutdownSequencer(reg *Registry, log *zap.Logger) *ShutdownSequencer {
	return &ShutdownSequencer{reg: reg, log: log}
}

// Run executes the shutdown sequence: flush the memory stores, then run
// the registered teardown steps (closing stores, devices, watchers).
// Failures are logged and do not block the remaining steps.
func (s *ShutdownSequencer) Run() {
	s.once.Do(func() {
		s.log.Info("shutting down")

		if s.reg.Memory != nil {
			if err := s.reg.Memory.Save(); err != nil {
				s.log.Error("memory engine flush failed", zap.Error(err))
			}
		}
		if s.reg.Mesh != nil {
			if err := s.reg.Mesh.Save(); err != nil {
				s.log.Error("conversation memory flush failed", zap.Error(err))
			}
		}

		for _, c := range s.reg.cleanups {
			if err := c.fn(); err != nil {
				s.log.Error("shutdown step failed", zap.String("step", c.name), zap.Error(err))
			}
		}

		s.log.Info("stopped cleanly")
	})
}
