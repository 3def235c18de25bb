package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestShutdown_FailureDoesNotBlockOthers(t *testing.T) {
	failing := &spyStore{saveErr: errBoom}
	healthy := &spyStore{}
	reg := &Registry{Memory: failing, Mesh: healthy}

	var closed []string
	reg.addCleanup("first", func() error { closed = append(closed, "first"); return errBoom })
	reg.addCleanup("second", func() error { closed = append(closed, "second"); return nil })

	NewShutdownSequencer(reg, zap.NewNop()).Run()

	assert.Equal(t, 1, failing.saves, "failing store must still be attempted")
	assert.Equal(t, 1, healthy.saves)
	assert.Equal(t, []string{"first", "second"}, closed,
		"a failed step must not block later steps")
}

func TestShutdown_RunsExactlyOnce(t *testing.T) {
	store := &spyStore{}
	reg := &Registry{Memory: store}

	seq := NewShutdownSequencer(reg, zap.NewNop())
	seq.Run()
	seq.Run()

	assert.Equal(t, 1, store.saves)
}

func TestShutdown_EmptyRegistry(t *testing.T) {
	NewShutdownSequencer(&Registry{}, zap.NewNop()).Run()
}
