package reasoner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// opencensus (pulled in via google.golang.org/genai) starts a worker
	// goroutine in package init that can never be stopped by tests.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func TestPersonaSource_NilIsEmpty(t *testing.T) {
	var p *PersonaSource
	assert.Equal(t, "", p.Current())
	assert.NoError(t, p.Close())
}

func TestPersonaSource_LoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("You are Sonny.\n"), 0644))

	p, err := NewPersonaSource(path, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "You are Sonny.", p.Current())
}

func TestPersonaSource_MissingFileIsEmpty(t *testing.T) {
	p, err := NewPersonaSource(filepath.Join(t.TempDir(), "persona.txt"), zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "", p.Current())
}

func TestPersonaSource_RapidSavesKeepFinalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

	p, err := NewPersonaSource(path, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	// Editor-style burst: several saves inside one quiet period. The
	// last one must win even though the earlier events arrive first.
	for _, text := range []string{"second", "third", "final"} {
		require.NoError(t, os.WriteFile(path, []byte(text), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return p.Current() == "final"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestPersonaSource_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0644))

	p, err := NewPersonaSource(path, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, os.WriteFile(path, []byte("second"), 0644))

	require.Eventually(t, func() bool {
		return p.Current() == "second"
	}, 2*time.Second, 20*time.Millisecond)
}
