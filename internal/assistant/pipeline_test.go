package assistant

import (
	"context"
	"testing"

	"sonny/internal/reasoner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTurnPipeline_ReasonerAbsent(t *testing.T) {
	store := &spyStore{}
	p := NewTurnPipeline(&Registry{Memory: store}, zap.NewNop())

	for _, text := range []string{"hello", ""} {
		rec := p.Process(context.Background(), NewUtterance(text, SourceText))
		assert.Equal(t, ReplyNotReady, rec.Reply)
		assert.False(t, rec.OK)
	}
	assert.Empty(t, store.entries, "reasoner-absent turns must not touch memory")
}

func TestTurnPipeline_ReplyAndMemoryEntry(t *testing.T) {
	store := &spyStore{}
	p := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{result: &reasoner.Result{Response: "It is sunny"}},
		Memory:   store,
	}, zap.NewNop())

	rec := p.Process(context.Background(), NewUtterance("What is the weather", SourceAudio))

	assert.Equal(t, "It is sunny", rec.Reply)
	assert.True(t, rec.OK)

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, "conversation", entry.Category)
	assert.Equal(t, 0.7, entry.Importance)
	assert.Equal(t, "What is the weather -> It is sunny", entry.Content)
	assert.NotEmpty(t, entry.Metadata["timestamp"])
	require.NotNil(t, rec.Entry)
	assert.Equal(t, entry.ID, rec.Entry.ID)
}

func TestTurnPipeline_MissingResponseField(t *testing.T) {
	p := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{result: &reasoner.Result{}},
	}, zap.NewNop())

	rec := p.Process(context.Background(), NewUtterance("hello", SourceText))
	assert.Equal(t, ReplyNoOutput, rec.Reply)
	assert.True(t, rec.OK)
}

func TestTurnPipeline_NilResult(t *testing.T) {
	p := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{},
	}, zap.NewNop())

	rec := p.Process(context.Background(), NewUtterance("hello", SourceText))
	assert.Equal(t, ReplyNoOutput, rec.Reply)
}

func TestTurnPipeline_ReasonerError(t *testing.T) {
	store := &spyStore{}
	p := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{err: errBoom},
		Memory:   store,
	}, zap.NewNop())

	rec := p.Process(context.Background(), NewUtterance("hello", SourceText))

	assert.Equal(t, ReplyError, rec.Reply)
	assert.False(t, rec.OK)
	assert.Empty(t, store.entries, "failed turns are not persisted")
}

// A failing memory store must not change the reply relative to a run
// with memory absent.
func TestTurnPipeline_MemoryFailureInvisible(t *testing.T) {
	think := &reasoner.Result{Response: "forty-two"}

	failing := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{result: think},
		Memory:   &spyStore{storeErr: errBoom},
	}, zap.NewNop())
	absent := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{result: think},
	}, zap.NewNop())

	utt := NewUtterance("meaning of life", SourceText)
	withFailing := failing.Process(context.Background(), utt)
	withAbsent := absent.Process(context.Background(), utt)

	assert.Equal(t, withAbsent.Reply, withFailing.Reply)
	assert.True(t, withFailing.OK)
	assert.Nil(t, withFailing.Entry)
}

func TestTurnPipeline_TruncatesSummary(t *testing.T) {
	store := &spyStore{}
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	p := NewTurnPipeline(&Registry{
		Reasoner: &fakeReasoner{result: &reasoner.Result{Response: string(long)}},
		Memory:   store,
	}, zap.NewNop())

	p.Process(context.Background(), NewUtterance(string(long), SourceText))

	require.Len(t, store.entries, 1)
	// 50-rune prefixes joined by " -> "
	assert.Len(t, store.entries[0].Content, 50+4+50)
}
