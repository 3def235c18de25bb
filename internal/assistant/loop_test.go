package assistant

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"sonny/internal/reasoner"
	"sonny/internal/ux"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLoop(reg *Registry, input string) (*InteractionLoop, *strings.Builder) {
	var out strings.Builder
	pipeline := NewTurnPipeline(reg, zap.NewNop())
	loop := NewInteractionLoop(reg, pipeline, zap.NewNop(), LoopOptions{
		Output:    &out,
		TextInput: strings.NewReader(input),
		Styles:    ux.PlainStyles(),
	})
	return loop, &out
}

func TestLoop_TerminationPhraseSkipsPipeline(t *testing.T) {
	brain := &fakeReasoner{result: &reasoner.Result{Response: "should not run"}}
	store := &spyStore{}
	speaker := &fakeSpeaker{}
	reg := &Registry{Reasoner: brain, Memory: store, Voice: speaker}

	loop, out := newTestLoop(reg, "GoodBye, I'm done\n")
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, StateTerminated, loop.State())
	assert.Zero(t, brain.calls, "termination must not dispatch a turn")
	assert.Empty(t, store.entries, "termination must not write memory")
	assert.Contains(t, out.String(), ReplyFarewell)
	assert.Contains(t, speaker.spoken, ReplyFarewell)
}

func TestLoop_NormalTurnThenQuit(t *testing.T) {
	brain := &fakeReasoner{result: &reasoner.Result{Response: "It is sunny"}}
	store := &spyStore{}
	mesh := &spyStore{}
	reg := &Registry{Reasoner: brain, Memory: store, Mesh: mesh}

	loop, out := newTestLoop(reg, "What is the weather\nquit\n")
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 1, brain.calls)
	assert.Equal(t, "What is the weather", brain.last)
	assert.Contains(t, out.String(), "Sonny: It is sunny")

	require.Len(t, store.entries, 1)
	assert.Equal(t, "conversation", store.entries[0].Category)

	require.Len(t, mesh.entries, 1)
	assert.Equal(t, "transcript", mesh.entries[0].Category)
	assert.Contains(t, mesh.entries[0].Content, "It is sunny")
}

func TestLoop_VoiceFailureDoesNotAbort(t *testing.T) {
	brain := &fakeReasoner{result: &reasoner.Result{Response: "ok"}}
	reg := &Registry{Reasoner: brain, Voice: &fakeSpeaker{err: errBoom}}

	loop, _ := newTestLoop(reg, "hello\nstop\n")
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 1, brain.calls)
}

func TestLoop_CaptureFailureRelistens(t *testing.T) {
	brain := &fakeReasoner{result: &reasoner.Result{Response: "hi"}}
	store := &spyStore{}
	reg := &Registry{
		Reasoner: brain,
		Memory:   store,
		Capture: &scriptedListener{steps: []listenStep{
			{err: errBoom},
			{text: "hello there"},
			{text: "goodbye"},
		}},
	}

	loop, out := newTestLoop(reg, "")
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 1, brain.calls, "failed capture must not dispatch a turn")
	assert.Len(t, store.entries, 1)
	assert.Contains(t, out.String(), "You said: hello there")
}

func TestLoop_TextInputEOFIsFatal(t *testing.T) {
	reg := &Registry{Reasoner: &fakeReasoner{result: &reasoner.Result{Response: "x"}}}

	loop, _ := newTestLoop(reg, "")
	err := loop.Run(context.Background())
	require.Error(t, err)
	assert.NotEqual(t, StateTerminated, loop.State())
}

func TestLoop_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := &Registry{Capture: &scriptedListener{steps: []listenStep{{err: errBoom}}}}
	loop, _ := newTestLoop(reg, "")

	err := loop.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoop_CancelUnblocksTextRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	reg := &Registry{Reasoner: &fakeReasoner{result: &reasoner.Result{Response: "x"}}}
	var out strings.Builder
	loop := NewInteractionLoop(reg, NewTurnPipeline(reg, zap.NewNop()), zap.NewNop(), LoopOptions{
		Output:    &out,
		TextInput: pr,
		Styles:    ux.PlainStyles(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run stayed blocked on text input after context cancellation")
	}
}

func TestLoop_EmptyUtteranceStillDispatches(t *testing.T) {
	brain := &fakeReasoner{result: &reasoner.Result{Response: "I heard silence"}}
	reg := &Registry{Reasoner: brain}

	loop, _ := newTestLoop(reg, "\nexit\n")
	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 1, brain.calls)
	assert.Equal(t, "", brain.last)
}

func TestIsTermination(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"goodbye, I'm done", true},
		{"GOODBYE", true},
		{"please exit now", true},
		{"quit", true},
		{"don't stop me", true}, // substring matching fires inside words too
		{"what is the weather", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsTermination(tc.text), "text=%q", tc.text)
	}
}

func TestLoopState_String(t *testing.T) {
	assert.Equal(t, "listening", StateListening.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", LoopState(99).String())
}
