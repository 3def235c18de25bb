package assistant

import (
	"context"
	"errors"

	"sonny/internal/capture"
	"sonny/internal/memory"
	"sonny/internal/reasoner"
)

var errBoom = errors.New("boom")

type fakeReasoner struct {
	result *reasoner.Result
	err    error
	calls  int
	last   string
}

func (f *fakeReasoner) Think(_ context.Context, text string) (*reasoner.Result, error) {
	f.calls++
	f.last = text
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type spyStore struct {
	entries  []memory.Entry
	storeErr error
	saveErr  error
	saves    int
}

func (s *spyStore) Store(entry memory.Entry) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *spyStore) Save() error {
	s.saves++
	return s.saveErr
}

type fakeSpeaker struct {
	spoken []string
	err    error
}

func (f *fakeSpeaker) Speak(_ context.Context, text string) error {
	f.spoken = append(f.spoken, text)
	return f.err
}

type fakeKnowledge struct{}

func (fakeKnowledge) Lookup(_ context.Context, _ string) (string, error) {
	return "", nil
}

// scriptedListener returns each step in order; steps with a non-nil
// error model capture/recognition failures.
type scriptedListener struct {
	steps []listenStep
	i     int
}

type listenStep struct {
	text string
	err  error
}

func (s *scriptedListener) Listen(_ context.Context, _ capture.ListenOptions) (string, error) {
	if s.i >= len(s.steps) {
		return "", errors.New("script exhausted")
	}
	step := s.steps[s.i]
	s.i++
	return step.text, step.err
}
