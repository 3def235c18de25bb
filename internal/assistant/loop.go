package assistant

import (
	"context"
	"fmt"
	"io"

	"sonny/internal/capture"
	"sonny/internal/memory"
	"sonny/internal/ux"

	"go.uber.org/zap"
)

// LoopState is the interaction loop's state machine.
type LoopState int

const (
	StateListening LoopState = iota
	StateDispatching
	StateSpeaking
	StateTerminated
)

// String implements fmt.Stringer.
func (s LoopState) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateDispatching:
		return "dispatching"
	case StateSpeaking:
		return "speaking"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// LoopOptions configures the interaction loop's I/O.
type LoopOptions struct {
	Output        io.Writer
	TextInput     io.Reader
	Styles        ux.Styles
	ListenOptions capture.ListenOptions
}

// InteractionLoop drives the turn-based conversation: acquire an
// utterance, test it against the termination vocabulary, dispatch it
// through the pipeline, and emit the reply. Strictly sequential; the
// only bounded-blocking operation is audio capture.
type InteractionLoop struct {
	reg      *Registry
	pipeline *TurnPipeline
	log      *zap.Logger

	out        io.Writer
	text       *capture.TextInput
	styles     ux.Styles
	listenOpts capture.ListenOptions
	state      LoopState
}

// NewInteractionLoop builds the loop over an initialized registry.
func NewInteractionLoop(reg *Registry, pipeline *TurnPipeline, log *zap.Logger, opts LoopOptions) *InteractionLoop {
	return &InteractionLoop{
		reg:        reg,
		pipeline:   pipeline,
		log:        log,
		out:        opts.Output,
		text:       capture.NewTextInput(opts.TextInput),
		styles:     opts.Styles,
		listenOpts: opts.ListenOptions,
		state:      StateListening,
	}
}

// State returns the loop's current state.
func (l *InteractionLoop) State() LoopState {
	return l.state
}

// Run drives the loop until the termination vocabulary matches or a
// fatal driver error occurs. Subsystem failures inside a turn never
// escape; only input-channel loss or context cancellation ends Run with
// an error.
func (l *InteractionLoop) Run(ctx context.Context) error {
	l.greet(ctx)

	for {
		l.state = StateListening
		if err := ctx.Err(); err != nil {
			return err
		}

		utt, ok, err := l.acquire(ctx)
		if err != nil {
			return err
		}
		if !ok {
			// Capture failure: silent re-listen, no turn dispatched.
			continue
		}

		l.state = StateDispatching
		if IsTermination(utt.Text) {
			fmt.Fprintln(l.out, l.styles.Assistant.Render("Sonny: "+ReplyFarewell))
			l.speak(ctx, ReplyFarewell)
			l.state = StateTerminated
			return nil
		}

		rec := l.pipeline.Process(ctx, utt)

		l.state = StateSpeaking
		fmt.Fprintln(l.out, l.styles.Assistant.Render("Sonny: "+rec.Reply))
		l.journal(utt, rec)
		l.speak(ctx, rec.Reply)
	}
}

// acquire obtains one utterance. ok=false means a recoverable capture
// failure; err means a fatal input-channel loss.
func (l *InteractionLoop) acquire(ctx context.Context) (Utterance, bool, error) {
	if l.reg.Capture != nil {
		fmt.Fprintln(l.out, l.styles.System.Render("Listening..."))
		text, err := l.reg.Capture.Listen(ctx, l.listenOpts)
		if err != nil {
			if ctx.Err() != nil {
				return Utterance{}, false, ctx.Err()
			}
			l.log.Warn("capture failed, re-listening", zap.Error(err))
			return Utterance{}, false, nil
		}
		fmt.Fprintln(l.out, l.styles.User.Render("You said: ")+text)
		return NewUtterance(text, SourceAudio), true, nil
	}

	fmt.Fprint(l.out, l.styles.User.Render("You: "))
	line, err := l.text.ReadLine(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Utterance{}, false, ctx.Err()
		}
		return Utterance{}, false, fmt.Errorf("text input closed: %w", err)
	}
	return NewUtterance(line, SourceText), true, nil
}

// greet announces readiness; the spoken greeting is best-effort.
func (l *InteractionLoop) greet(ctx context.Context) {
	fmt.Fprintln(l.out, l.styles.Banner.Render("Sonny speech-to-speech mode active"))
	if l.reg.Capture == nil {
		fmt.Fprintln(l.out, l.styles.System.Render("No microphone configured; type your messages."))
	}
	fmt.Fprintln(l.out, l.styles.System.Render("Say 'goodbye' to exit."))
	fmt.Fprintln(l.out, l.styles.Assistant.Render("Sonny: "+ReplyGreeting))
	l.speak(ctx, ReplyGreeting)
}

// speak emits through voice output when present; failures are logged
// and otherwise ignored.
func (l *InteractionLoop) speak(ctx context.Context, text string) {
	if l.reg.Voice == nil {
		return
	}
	if err := l.reg.Voice.Speak(ctx, text); err != nil {
		l.log.Warn("voice output failed", zap.Error(err))
	}
}

// journal appends the full exchange to the conversation transcript.
// Best-effort: a journaling failure never affects the turn.
func (l *InteractionLoop) journal(utt Utterance, rec TurnRecord) {
	if l.reg.Mesh == nil {
		return
	}
	entry := memory.NewEntry(
		"transcript",
		fmt.Sprintf("You: %s\nSonny: %s", utt.Text, rec.Reply),
		0.5,
	)
	if err := l.reg.Mesh.Store(entry); err != nil {
		l.log.Debug("transcript journal failed", zap.Error(err))
	}
}
