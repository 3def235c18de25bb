package assistant

import (
	"context"
	"fmt"

	"sonny/internal/memory"

	"go.uber.org/zap"
)

// Summary truncation length for persisted exchanges.
const summaryLen = 50

// TurnPipeline dispatches one utterance: validate reasoner availability,
// invoke it, persist a summarized record best-effort, return the reply.
type TurnPipeline struct {
	reg *Registry
	log *zap.Logger
}

// NewTurnPipeline builds the pipeline over an initialized registry.
func NewTurnPipeline(reg *Registry, log *zap.Logger) *TurnPipeline {
	return &TurnPipeline{reg: reg, log: log}
}

// Process runs one turn. Exactly one reply string is produced per call;
// it never returns an error and never panics past subsystem boundaries.
// Memory persistence is best-effort and invisible to the caller.
func (p *TurnPipeline) Process(ctx context.Context, utt Utterance) TurnRecord {
	if p.reg.Reasoner == nil {
		return TurnRecord{Utterance: utt, Reply: ReplyNotReady}
	}

	result, err := p.reg.Reasoner.Think(ctx, utt.Text)
	if err != nil {
		p.log.Error("reasoner invocation failed", zap.Error(err))
		return TurnRecord{Utterance: utt, Reply: ReplyError}
	}

	reply := ReplyNoOutput
	if result != nil && result.Response != "" {
		reply = result.Response
	}

	rec := TurnRecord{Utterance: utt, Reply: reply, OK: true}

	if p.reg.Memory != nil {
		entry := memory.NewEntry(
			"conversation",
			fmt.Sprintf("%s -> %s", summaryPrefix(utt.Text, summaryLen), summaryPrefix(reply, summaryLen)),
			0.7,
		)
		if err := p.reg.Memory.Store(entry); err != nil {
			p.log.Debug("memory store failed", zap.Error(err))
		} else {
			rec.Entry = &entry
		}
	}

	return rec
}
