package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sonny/internal/assistant"

	"github.com/spf13/cobra"
)

// runCmd processes a single utterance without entering the loop.
// Useful for scripting and for smoke-testing a deployment.
var runCmd = &cobra.Command{
	Use:   "run <message>",
	Short: "Process one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reg := assistant.NewInitializer(cfg, logger).Initialize()
		seq := assistant.NewShutdownSequencer(reg, logger)
		defer seq.Run()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetReasonerTimeout()+10*time.Second)
		defer cancel()

		pipeline := assistant.NewTurnPipeline(reg, logger)
		utt := assistant.NewUtterance(strings.Join(args, " "), assistant.SourceText)
		rec := pipeline.Process(ctx, utt)
		fmt.Println(rec.Reply)
		return nil
	},
}
