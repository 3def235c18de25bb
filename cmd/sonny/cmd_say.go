package main

import (
	"context"
	"strings"

	"sonny/internal/voice"

	"github.com/spf13/cobra"
)

// sayCmd sends text straight to the speech daemon.
var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Speak text through the voice daemon",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		syn, err := voice.NewSynthesizer(voice.Config{
			BaseURL: cfg.Voice.BaseURL,
			VoiceID: cfg.Voice.VoiceID,
			Speed:   cfg.Voice.Speed,
			Timeout: cfg.GetVoiceTimeout(),
		})
		if err != nil {
			return err
		}
		return syn.Speak(context.Background(), strings.Join(args, " "))
	},
}
