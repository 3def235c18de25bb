package main

import (
	"fmt"

	"sonny/internal/capture"

	"github.com/spf13/cobra"
)

// devicesCmd lists the recognizer daemon's capture devices so the user
// can pick a mic_index for the config file.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capture devices reported by the recognizer daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		devices, err := capture.ListDevices(cfg.Capture.BaseURL)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No capture devices reported.")
			return nil
		}
		for i, name := range devices {
			marker := " "
			if i == cfg.Capture.MicIndex {
				marker = "*"
			}
			fmt.Printf("%s %3d  %s\n", marker, i, name)
		}
		return nil
	},
}
