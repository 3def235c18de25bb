package main

import (
	"context"
	"fmt"
	"strings"

	"sonny/internal/knowledge"

	"github.com/spf13/cobra"
)

// lookupCmd queries the knowledge backend directly, bypassing the
// reasoner. Handy for checking the API key and model wiring.
var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Query the knowledge backend",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := knowledge.NewClient(knowledge.Config{
			APIKey:  cfg.Knowledge.APIKey,
			BaseURL: cfg.Knowledge.BaseURL,
			Model:   cfg.Knowledge.Model,
			Timeout: cfg.GetKnowledgeTimeout(),
		})
		if err != nil {
			return err
		}

		answer, err := client.Lookup(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}
