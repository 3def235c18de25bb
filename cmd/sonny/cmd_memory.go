package main

import (
	"fmt"
	"sort"

	"sonny/internal/memory"

	"github.com/spf13/cobra"
)

// memoryCmd groups the memory store inspection subcommands.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect the long-term memory store",
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry counts per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		stats, err := engine.Stats()
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("Memory store is empty.")
			return nil
		}

		categories := make([]string, 0, len(stats))
		total := 0
		for cat, n := range stats {
			categories = append(categories, cat)
			total += n
		}
		sort.Strings(categories)
		for _, cat := range categories {
			fmt.Printf("%-16s %d\n", cat, stats[cat])
		}
		fmt.Printf("%-16s %d\n", "total", total)
		return nil
	},
}

var memoryRecentLimit int

var memoryRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		defer engine.Close()

		entries, err := engine.Recent(memoryRecentLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Memory store is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s (%.1f)\n  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Category, e.Importance, e.Content)
		}
		return nil
	},
}

func openEngine() (*memory.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return memory.NewEngine(cfg.Memory.StorePath, logger)
}

func init() {
	memoryRecentCmd.Flags().IntVarP(&memoryRecentLimit, "limit", "n", 10, "Number of entries to show")
	memoryCmd.AddCommand(memoryStatsCmd)
	memoryCmd.AddCommand(memoryRecentCmd)
}
