// Package main provides the sonny CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sonny/internal/assistant"
	"sonny/internal/capture"
	"sonny/internal/config"
	"sonny/internal/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	textMode   bool
	micIndex   int

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sonny",
	Short: "sonny - voice-first conversational assistant",
	Long: `sonny is a turn-based conversational assistant.

It listens on a microphone (with a text fallback), routes each utterance
through a reasoning backend, journals the exchange to long-term memory,
and speaks the reply.

Every subsystem fails independently: with no reasoner sonny answers
"System not ready.", with no voice daemon it stays text-only, and with
no microphone it reads typed input. Say 'goodbye' to exit.

Run without arguments to start the interactive loop.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cfg.Logging.File != "" {
			// Keep the interactive terminal clean; logs go to the file.
			zcfg.OutputPaths = []string{cfg.Logging.File}
			zcfg.ErrorOutputPaths = []string{cfg.Logging.File}
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if textMode {
		cfg.Mode = "text"
	}
	if micIndex >= 0 {
		cfg.Capture.MicIndex = micIndex
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runInteractive drives the interaction loop until termination or a
// fatal driver error; either way the shutdown sequencer runs once.
func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := assistant.NewInitializer(cfg, logger).Initialize()
	seq := assistant.NewShutdownSequencer(reg, logger)
	defer seq.Run()

	if missing := reg.Missing(); len(missing) > 0 {
		logger.Info("starting in degraded mode", zap.Any("absent", missing))
	}

	styles := ux.DefaultStyles()
	if len(reg.CaptureDevices) > 0 {
		fmt.Println(styles.System.Render(fmt.Sprintf("Capture devices: %v", reg.CaptureDevices)))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		// Stop relaying so a second signal takes the default action
		// and kills the process even if shutdown wedges.
		signal.Stop(sigCh)
		cancel()
	}()

	pipeline := assistant.NewTurnPipeline(reg, logger)
	loop := assistant.NewInteractionLoop(reg, pipeline, logger, assistant.LoopOptions{
		Output:    os.Stdout,
		TextInput: os.Stdin,
		Styles:    styles,
		ListenOptions: capture.ListenOptions{
			WaitTimeout: cfg.GetCaptureWaitTimeout(),
			PhraseLimit: cfg.GetCapturePhraseLimit(),
		},
	})

	if err := loop.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Error("fatal driver error", zap.Error(err))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sonny.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&textMode, "text", false, "Force text input mode")
	rootCmd.PersistentFlags().IntVar(&micIndex, "mic", -1, "Capture device index override")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(memoryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ux.DefaultStyles().Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
