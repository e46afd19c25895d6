package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crosspost/pkg/bridge"
	"crosspost/pkg/channel"
	"crosspost/pkg/channel/telegram"
	"crosspost/pkg/config"
	"crosspost/pkg/logger"
	"crosspost/pkg/relay"
	"crosspost/pkg/twitter"
)

var rootCmd = &cobra.Command{
	Use:   "crosspost",
	Short: "Relay Telegram channel posts to a log channel and Twitter/X",
	Long: "crosspost watches the configured Telegram channels and relays every new post " +
		"to a log channel and, when it fits the length gate, to Twitter/X. " +
		"All behavior is driven by environment variables; there are no flags.",
	SilenceUsage: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return run()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A local .env is a development convenience; real environment values win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(appLogger)
	log := appLogger.With("component", "cmd")

	adapter, err := telegram.NewAdapter(cfg.Telegram, appLogger)
	if err != nil {
		return fmt.Errorf("configure telegram channel: %w", err)
	}

	publisher, err := twitter.New(cfg.Twitter, appLogger)
	if err != nil {
		return fmt.Errorf("configure twitter publisher: %w", err)
	}

	router, err := relay.NewRouter(cfg, adapter, publisher, appLogger)
	if err != nil {
		return fmt.Errorf("initialize router: %w", err)
	}

	svc, err := bridge.NewService(cfg, []channel.Adapter{adapter}, router, publisher, appLogger)
	if err != nil {
		return fmt.Errorf("initialize bridge: %w", err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(runCtx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		log.Error("Bridge runtime failed", "error", err)
		return err
	}

	return nil
}
