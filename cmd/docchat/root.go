package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docchat/internal/config"
	"docchat/internal/logger"
	"docchat/internal/session"
	"docchat/internal/tui"
)

type rootFlags struct {
	cfgPath string
	logFile string
	debug   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "docchat",
		Short: "Chat with a PDF through retrieval-augmented generation",
		Long: "docchat uploads a PDF, creates vector embeddings for it and lets you ask " +
			"questions answered from its content. Running it without a subcommand starts the TUI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.cfgPath, "config", "c", "", "config file path (default ./config.yaml or ~/.config/docchat/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "override the log file path")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level")

	cmd.AddCommand(newEmbedCmd(flags))
	cmd.AddCommand(newAskCmd(flags))
	cmd.AddCommand(newInitCmd())
	return cmd
}

// loadConfig resolves the configuration file and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flags.cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(flags.cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup(flags *rootFlags, console bool) (*config.AppConfig, *zap.Logger, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log, console)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func runTUI(ctx context.Context, flags *rootFlags) error {
	cfg, log, err := setup(flags, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctrl := newController(ctx, cfg, log)
	s := session.New()
	log.Info("session started", zap.String("session", s.ID))

	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	m := tui.New(ctx, ctrl, s, dir)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
