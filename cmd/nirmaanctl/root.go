package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/adityakumar60853/nirmaan/internal/config"
	"github.com/adityakumar60853/nirmaan/internal/db"
	"github.com/adityakumar60853/nirmaan/internal/logging"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// NewRootCmd creates the nirmaanctl command tree. Every subcommand accepts
// the server's configuration flags.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nirmaanctl",
		Short:        "Operator tool for the Nirmaan API",
		SilenceUsage: true,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	cmd.AddCommand(NewIssueTokenCmd())
	cmd.AddCommand(NewVerifyTokenCmd())
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.Setup("nirmaanctl", "text", cfg.LogLevel, cmd.ErrOrStderr())
}

// openDB loads and validates the full configuration, then connects.
func openDB(cmd *cobra.Command) (*config.Config, *gorm.DB, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cmd, cfg)
	gdb, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, gdb, logger, nil
}

func tokenService(cmd *cobra.Command) (*token.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSigning(); err != nil {
		return nil, err
	}
	return token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
}
