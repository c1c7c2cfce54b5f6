// Command seed loads the embedded welfare scheme catalogue into the database.
package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/adityakumar60853/nirmaan/internal/catalog"
	"github.com/adityakumar60853/nirmaan/internal/config"
	"github.com/adityakumar60853/nirmaan/internal/db"
	"github.com/adityakumar60853/nirmaan/internal/logging"
	"github.com/adityakumar60853/nirmaan/internal/seeds"
)

func main() {
	fs := pflag.NewFlagSet("seed", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		logging.Setup("nirmaan-seed", "text", "info", nil).Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup("nirmaan-seed", cfg.LogFormat, cfg.LogLevel, nil)
	ctx := context.Background()

	gdb, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logging.LogError(ctx, logger, "seeding failed", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := catalog.Migrate(gdb); err != nil {
		logging.LogError(ctx, logger, "seeding failed", err)
		os.Exit(1)
	}

	res, err := seeds.SeedAll(ctx, catalog.NewGormStore(gdb), logger)
	if err != nil {
		logging.LogError(ctx, logger, "seeding failed", err)
		os.Exit(1)
	}
	logger.Info("seeding complete", "created", res.Created, "skipped", res.Skipped)
}
