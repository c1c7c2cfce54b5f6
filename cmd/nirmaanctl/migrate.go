package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
	"github.com/adityakumar60853/nirmaan/internal/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, gdb, _, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	cmd.Println("Migrating accounts...")
	if err := account.Migrate(gdb); err != nil {
		return oops.Code("MIGRATION_FAILED").With("schema", "app_auth").Wrap(err)
	}
	cmd.Println("Migrating catalog...")
	if err := catalog.Migrate(gdb); err != nil {
		return oops.Code("MIGRATION_FAILED").With("schema", "catalog").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return nil
}
