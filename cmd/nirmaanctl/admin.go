package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/auth"
	"github.com/adityakumar60853/nirmaan/internal/db"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// adminPasswordEnv supplies the password when --password is omitted, so it
// stays out of shell history.
const adminPasswordEnv = "NIRMAAN_ADMIN_PASSWORD"

type adminOptions struct {
	name     string
	email    string
	password string
	contact  string
}

func (o adminOptions) registration() account.Registration {
	pw := o.password
	if pw == "" {
		pw = os.Getenv(adminPasswordEnv)
	}
	return account.Registration{
		Name:     o.name,
		Email:    o.email,
		Password: pw,
		Contact:  o.contact,
		Profile:  &account.AdminProfile{},
	}
}

// NewCreateAdminCmd creates the create-admin subcommand. Admin accounts
// cannot be self-registered through the API.
func NewCreateAdminCmd() *cobra.Command {
	var opts adminOptions
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.email, "email", "", "login email")
	cmd.Flags().StringVar(&opts.password, "password", "", "password (default $"+adminPasswordEnv+")")
	cmd.Flags().StringVar(&opts.contact, "contact", "", "contact phone number")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runCreateAdmin(cmd *cobra.Command, opts adminOptions) error {
	cfg, gdb, logger, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if err := account.Migrate(gdb); err != nil {
		return err
	}
	hasher, err := auth.NewHasher(cfg.BcryptCost, 1)
	if err != nil {
		return err
	}
	tokens, err := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		return err
	}

	svc := auth.NewService(account.NewGormStore(gdb), hasher, tokens, logger)
	a, err := svc.CreateAdmin(cmd.Context(), opts.registration())
	if err != nil {
		return err
	}
	cmd.Printf("Created admin %s (%s)\n", a.Email, a.ID)
	return nil
}
