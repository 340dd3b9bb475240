package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/service"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/config"
	"ctchen222/game-store/internal/db"
	"ctchen222/game-store/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// cliActor is the identity admin commands run as.
var cliActor = auth.Identity{Email: "gamestorectl", Role: models.RoleAdmin}

// NewRootCmd creates the root command for the admin CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gamestorectl",
		Short: "Administer the game store database",
		Long: `gamestorectl manages the game store database directly. It reads
DB_DRIVER and DB_DSN from the environment or a .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	cmd.AddCommand(NewListUsersCmd())

	return cmd
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(_ *sqlx.DB, _ *config.StoreConfig) error {
				cmd.Println("Schema is up to date")
				return nil
			})
		},
	}
}

type createAdminOptions struct {
	name     string
	email    string
	password string
}

// NewCreateAdminCmd creates the create-admin subcommand.
func NewCreateAdminCmd() *cobra.Command {
	opts := &createAdminOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin account unless the email is already registered",
		Long: `Create an Admin account. The password is read from --password or,
when omitted, from the GAMESTORE_ADMIN_PASSWORD environment variable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreateAdmin(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runCreateAdmin(cmd *cobra.Command, opts *createAdminOptions) error {
	password := opts.password
	if password == "" {
		password = os.Getenv("GAMESTORE_ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required: pass --password or set GAMESTORE_ADMIN_PASSWORD")
	}

	return withStore(cmd.Context(), func(DB *sqlx.DB, cfg *config.StoreConfig) error {
		users, err := newUserService(DB, cfg)
		if err != nil {
			return err
		}

		view, created, err := users.EnsureAdmin(cmd.Context(), opts.name, opts.email, password)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Account %s already exists (role %s)\n", view.Email, view.Role)
			return nil
		}
		cmd.Printf("Created admin %s (%s)\n", view.Email, view.ID)
		return nil
	})
}

// NewListUsersCmd creates the list-users subcommand.
func NewListUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-users",
		Short: "Print every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(DB *sqlx.DB, cfg *config.StoreConfig) error {
				users, err := newUserService(DB, cfg)
				if err != nil {
					return err
				}

				views, err := users.ListAll(cmd.Context(), cliActor)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
				for _, u := range views {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
				}
				return w.Flush()
			})
		},
	}
}

func withStore(ctx context.Context, fn func(*sqlx.DB, *config.StoreConfig) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadStore()
	if err != nil {
		return err
	}
	logger.Init(config.ParseLevel(cfg.LogLevel))

	DB, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer DB.Close()

	return fn(DB, cfg)
}

func newUserService(DB *sqlx.DB, cfg *config.StoreConfig) (service.UserService, error) {
	return service.NewUserService(DB, auth.NewBcryptHasher(cfg.BcryptCost), noTokens{})
}

// noTokens refuses to issue tokens; the CLI never logs anyone in.
type noTokens struct{}

func (noTokens) GenerateToken(string, models.Role) (string, error) {
	return "", errors.New("token issuing is not available from the CLI")
}
