package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/app"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "identityctl",
		Short:         "Administer the identity store and its seed changelog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newChangelogCommand())
	cmd.AddCommand(newRolesCommand())
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withStore loads the config, applying env as an override when set, and
// hands an open store to fn.
func withStore(cmd *cobra.Command, env string, fn func(ctx context.Context, cfg app.Config, st store.Store) error) error {
	ctx := commandContext(cmd)

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if env != "" {
		cfg.Env = env
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(ctx, cfg, st)
}

func newMigrateCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and the seed changelog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(ctx context.Context, cfg app.Config, st store.Store) error {
				runner, err := app.NewSeedRunner(cfg, st, logger(cfg))
				if err != nil {
					return err
				}
				report, err := runner.Apply(ctx, cfg.Env)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, id := range report.Applied {
					fmt.Fprintf(out, "applied  %s\n", id)
				}
				for _, id := range report.Skipped {
					fmt.Fprintf(out, "skipped  %s\n", id)
				}
				fmt.Fprintf(out, "%s: %d applied, %d already present\n", report.Env, len(report.Applied), len(report.Skipped))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "Environment to seed (dev, uat, prod); defaults to IDENTITY_ENV")
	return cmd
}

func newChangelogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Seed changelog operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newChangelogStatusCommand())
	return cmd
}

func newChangelogStatusCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show each changeset against the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, env, func(ctx context.Context, cfg app.Config, st store.Store) error {
				runner, err := app.NewSeedRunner(cfg, st, logger(cfg))
				if err != nil {
					return err
				}
				statuses, err := runner.Status(ctx, cfg.Env)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTARGET\tAUTHOR\tSTATE\tAPPLIED AT")
				for _, s := range statuses {
					appliedAt := "-"
					if s.Applied {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Target, s.Author, changesetState(s.Applies, s.Applied, s.Drifted), appliedAt)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "Environment to report on; defaults to IDENTITY_ENV")
	return cmd
}

func changesetState(applies, applied, drifted bool) string {
	switch {
	case drifted:
		return "drifted"
	case applied:
		return "applied"
	case applies:
		return "pending"
	default:
		return "excluded"
	}
}

func newRolesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Role operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newRolesListCommand())
	cmd.AddCommand(newRolesCreateCommand())
	cmd.AddCommand(newRolesLookupCommand())
	return cmd
}

func newRolesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, "", func(ctx context.Context, cfg app.Config, st store.Store) error {
				roles, err := service.NewRoleService(st, logger(cfg)).GetAllRoles(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
				for _, r := range roles {
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, r.Description)
				}
				return w.Flush()
			})
		},
	}
}

func newRolesCreateCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a role with a unique name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, "", func(ctx context.Context, cfg app.Config, st store.Store) error {
				role, err := service.NewRoleService(st, logger(cfg)).CreateRole(ctx, args[0], description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", role.ID, role.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Human readable description")
	return cmd
}

func newRolesLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup NAME",
		Short: "Print the id of the role with the given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, "", func(ctx context.Context, cfg app.Config, st store.Store) error {
				id, ok, err := service.NewRoleLookupService(st).FindRoleIDByName(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("role %q not found", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func logger(cfg app.Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "identityctl",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  "text",
		Output:  os.Stderr,
	})
}
