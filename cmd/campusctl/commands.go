package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zerds-Global/Alumini-interaction/pkg/database"
)

type loader func() (*env, error)

func newMigrateCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.close()
			return database.RunMigrations(e.sqlDB, e.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the given number of migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.close()
			return database.RollbackMigrations(e.sqlDB, steps, e.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func newSeedCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-superadmin",
		Short: "Create the configured superadmin account if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := load()
			if err != nil {
				return err
			}
			defer e.close()

			created, err := e.services().Seed.EnsureSuperAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "superadmin %s created\n", e.cfg.Seed.SuperAdminEmail)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "superadmin already present or seed not configured")
			}
			return nil
		},
	}
}

func newPromoteCmd(load loader) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote students whose batch has ended to alumni",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse("2006-01-02", at)
				if err != nil {
					return fmt.Errorf("--at must be YYYY-MM-DD: %w", err)
				}
				now = t
			}

			e, err := load()
			if err != nil {
				return err
			}
			defer e.close()

			n, err := e.services().Graduation.PromoteGraduates(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d students promoted to alumni\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "reference date (YYYY-MM-DD), defaults to today")
	return cmd
}
