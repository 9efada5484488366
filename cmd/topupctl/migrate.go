package main

import (
	"context"
	"fmt"

	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/spf13/cobra"
)

var (
	migrateDir    string
	migrateBinary string
	migrateDryRun bool
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations with atlas",
		Long: `Applies the versioned migrations in the migrations directory to the
database configured by the DB_* environment variables.

Examples:
  topupctl migrate
  topupctl migrate --dry-run
  topupctl migrate status`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&migrateDir, "dir", "file://migrations", "atlas migration directory URL")
	cmd.PersistentFlags().StringVar(&migrateBinary, "atlas", "atlas", "path to the atlas binary")
	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "print pending migrations without applying them")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrateStatus(cmd.Context())
		},
	})
	return cmd
}

func atlasClient() (*atlasexec.Client, string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}
	client, err := atlasexec.NewClient(".", migrateBinary)
	if err != nil {
		return nil, "", errs.Wrap(err, "failed to initialize atlas client")
	}
	return client, cfg.DB.BuildDSN(), nil
}

func runMigrate(ctx context.Context) error {
	client, dsn, err := atlasClient()
	if err != nil {
		return err
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dsn,
		DirURL: migrateDir,
		DryRun: migrateDryRun,
	})
	if err != nil {
		return errs.Wrap(err, "failed to apply migrations")
	}

	if len(res.Applied) == 0 {
		fmt.Printf("No pending migrations (current version %s)\n", res.Current)
		return nil
	}
	for _, f := range res.Applied {
		fmt.Printf("applied %s\n", f.Name)
	}
	fmt.Printf("Migrated %s -> %s\n", res.Current, res.Target)
	return nil
}

func runMigrateStatus(ctx context.Context) error {
	client, dsn, err := atlasClient()
	if err != nil {
		return err
	}

	res, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{
		URL:    dsn,
		DirURL: migrateDir,
	})
	if err != nil {
		return errs.Wrap(err, "failed to read migration status")
	}

	fmt.Printf("status:  %s\n", res.Status)
	fmt.Printf("current: %s\n", res.Current)
	fmt.Printf("next:    %s\n", res.Next)
	fmt.Printf("pending: %d\n", len(res.Pending))
	return nil
}
