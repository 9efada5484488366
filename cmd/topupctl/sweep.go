package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"diamond-topup/cmd/bootstrap"
	resdto "diamond-topup/internal/handler/dto/response"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func sweepCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reconciliation sweep over recent pending orders",
		Long: `Re-checks pending orders created inside the sweep lookback window
against the payment switch and fulfills those that settled while nobody
was polling. Uses the same environment as the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runSweep(ctx)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort the sweep after this long")
	return cmd
}

func runSweep(ctx context.Context) error {
	var sweeper commands.Sweeper
	app := fx.New(
		bootstrap.CoreModule,
		fx.NopLogger,
		fx.Populate(&sweeper),
	)
	if err := app.Start(ctx); err != nil {
		return errs.Wrap(err, "failed to start")
	}
	// Stop drains queued confirmations, so it runs even when the sweep fails.
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			fmt.Fprintln(os.Stderr, "shutdown:", err)
		}
	}()

	result, err := sweeper.Sweep(ctx)
	if err != nil {
		return errs.Wrap(err, "sweep failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resdto.FromSweepResult(result))
}
