package commands

import (
	"context"
	"log/slog"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
)

type SweepResult struct {
	Checked   int
	Fulfilled int
	Pending   int
	Errors    int
}

type Sweeper interface {
	Sweep(ctx context.Context) (*SweepResult, error)
}

// sweeperImpl recovers payments that settled while nobody was polling. A
// token is only fulfilled after two settled reads separated by verifyGap.
type sweeperImpl struct {
	store     TokenStore
	gateway   PaymentGateway
	fulfiller *Fulfiller
	clock     clock.Clock
	logger    *slog.Logger

	lookback  time.Duration
	minAge    time.Duration
	verifyGap time.Duration
}

func NewSweeper(
	store TokenStore,
	gateway PaymentGateway,
	fulfiller *Fulfiller,
	clock clock.Clock,
	logger *slog.Logger,
	cfg config.SweepConfig,
) Sweeper {
	return &sweeperImpl{
		store:     store,
		gateway:   gateway,
		fulfiller: fulfiller,
		clock:     clock,
		logger:    logger,
		lookback:  cfg.Lookback,
		minAge:    cfg.MinAge,
		verifyGap: cfg.VerifyGap,
	}
}

func (s *sweeperImpl) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.clock.Now()
	tokens, err := s.store.ListPendingOlderThan(ctx, now.Add(-s.minAge), now.Add(-s.lookback))
	if err != nil {
		return nil, errs.Wrap(err, "failed to list pending order tokens")
	}

	result := &SweepResult{}
	for _, token := range tokens {
		if ctx.Err() != nil {
			break
		}
		result.Checked++

		fulfilled, err := s.reconcile(ctx, token.Hash())
		switch {
		case err != nil:
			result.Errors++
			s.logger.Warn("リコンシリエーション中にエラーが発生しました",
				slog.String("correlation_hash", token.Hash().String()),
				slog.String("error", err.Error()))
		case fulfilled:
			result.Fulfilled++
		default:
			result.Pending++
		}
	}

	s.logger.Info("リコンシリエーションが完了しました",
		slog.Int("checked", result.Checked),
		slog.Int("fulfilled", result.Fulfilled),
		slog.Int("pending", result.Pending),
		slog.Int("errors", result.Errors))

	return result, ctx.Err()
}

// reconcile returns true only when this sweep performed the transition.
func (s *sweeperImpl) reconcile(ctx context.Context, hash ordertoken.CorrelationHash) (bool, error) {
	first, err := s.gateway.CheckSettlement(ctx, hash)
	if err != nil {
		return false, err
	}
	if first.Status != settlement.StatusSettled {
		return false, nil
	}

	timer := time.NewTimer(s.verifyGap)
	select {
	case <-ctx.Done():
		timer.Stop()
		return false, ctx.Err()
	case <-timer.C:
	}

	second, err := s.gateway.CheckSettlement(ctx, hash)
	if err != nil {
		return false, err
	}
	if second.Status != settlement.StatusSettled {
		s.logger.Warn("二回目の確認で決済済みになりませんでした",
			slog.String("correlation_hash", hash.String()),
			slog.Int("response_code", second.ResponseCode))
		return false, nil
	}

	outcome, _, err := s.fulfiller.Fulfill(ctx, hash, "sweeper")
	if err != nil {
		return false, err
	}
	return outcome == ordertoken.FulfillNewly, nil
}
