//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/usecase/commands"
	"diamond-topup/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type pollerFixture struct {
	store    *memStore
	gateway  *scriptedGateway
	notifier *countingNotifier
	clock    *clock.MockClock
	poller   commands.SettlementPoller
}

func newPollerFixture(t *testing.T, tokens ...*ordertoken.Token) *pollerFixture {
	return newPollerFixtureWith(t, config.NewTestConfig().Payment, tokens...)
}

func newPollerFixtureWith(t *testing.T, cfg config.PaymentConfig, tokens ...*ordertoken.Token) *pollerFixture {
	f := &pollerFixture{
		store:    newMemStore(tokens...),
		gateway:  newScriptedGateway(),
		notifier: &countingNotifier{},
		clock:    clock.NewMockClock(baseTime),
	}
	logger := discardLogger()
	f.poller = commands.NewSettlementPoller(
		f.store,
		f.gateway,
		commands.NewFulfiller(f.store, f.notifier, logger),
		f.clock,
		logger,
		cfg,
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.poller.Shutdown(ctx)
	})
	return f
}

func (f *pollerFixture) eventuallyState(t *testing.T, hash string, want commands.PollState) *commands.PaymentStatus {
	t.Helper()
	var last *commands.PaymentStatus
	require.Eventually(t, func() bool {
		status, err := f.poller.Status(context.Background(), hash)
		if err != nil {
			return false
		}
		last = status
		return status.State == want
	}, waitFor, tick)
	return last
}

func pendingToken(t *testing.T, hash string, createdAt time.Time) *ordertoken.Token {
	t.Helper()
	token, err := builder.NewOrderTokenBuilder().WithHash(hash).WithCreatedAt(createdAt).BuildDomain()
	require.NoError(t, err)
	return token
}

func TestSettlementPoller(t *testing.T) {
	t.Run("決済確認で確定し通知は一度だけ送る", func(t *testing.T) {
		token := pendingToken(t, "h-confirm", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-confirm", stepPending, stepSettled)
		f.poller.Register(token)

		status, err := f.poller.Status(context.Background(), "h-confirm")
		require.NoError(t, err)
		assert.Equal(t, commands.StateAwaitingDisplay, status.State)
		assert.Equal(t, 0, f.gateway.callCount("h-confirm"))

		status, err = f.poller.Display(context.Background(), "h-confirm")
		require.NoError(t, err)
		assert.Equal(t, commands.StatePolling, status.State)

		status = f.eventuallyState(t, "h-confirm", commands.StateConfirmed)
		assert.Equal(t, commands.KindNone, status.Kind)
		assert.Equal(t, "0123456789", status.OrderRef)
		assert.Equal(t, ordertoken.StatusFulfilled, f.store.status("h-confirm"))
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("決済失敗コードでunsuccessfulに遷移", func(t *testing.T) {
		token := pendingToken(t, "h-failed", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-failed", stepFailed)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-failed")
		require.NoError(t, err)

		status := f.eventuallyState(t, "h-failed", commands.StateFailed)
		assert.Equal(t, commands.KindRetry, status.Kind)
		assert.Equal(t, ordertoken.StatusUnsuccessful, f.store.status("h-failed"))
		assert.Equal(t, 0, f.notifier.count())
	})

	t.Run("4xxはポーリングを止めトークンはpendingのまま", func(t *testing.T) {
		token := pendingToken(t, "h-rejected", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-rejected", stepRejected)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-rejected")
		require.NoError(t, err)

		status := f.eventuallyState(t, "h-rejected", commands.StateFailed)
		assert.Equal(t, commands.KindContactSupport, status.Kind)
		assert.Equal(t, ordertoken.StatusPending, f.store.status("h-rejected"))

		calls := f.gateway.callCount("h-rejected")
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, calls, f.gateway.callCount("h-rejected"))
	})

	t.Run("一時エラーの後もポーリングを継続する", func(t *testing.T) {
		token := pendingToken(t, "h-transient", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-transient", stepTransient, stepTransient, stepSettled)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-transient")
		require.NoError(t, err)

		f.eventuallyState(t, "h-transient", commands.StateConfirmed)
		assert.Equal(t, 3, f.gateway.callCount("h-transient"))
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("有効期限切れでunsuccessfulに遷移", func(t *testing.T) {
		token := pendingToken(t, "h-expire", baseTime.Add(-5*time.Minute+80*time.Millisecond))
		f := newPollerFixture(t, token)
		f.gateway.on("h-expire", stepPending)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-expire")
		require.NoError(t, err)

		status := f.eventuallyState(t, "h-expire", commands.StateExpired)
		assert.Equal(t, commands.KindExpired, status.Kind)
		assert.Equal(t, ordertoken.StatusUnsuccessful, f.store.status("h-expire"))

		// 期限切れが先に確定した後の決済確認は何もしない
		calls := f.gateway.callCount("h-expire")
		f.gateway.on("h-expire", stepSettled)
		status, err = f.poller.CheckOnce(context.Background(), "h-expire")
		require.NoError(t, err)
		assert.Equal(t, commands.StateExpired, status.State)
		assert.Equal(t, calls, f.gateway.callCount("h-expire"))
		assert.Equal(t, 0, f.notifier.count())
	})

	t.Run("確定が先なら期限切れは何もしない", func(t *testing.T) {
		token := pendingToken(t, "h-race", baseTime.Add(-5*time.Minute+80*time.Millisecond))
		f := newPollerFixture(t, token)
		f.gateway.on("h-race", stepPending)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-race")
		require.NoError(t, err)

		// 別経路（リコンシリエーション）が先に確定させる
		result, err := f.store.TryFulfill(context.Background(), token.Hash())
		require.NoError(t, err)
		require.Equal(t, ordertoken.FulfillNewly, result.Outcome)

		f.eventuallyState(t, "h-race", commands.StateConfirmed)
		assert.Equal(t, ordertoken.StatusFulfilled, f.store.status("h-race"))
	})

	t.Run("表示前に期限を過ぎたQRは表示時に期限切れとなる", func(t *testing.T) {
		token := pendingToken(t, "h-late", baseTime.Add(-6*time.Minute))
		f := newPollerFixture(t, token)
		f.poller.Register(token)

		status, err := f.poller.Display(context.Background(), "h-late")

		require.NoError(t, err)
		assert.Equal(t, commands.StateExpired, status.State)
		assert.Equal(t, ordertoken.StatusUnsuccessful, f.store.status("h-late"))
		assert.Equal(t, 0, f.gateway.callCount("h-late"))
	})

	t.Run("キャンセルはトークンを変更しない", func(t *testing.T) {
		token := pendingToken(t, "h-cancel", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-cancel", stepPending)
		f.poller.Register(token)

		_, err := f.poller.Display(context.Background(), "h-cancel")
		require.NoError(t, err)
		require.NoError(t, f.poller.Cancel(context.Background(), "h-cancel"))

		status, err := f.poller.Status(context.Background(), "h-cancel")
		require.NoError(t, err)
		assert.Equal(t, commands.StateCanceled, status.State)
		assert.Equal(t, ordertoken.StatusPending, f.store.status("h-cancel"))

		calls := f.gateway.callCount("h-cancel")
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, calls, f.gateway.callCount("h-cancel"))
	})

	t.Run("再起動後はストアからセッションを復元する", func(t *testing.T) {
		token := pendingToken(t, "h-restore", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-restore", stepSettled)

		_, err := f.poller.Display(context.Background(), "h-restore")
		require.NoError(t, err)

		f.eventuallyState(t, "h-restore", commands.StateConfirmed)
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("CheckOnceで確定する", func(t *testing.T) {
		token := pendingToken(t, "h-verify", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-verify", stepSettled)
		f.poller.Register(token)

		status, err := f.poller.CheckOnce(context.Background(), "h-verify")

		require.NoError(t, err)
		assert.Equal(t, commands.StateConfirmed, status.State)
		assert.Equal(t, 1, f.notifier.count())

		// 二回目は通知しない
		status, err = f.poller.CheckOnce(context.Background(), "h-verify")
		require.NoError(t, err)
		assert.Equal(t, commands.StateConfirmed, status.State)
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("CheckOnceの一時エラーは呼び出し元に返す", func(t *testing.T) {
		token := pendingToken(t, "h-verify-err", baseTime)
		f := newPollerFixture(t, token)
		f.gateway.on("h-verify-err", stepTransient)
		f.poller.Register(token)

		_, err := f.poller.CheckOnce(context.Background(), "h-verify-err")

		assert.True(t, errs.Is(err, commands.ErrUpstreamTransient))
		assert.Equal(t, ordertoken.StatusPending, f.store.status("h-verify-err"))
	})

	t.Run("不明なハッシュ", func(t *testing.T) {
		f := newPollerFixture(t)

		_, err := f.poller.Status(context.Background(), "unknown")

		assert.True(t, errs.Is(err, commands.ErrPaymentNotFound))
	})
}

func TestSettlementPoller_SessionLifetime(t *testing.T) {
	t.Run("表示されず閉じられたセッションも期限後に期限切れとなり解放される", func(t *testing.T) {
		cfg := config.NewTestConfig().Payment
		cfg.QRExpiry = 50 * time.Millisecond

		const n = 20
		tokens := make([]*ordertoken.Token, 0, n)
		for i := range n {
			tokens = append(tokens, pendingToken(t, fmt.Sprintf("h-life-%02d", i), baseTime))
		}
		f := newPollerFixtureWith(t, cfg, tokens...)

		for i, token := range tokens {
			f.gateway.on(token.Hash().String(), stepPending)
			f.poller.Register(token)
			if i%2 == 0 {
				_, err := f.poller.Display(context.Background(), token.Hash().String())
				require.NoError(t, err)
				require.NoError(t, f.poller.Cancel(context.Background(), token.Hash().String()))
			}
		}
		require.Equal(t, n, commands.SessionCount(f.poller))

		// 期限切れの記録と、その後の猶予期間経過による解放
		require.Eventually(t, func() bool {
			return commands.SessionCount(f.poller) == 0
		}, waitFor, tick)

		for _, token := range tokens {
			assert.Equal(t, ordertoken.StatusUnsuccessful, f.store.status(token.Hash().String()))
		}
		assert.Equal(t, 0, f.notifier.count())
	})

	t.Run("解放後の照会はストアから状態を復元する", func(t *testing.T) {
		cfg := config.NewTestConfig().Payment
		cfg.QRExpiry = 30 * time.Millisecond

		token := pendingToken(t, "h-life-restore", baseTime)
		f := newPollerFixtureWith(t, cfg, token)
		f.poller.Register(token)

		require.Eventually(t, func() bool {
			return commands.SessionCount(f.poller) == 0
		}, waitFor, tick)

		status, err := f.poller.Status(context.Background(), "h-life-restore")
		require.NoError(t, err)
		assert.Equal(t, commands.StateExpired, status.State)
		assert.Equal(t, commands.KindExpired, status.Kind)
	})

	t.Run("確定済みセッションでは期限タイマーは何もしない", func(t *testing.T) {
		cfg := config.NewTestConfig().Payment
		cfg.QRExpiry = 40 * time.Millisecond

		token := pendingToken(t, "h-life-confirmed", baseTime)
		f := newPollerFixtureWith(t, cfg, token)
		f.gateway.on("h-life-confirmed", stepSettled)
		f.poller.Register(token)

		status, err := f.poller.CheckOnce(context.Background(), "h-life-confirmed")
		require.NoError(t, err)
		require.Equal(t, commands.StateConfirmed, status.State)

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, ordertoken.StatusFulfilled, f.store.status("h-life-confirmed"))
		assert.Equal(t, 1, f.notifier.count())
	})
}
