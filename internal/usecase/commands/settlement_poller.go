package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/infra"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/pkg/schedule"
)

type PollState string

const (
	StateAwaitingDisplay PollState = "awaiting_display"
	StatePolling         PollState = "polling"
	StateConfirmed       PollState = "confirmed"
	StateFailed          PollState = "failed"
	StateExpired         PollState = "expired"
	StateCanceled        PollState = "canceled"
)

// IsTerminal: canceled is not terminal, the UI may display the QR again.
func (s PollState) IsTerminal() bool {
	return s == StateConfirmed || s == StateFailed || s == StateExpired
}

// MessageKind tells the UI what the buyer can do next.
type MessageKind string

const (
	KindNone           MessageKind = ""
	KindRetry          MessageKind = "retry"
	KindContactSupport MessageKind = "contact_support"
	KindExpired        MessageKind = "expired"
	KindWait           MessageKind = "wait"
)

type PaymentStatus struct {
	CorrelationHash string
	State           PollState
	OrderRef        string
	ExpiresAt       time.Time
	Message         string
	Kind            MessageKind
}

type SettlementPoller interface {
	PollRegistrar
	Display(ctx context.Context, hash string) (*PaymentStatus, error)
	Status(ctx context.Context, hash string) (*PaymentStatus, error)
	CheckOnce(ctx context.Context, hash string) (*PaymentStatus, error)
	Cancel(ctx context.Context, hash string) error
	Shutdown(ctx context.Context) error
}

type pollSession struct {
	hash      ordertoken.CorrelationHash
	orderRef  string
	expiresAt time.Time

	mu       sync.Mutex
	state    PollState
	failure  error
	task     *schedule.Task
	deadline *time.Timer
}

func (s *pollSession) snapshot(now time.Time) *PaymentStatus {
	s.mu.Lock()
	state, failure := s.state, s.failure
	s.mu.Unlock()

	// 表示されないまま期限を過ぎたセッションは、遷移前でも期限切れとして見せる
	if (state == StateAwaitingDisplay || state == StateCanceled) && !now.Before(s.expiresAt) {
		state, failure = StateExpired, ErrExpired
	}

	status := &PaymentStatus{
		CorrelationHash: s.hash.String(),
		State:           state,
		OrderRef:        s.orderRef,
		ExpiresAt:       s.expiresAt,
	}
	status.Message, status.Kind = describe(state, failure)
	return status
}

func describe(state PollState, failure error) (string, MessageKind) {
	switch state {
	case StateConfirmed:
		return "Payment confirmed. Your diamonds are on the way.", KindNone
	case StateExpired:
		return "This QR code has expired. Please request a new one.", KindExpired
	case StateFailed:
		if errs.Is(failure, ErrUpstreamTerminal) || errs.Is(failure, ErrPaymentNotFound) {
			return "We could not confirm your payment. Please contact support with your order number.", KindContactSupport
		}
		return "The payment was not completed. Please try again.", KindRetry
	case StateCanceled:
		return "Payment window closed.", KindNone
	default:
		return "Waiting for payment.", KindNone
	}
}

type settlementPollerImpl struct {
	store     TokenStore
	gateway   PaymentGateway
	fulfiller *Fulfiller
	clock     clock.Clock
	logger    *slog.Logger

	interval     time.Duration
	expiry       time.Duration
	storeTimeout time.Duration

	baseCtx context.Context
	stop    context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*pollSession
	wg       sync.WaitGroup
}

func NewSettlementPoller(
	store TokenStore,
	gateway PaymentGateway,
	fulfiller *Fulfiller,
	clock clock.Clock,
	logger *slog.Logger,
	cfg config.PaymentConfig,
) SettlementPoller {
	ctx, cancel := context.WithCancel(context.Background())
	return &settlementPollerImpl{
		store:        store,
		gateway:      gateway,
		fulfiller:    fulfiller,
		clock:        clock,
		logger:       logger,
		interval:     cfg.PollInterval,
		expiry:       cfg.QRExpiry,
		storeTimeout: 5 * time.Second,
		baseCtx:      ctx,
		stop:         cancel,
		sessions:     make(map[string]*pollSession),
	}
}

func (p *settlementPollerImpl) Register(token *ordertoken.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := token.Hash().String()
	if _, ok := p.sessions[key]; ok {
		return
	}
	s := &pollSession{
		hash:      token.Hash(),
		orderRef:  token.Snapshot().OrderRef,
		expiresAt: token.ExpiresAt(p.expiry),
		state:     StateAwaitingDisplay,
	}
	p.armDeadline(s)
	p.sessions[key] = s
}

// Display starts polling once the QR is actually on screen. Calling it again
// while polling is a no-op.
func (p *settlementPollerImpl) Display(ctx context.Context, rawHash string) (*PaymentStatus, error) {
	s, err := p.session(ctx, rawHash)
	if err != nil {
		return nil, err
	}

	now := p.clock.Now()
	s.mu.Lock()
	startable := s.state == StateAwaitingDisplay || s.state == StateCanceled
	if startable && now.Before(s.expiresAt) {
		p.startPolling(s, now)
		startable = false
	}
	s.mu.Unlock()

	if startable {
		p.expire(s)
	}
	return s.snapshot(p.clock.Now()), nil
}

func (p *settlementPollerImpl) Status(ctx context.Context, rawHash string) (*PaymentStatus, error) {
	s, err := p.session(ctx, rawHash)
	if err != nil {
		return nil, err
	}
	return s.snapshot(p.clock.Now()), nil
}

// CheckOnce runs a single settlement check outside the poll loop and feeds
// the result through the same transitions.
func (p *settlementPollerImpl) CheckOnce(ctx context.Context, rawHash string) (*PaymentStatus, error) {
	s, err := p.session(ctx, rawHash)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	terminal := s.state.IsTerminal()
	s.mu.Unlock()
	if terminal {
		return s.snapshot(p.clock.Now()), nil
	}
	if !p.clock.Now().Before(s.expiresAt) {
		p.expire(s)
		return s.snapshot(p.clock.Now()), nil
	}

	result, err := p.gateway.CheckSettlement(ctx, s.hash)
	if err != nil {
		return nil, errs.Wrap(err, "failed to check settlement")
	}
	p.apply(ctx, s, result)
	return s.snapshot(p.clock.Now()), nil
}

// Cancel stops polling for a closed payment UI. The token is left as is.
func (p *settlementPollerImpl) Cancel(ctx context.Context, rawHash string) error {
	s, err := p.session(ctx, rawHash)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	if !s.state.IsTerminal() {
		s.state = StateCanceled
	}
	return nil
}

func (p *settlementPollerImpl) Shutdown(ctx context.Context) error {
	p.stop()

	p.mu.Lock()
	for _, s := range p.sessions {
		s.mu.Lock()
		if s.deadline != nil {
			s.deadline.Stop()
		}
		s.mu.Unlock()
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// session returns the live session or rebuilds one from the store, which
// covers sessions lost to a restart.
func (p *settlementPollerImpl) session(ctx context.Context, rawHash string) (*pollSession, error) {
	hash, err := ordertoken.NewCorrelationHash(rawHash)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}

	p.mu.Lock()
	s, ok := p.sessions[hash.String()]
	p.mu.Unlock()
	if ok {
		return s, nil
	}

	token, err := p.store.FindByHash(ctx, hash)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, errs.Wrap(err, "failed to load order token")
	}

	state, failure := p.stateFromToken(token)
	restored := &pollSession{
		hash:      hash,
		orderRef:  token.Snapshot().OrderRef,
		expiresAt: token.ExpiresAt(p.expiry),
		state:     state,
		failure:   failure,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[hash.String()]; ok {
		return s, nil
	}
	if state.IsTerminal() {
		p.scheduleEviction(restored)
	} else {
		p.armDeadline(restored)
	}
	p.sessions[hash.String()] = restored
	return restored, nil
}

// startPolling must be called with s.mu held.
func (p *settlementPollerImpl) startPolling(s *pollSession, now time.Time) {
	// 有効期限はポーリング間隔とは独立したデッドラインで管理する
	ctx, cancel := context.WithTimeout(p.baseCtx, s.expiresAt.Sub(now))
	task := schedule.Every(ctx, p.interval, false, func(tickCtx context.Context) bool {
		return p.tick(tickCtx, s)
	})
	s.task = task
	s.state = StatePolling

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		<-task.Done()
		cancel()
		if errors.Is(task.Err(), context.DeadlineExceeded) {
			p.expire(s)
		}
	}()

	p.logger.Info("ポーリングを開始しました",
		slog.String("correlation_hash", s.hash.String()),
		slog.Time("expires_at", s.expiresAt))
}

func (p *settlementPollerImpl) tick(ctx context.Context, s *pollSession) bool {
	result, err := p.gateway.CheckSettlement(ctx, s.hash)
	if err != nil {
		// 期限切れ・キャンセルはタスク側で処理させる
		if ctx.Err() != nil {
			return false
		}
		if errs.Is(err, ErrUpstreamTerminal) {
			p.logger.Error("決済スイッチが確認要求を拒否しました。ポーリングを停止します",
				slog.String("correlation_hash", s.hash.String()),
				slog.String("error", err.Error()))
			p.finish(s, StateFailed, err)
			return true
		}
		p.logger.Warn("決済確認に失敗しました。次の間隔で再試行します",
			slog.String("correlation_hash", s.hash.String()),
			slog.String("error", err.Error()))
		return false
	}
	return p.apply(ctx, s, result)
}

// apply reports whether the session reached a terminal state.
func (p *settlementPollerImpl) apply(ctx context.Context, s *pollSession, result settlement.CheckResult) bool {
	writeCtx := context.WithoutCancel(ctx)

	switch result.Status {
	case settlement.StatusPending:
		return false

	case settlement.StatusSettled:
		outcome, _, err := p.fulfiller.Fulfill(writeCtx, s.hash, "poller")
		if err != nil {
			p.logger.Error("注文の確定に失敗しました",
				slog.String("correlation_hash", s.hash.String()),
				slog.String("error", err.Error()))
			return false
		}
		switch outcome {
		case ordertoken.FulfillNewly:
			p.finish(s, StateConfirmed, nil)
		case ordertoken.FulfillAlreadyDone:
			p.syncFromStore(writeCtx, s)
		default:
			p.finish(s, StateFailed, ErrPaymentNotFound)
		}
		return true

	default:
		applied, err := p.store.MarkUnsuccessful(writeCtx, s.hash, ordertoken.ReasonPaymentFailed)
		if err != nil {
			p.logger.Error("決済失敗の記録に失敗しました",
				slog.String("correlation_hash", s.hash.String()),
				slog.String("error", err.Error()))
			return false
		}
		if applied {
			p.logger.Info("決済が失敗しました",
				slog.String("correlation_hash", s.hash.String()),
				slog.Int("response_code", result.ResponseCode))
			p.finish(s, StateFailed, ErrPaymentFailed)
		} else {
			p.syncFromStore(writeCtx, s)
		}
		return true
	}
}

// expire loses silently when the token already reached a terminal state.
func (p *settlementPollerImpl) expire(s *pollSession) {
	ctx, cancel := context.WithTimeout(context.Background(), p.storeTimeout)
	defer cancel()

	applied, err := p.store.MarkUnsuccessful(ctx, s.hash, ordertoken.ReasonExpired)
	if err != nil {
		// トークンは pending のまま。リコンシリエーションで回収される
		p.logger.Error("期限切れの記録に失敗しました",
			slog.String("correlation_hash", s.hash.String()),
			slog.String("error", err.Error()))
		p.finish(s, StateExpired, ErrExpired)
		return
	}
	if !applied {
		p.syncFromStore(ctx, s)
		// 再読込に失敗しても保持し続けない。次の照会でストアから復元される
		p.mu.Lock()
		p.scheduleEviction(s)
		p.mu.Unlock()
		return
	}

	p.logger.Info("QRの有効期限が切れました", slog.String("correlation_hash", s.hash.String()))
	p.finish(s, StateExpired, ErrExpired)
}

// armDeadline expires sessions that are not polling when their QR runs
// out: never displayed, or closed by the buyer. Polling sessions expire
// through their task deadline.
func (p *settlementPollerImpl) armDeadline(s *pollSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadline = time.AfterFunc(s.expiresAt.Sub(p.clock.Now()), func() {
		if p.baseCtx.Err() != nil {
			return
		}
		s.mu.Lock()
		state := s.state
		s.mu.Unlock()
		if state.IsTerminal() || state == StatePolling {
			return
		}
		p.expire(s)
	})
}

func (p *settlementPollerImpl) syncFromStore(ctx context.Context, s *pollSession) {
	token, err := p.store.FindByHash(ctx, s.hash)
	if err != nil {
		p.logger.Error("トークン状態の再読込に失敗しました",
			slog.String("correlation_hash", s.hash.String()),
			slog.String("error", err.Error()))
		return
	}
	state, failure := p.stateFromToken(token)
	if state.IsTerminal() {
		p.finish(s, state, failure)
	}
}

func (p *settlementPollerImpl) stateFromToken(token *ordertoken.Token) (PollState, error) {
	switch token.Status() {
	case ordertoken.StatusFulfilled:
		return StateConfirmed, nil
	case ordertoken.StatusUnsuccessful:
		switch token.Reason() {
		case ordertoken.ReasonExpired:
			return StateExpired, ErrExpired
		case ordertoken.ReasonUpstreamReject:
			return StateFailed, ErrUpstreamTerminal
		default:
			return StateFailed, ErrPaymentFailed
		}
	default:
		return StateAwaitingDisplay, nil
	}
}

func (p *settlementPollerImpl) finish(s *pollSession, state PollState, failure error) {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.failure = failure
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	if s.deadline != nil {
		s.deadline.Stop()
	}
	s.mu.Unlock()

	p.mu.Lock()
	p.scheduleEviction(s)
	p.mu.Unlock()
}

// scheduleEviction must be called with p.mu held.
func (p *settlementPollerImpl) scheduleEviction(s *pollSession) {
	key := s.hash.String()
	time.AfterFunc(p.expiry, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.sessions[key] == s {
			delete(p.sessions, key)
		}
	})
}
