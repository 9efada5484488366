//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/infra"
	"diamond-topup/internal/pkg/errs"
)

var baseTime = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory TokenStore with the same compare-and-set rule
// as the Postgres store.
type memStore struct {
	mu     sync.Mutex
	tokens map[string]*ordertoken.Token
}

func newMemStore(tokens ...*ordertoken.Token) *memStore {
	s := &memStore{tokens: map[string]*ordertoken.Token{}}
	for _, t := range tokens {
		s.tokens[t.Hash().String()] = t
	}
	return s
}

func (s *memStore) Reserve(_ context.Context, token *ordertoken.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Hash().String()]; ok {
		return infra.WrapRepoErr("duplicate", nil, infra.KindDuplicateKey)
	}
	s.tokens[token.Hash().String()] = token
	return nil
}

func (s *memStore) transition(hash ordertoken.CorrelationHash, status ordertoken.Status, reason string) (*ordertoken.Token, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[hash.String()]
	if !ok {
		return nil, false, false
	}
	if t.Used() || t.Status() != ordertoken.StatusPending {
		return t, true, false
	}
	next := ordertoken.ReconstructToken(t.Hash(), status, t.Snapshot(), t.CreatedAt(), true, reason, t.CreatedAt())
	s.tokens[hash.String()] = next
	return next, true, true
}

func (s *memStore) TryFulfill(_ context.Context, hash ordertoken.CorrelationHash) (ordertoken.FulfillResult, error) {
	t, exists, applied := s.transition(hash, ordertoken.StatusFulfilled, "")
	switch {
	case !exists:
		return ordertoken.FulfillResult{Outcome: ordertoken.FulfillNotFound}, nil
	case !applied:
		return ordertoken.FulfillResult{Outcome: ordertoken.FulfillAlreadyDone}, nil
	default:
		return ordertoken.FulfillResult{Outcome: ordertoken.FulfillNewly, Snapshot: t.Snapshot()}, nil
	}
}

func (s *memStore) MarkUnsuccessful(_ context.Context, hash ordertoken.CorrelationHash, reason string) (bool, error) {
	_, _, applied := s.transition(hash, ordertoken.StatusUnsuccessful, reason)
	return applied, nil
}

func (s *memStore) FindByHash(_ context.Context, hash ordertoken.CorrelationHash) (*ordertoken.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[hash.String()]
	if !ok {
		return nil, infra.WrapRepoErr("not found", nil, infra.KindNotFound)
	}
	return t, nil
}

func (s *memStore) ListPendingOlderThan(_ context.Context, olderThan, newerThan time.Time) ([]*ordertoken.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*ordertoken.Token
	for _, t := range s.tokens {
		if t.Status() == ordertoken.StatusPending && !t.CreatedAt().After(olderThan) && t.CreatedAt().After(newerThan) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) status(hash string) ordertoken.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[hash].Status()
}

// countingNotifier records every SendAll call.
type countingNotifier struct {
	mu    sync.Mutex
	calls [][]notification.Message
}

func (n *countingNotifier) SendAll(_ context.Context, msgs []notification.Message) notification.Report {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, msgs)
	report := notification.Report{}
	for _, m := range msgs {
		report[m.ChannelID] = notification.OutcomeDelivered
	}
	return report
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type checkStep struct {
	status settlement.Status
	code   int
	err    error
}

var (
	stepPending   = checkStep{status: settlement.StatusPending, code: 1}
	stepSettled   = checkStep{status: settlement.StatusSettled, code: 0}
	stepFailed    = checkStep{status: settlement.StatusFailed, code: 3}
	stepTransient = checkStep{err: errs.Mark(errs.New("bakong returned 503"), settlement.ErrUpstreamTransient)}
	stepRejected  = checkStep{err: errs.Mark(errs.New("bakong returned 401"), settlement.ErrUpstreamTerminal)}
)

// scriptedGateway replays steps per hash; the last step repeats forever.
type scriptedGateway struct {
	mu     sync.Mutex
	script map[string][]checkStep
	calls  map[string]int
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{script: map[string][]checkStep{}, calls: map[string]int{}}
}

func (g *scriptedGateway) on(hash string, steps ...checkStep) *scriptedGateway {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.script[hash] = steps
	return g
}

func (g *scriptedGateway) CreateQR(context.Context, settlement.QRRequest) (*settlement.QR, error) {
	return nil, errs.New("not scripted")
}

func (g *scriptedGateway) CheckSettlement(ctx context.Context, hash ordertoken.CorrelationHash) (settlement.CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return settlement.CheckResult{}, errs.Mark(err, settlement.ErrUpstreamTransient)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	steps := g.script[hash.String()]
	if len(steps) == 0 {
		return settlement.CheckResult{}, errs.Newf("no script for %s", hash)
	}
	i := g.calls[hash.String()]
	g.calls[hash.String()]++
	if i >= len(steps) {
		i = len(steps) - 1
	}
	step := steps[i]
	if step.err != nil {
		return settlement.CheckResult{}, step.err
	}
	return settlement.CheckResult{Status: step.status, ResponseCode: step.code}, nil
}

func (g *scriptedGateway) callCount(hash string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[hash]
}
