package commands

import (
	"context"
	"time"

	"diamond-topup/internal/domain/catalog"
	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"

	"github.com/google/uuid"
)

type TokenStore interface {
	Reserve(ctx context.Context, token *ordertoken.Token) error
	TryFulfill(ctx context.Context, hash ordertoken.CorrelationHash) (ordertoken.FulfillResult, error)
	MarkUnsuccessful(ctx context.Context, hash ordertoken.CorrelationHash, reason string) (bool, error)
	FindByHash(ctx context.Context, hash ordertoken.CorrelationHash) (*ordertoken.Token, error)
	ListPendingOlderThan(ctx context.Context, olderThan, newerThan time.Time) ([]*ordertoken.Token, error)
}

type PaymentGateway interface {
	CreateQR(ctx context.Context, req settlement.QRRequest) (*settlement.QR, error)
	CheckSettlement(ctx context.Context, hash ordertoken.CorrelationHash) (settlement.CheckResult, error)
}

type CatalogReader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// CooldownStore holds one issuance claim per UI session.
type CooldownStore interface {
	// Claim records at unless a claim made within ttl is still held, in which
	// case it returns that claim's instant and false.
	Claim(ctx context.Context, sessionID string, at time.Time, ttl time.Duration) (time.Time, bool, error)
	// Release drops the claim made at at. A newer claim is left in place.
	Release(ctx context.Context, sessionID string, at time.Time) error
}

type Notifier interface {
	SendAll(ctx context.Context, msgs []notification.Message) notification.Report
}

// PollRegistrar receives freshly reserved tokens so their poll session
// exists before the QR is shown.
type PollRegistrar interface {
	Register(token *ordertoken.Token)
}
