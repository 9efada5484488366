package queries

import (
	"context"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAmbiguousLookup = errs.New("order lookup is ambiguous")
	ErrOrderNotFound   = errs.New("no order matches the reference")
	ErrMultipleOrders  = errs.New("more than one order matches the reference")
	ErrInvalidOrderRef = errs.New("invalid order reference")
)

// OrderView is the stored snapshot plus its settlement status.
type OrderView struct {
	OrderRef        string
	CorrelationHash string
	Status          string
	Reason          string
	GameCode        string
	PlayerID        string
	ZoneID          string
	Nickname        string
	ProductID       uuid.UUID
	ProductName     string
	Quantity        int
	UnitPriceCents  int64
	AmountCents     int64
	Currency        string
	PriceTier       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderReadStore interface {
	FindByOrderRef(ctx context.Context, orderRef string) ([]*ordertoken.Token, error)
}

type OrderQueries interface {
	GetByOrderRef(ctx context.Context, rawOrderRef string) (*OrderView, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

// GetByOrderRef accepts the human-facing id with or without its letter
// prefix. It never guesses: zero or several matches are both an error.
func (q *orderQueriesImpl) GetByOrderRef(ctx context.Context, rawOrderRef string) (*OrderView, error) {
	ref, err := ordertoken.NormalizeOrderRef(rawOrderRef)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidOrderRef)
	}

	tokens, err := q.store.FindByOrderRef(ctx, ref)
	if err != nil {
		return nil, errs.Wrap(err, "failed to look up order")
	}

	switch len(tokens) {
	case 0:
		return nil, errs.Mark(errs.Wrapf(ErrOrderNotFound, "order ref %s", ref), ErrAmbiguousLookup)
	case 1:
		return toOrderView(tokens[0]), nil
	default:
		return nil, errs.Mark(errs.Wrapf(ErrMultipleOrders, "order ref %s matched %d orders", ref, len(tokens)), ErrAmbiguousLookup)
	}
}

func toOrderView(t *ordertoken.Token) *OrderView {
	s := t.Snapshot()
	return &OrderView{
		OrderRef:        s.OrderRef,
		CorrelationHash: t.Hash().String(),
		Status:          t.Status().String(),
		Reason:          t.Reason(),
		GameCode:        s.GameCode,
		PlayerID:        s.PlayerID,
		ZoneID:          s.ZoneID,
		Nickname:        s.Nickname,
		ProductID:       s.ProductID,
		ProductName:     s.ProductName,
		Quantity:        s.Quantity,
		UnitPriceCents:  s.UnitPriceCents,
		AmountCents:     s.AmountCents,
		Currency:        s.Currency,
		PriceTier:       string(s.PriceTier),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}
}
