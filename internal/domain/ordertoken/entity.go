package ordertoken

import (
	"errors"
	"strings"
	"time"

	"diamond-topup/internal/domain/notification"

	"github.com/google/uuid"
)

var (
	ErrInvalidSnapshot = errors.New("invalid order snapshot")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Snapshot is captured before the QR is shown and never rewritten, so later
// catalog price changes cannot alter a reserved order.
type Snapshot struct {
	OrderRef       string                 `json:"orderRef"`
	SessionID      string                 `json:"sessionId"`
	GameCode       string                 `json:"gameCode"`
	PlayerID       string                 `json:"playerId"`
	ZoneID         string                 `json:"zoneId,omitempty"`
	Nickname       string                 `json:"nickname,omitempty"`
	ProductID      uuid.UUID              `json:"productId"`
	ProductName    string                 `json:"productName"`
	Quantity       int                    `json:"quantity"`
	UnitPriceCents int64                  `json:"unitPriceCents"`
	AmountCents    int64                  `json:"amountCents"`
	Currency       string                 `json:"currency"`
	PriceTier      PriceTier              `json:"priceTier"`
	ResellerID     string                 `json:"resellerId,omitempty"`
	Messages       []notification.Message `json:"messages"`
}

func (s Snapshot) Validate() error {
	if s.OrderRef == "" || strings.TrimSpace(s.PlayerID) == "" || s.ProductID == uuid.Nil {
		return ErrInvalidSnapshot
	}
	if s.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if s.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s Snapshot) Amount() Money {
	return NewMoney(s.AmountCents)
}

type Token struct {
	hash      CorrelationHash
	status    Status
	snapshot  Snapshot
	createdAt time.Time
	used      bool
	reason    string
	updatedAt time.Time
}

func NewToken(hash CorrelationHash, snapshot Snapshot, now time.Time) (*Token, error) {
	if hash.IsZero() {
		return nil, ErrEmptyCorrelationHash
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	return &Token{
		hash:      hash,
		status:    StatusPending,
		snapshot:  snapshot,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructToken(
	hash CorrelationHash,
	status Status,
	snapshot Snapshot,
	createdAt time.Time,
	used bool,
	reason string,
	updatedAt time.Time,
) *Token {
	return &Token{
		hash:      hash,
		status:    status,
		snapshot:  snapshot,
		createdAt: createdAt,
		used:      used,
		reason:    reason,
		updatedAt: updatedAt,
	}
}

// IsPollable: status == pending かつ now - createdAt < expiry
func (t *Token) IsPollable(now time.Time, expiry time.Duration) bool {
	return t.status == StatusPending && !t.used && now.Sub(t.createdAt) < expiry
}

func (t *Token) ExpiresAt(expiry time.Duration) time.Time {
	return t.createdAt.Add(expiry)
}

func (t *Token) Hash() CorrelationHash { return t.hash }
func (t *Token) Status() Status        { return t.status }
func (t *Token) Snapshot() Snapshot    { return t.snapshot }
func (t *Token) CreatedAt() time.Time  { return t.createdAt }
func (t *Token) Used() bool            { return t.used }
func (t *Token) Reason() string        { return t.reason }
func (t *Token) UpdatedAt() time.Time  { return t.updatedAt }
