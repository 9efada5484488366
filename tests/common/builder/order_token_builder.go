//go:build unit || e2e

package builder

import (
	"time"

	"diamond-topup/internal/domain/catalog"
	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"
	reqdto "diamond-topup/internal/handler/dto/request"

	"github.com/google/uuid"
)

type OrderTokenBuilder struct {
	Hash        string
	Status      ordertoken.Status
	OrderRef    string
	SessionID   string
	GameCode    string
	PlayerID    string
	ZoneID      string
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitCents   int64
	Currency    string
	Tier        ordertoken.PriceTier
	Messages    []notification.Message
	CreatedAt   time.Time
	Used        bool
	Reason      string
}

func NewOrderTokenBuilder() *OrderTokenBuilder {
	return &OrderTokenBuilder{
		Hash:        "d41d8cd98f00b204e9800998ecf8427e",
		Status:      ordertoken.StatusPending,
		OrderRef:    "0123456789",
		SessionID:   "session-1",
		GameCode:    "mlbb",
		PlayerID:    "12345678",
		ZoneID:      "2001",
		ProductID:   uuid.MustParse("6f1c2a8e-6a55-4d43-9d8a-2a0f5e1f3b10"),
		ProductName: "86 Diamonds",
		Quantity:    1,
		UnitCents:   1000,
		Currency:    "USD",
		Tier:        ordertoken.TierRetail,
		Messages: []notification.Message{
			{ChannelID: "telegram:-100200", Text: "New order 0123456789"},
			{ChannelID: "telegram:555", Text: "Thank you for your order"},
		},
		CreatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *OrderTokenBuilder) With(mutate func(*OrderTokenBuilder)) *OrderTokenBuilder {
	mutate(b)
	return b
}

func (b *OrderTokenBuilder) WithHash(hash string) *OrderTokenBuilder {
	b.Hash = hash
	return b
}

func (b *OrderTokenBuilder) WithCreatedAt(t time.Time) *OrderTokenBuilder {
	b.CreatedAt = t
	return b
}

func (b *OrderTokenBuilder) WithStatus(status ordertoken.Status, used bool) *OrderTokenBuilder {
	b.Status = status
	b.Used = used
	return b
}

func (b *OrderTokenBuilder) BuildSnapshot() ordertoken.Snapshot {
	return ordertoken.Snapshot{
		OrderRef:       b.OrderRef,
		SessionID:      b.SessionID,
		GameCode:       b.GameCode,
		PlayerID:       b.PlayerID,
		ZoneID:         b.ZoneID,
		ProductID:      b.ProductID,
		ProductName:    b.ProductName,
		Quantity:       b.Quantity,
		UnitPriceCents: b.UnitCents,
		AmountCents:    b.UnitCents * int64(b.Quantity),
		Currency:       b.Currency,
		PriceTier:      b.Tier,
		Messages:       b.Messages,
	}
}

func (b *OrderTokenBuilder) BuildDomain() (*ordertoken.Token, error) {
	hash, err := ordertoken.NewCorrelationHash(b.Hash)
	if err != nil {
		return nil, err
	}
	return ordertoken.NewToken(hash, b.BuildSnapshot(), b.CreatedAt)
}

// BuildStored reconstructs a token as the store would return it.
func (b *OrderTokenBuilder) BuildStored() *ordertoken.Token {
	hash, _ := ordertoken.NewCorrelationHash(b.Hash)
	return ordertoken.ReconstructToken(hash, b.Status, b.BuildSnapshot(), b.CreatedAt, b.Used, b.Reason, b.CreatedAt)
}

func (b *OrderTokenBuilder) BuildProduct() catalog.Product {
	return catalog.Product{
		ID:         b.ProductID,
		GameCode:   b.GameCode,
		Name:       b.ProductName,
		Diamonds:   86,
		PriceCents: b.UnitCents,
		Active:     true,
	}
}

func (b *OrderTokenBuilder) BuildIssueRequestDTO() reqdto.IssueQRRequest {
	return reqdto.IssueQRRequest{
		ProductID: b.ProductID,
		Quantity:  b.Quantity,
		Amount:    float64(b.UnitCents*int64(b.Quantity)) / 100,
		GameCode:  b.GameCode,
		PlayerID:  b.PlayerID,
		ZoneID:    b.ZoneID,
	}
}
