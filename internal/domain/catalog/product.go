package catalog

import (
	"errors"

	"diamond-topup/internal/domain/ordertoken"

	"github.com/google/uuid"
)

var (
	ErrProductInactive = errors.New("product is not available")
	ErrPriceChanged    = errors.New("catalog price changed")
)

// Product is the read-only view of a catalog row needed to price an order.
type Product struct {
	ID                 uuid.UUID
	GameCode           string
	Name               string
	Diamonds           int
	PriceCents         int64
	ResellerPriceCents *int64
	Active             bool
}

type PriceCalculator interface {
	UnitPrice(p Product, tier ordertoken.PriceTier) ordertoken.Money
}

type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

// reseller 価格が未設定の商品は通常価格で販売する
func (pc *DefaultPriceCalculator) UnitPrice(p Product, tier ordertoken.PriceTier) ordertoken.Money {
	if tier == ordertoken.TierReseller && p.ResellerPriceCents != nil {
		return ordertoken.NewMoney(*p.ResellerPriceCents)
	}
	return ordertoken.NewMoney(p.PriceCents)
}

type Quote struct {
	UnitPrice ordertoken.Money
	Total     ordertoken.Money
	Tier      ordertoken.PriceTier
}

// VerifyCharge recomputes the charge from the authoritative price and refuses
// a proposed amount that differs by at least one cent.
func VerifyCharge(calc PriceCalculator, p Product, tier ordertoken.PriceTier, qty int, proposed ordertoken.Money) (Quote, error) {
	if !p.Active {
		return Quote{}, ErrProductInactive
	}
	if qty <= 0 {
		return Quote{}, ordertoken.ErrInvalidQuantity
	}

	unit := calc.UnitPrice(p, tier)
	total := unit.Multiply(qty)
	if !total.Equal(proposed) {
		return Quote{}, ErrPriceChanged
	}

	return Quote{UnitPrice: unit, Total: total, Tier: tier}, nil
}
