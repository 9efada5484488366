package ordertoken

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode"
)

var (
	ErrEmptyCorrelationHash = errors.New("correlation hash is empty")
	ErrInvalidAmount        = errors.New("amount below minimum transactable unit")
	ErrInvalidOrderRef      = errors.New("invalid order reference")
)

// CorrelationHash identifies one payment attempt at the payment switch (KHQR md5).
type CorrelationHash struct {
	value string
}

func NewCorrelationHash(value string) (CorrelationHash, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return CorrelationHash{}, ErrEmptyCorrelationHash
	}
	return CorrelationHash{value: trimmed}, nil
}

func (h CorrelationHash) String() string {
	return h.value
}

func (h CorrelationHash) IsZero() bool {
	return h.value == ""
}

// Money is held in cents; amounts are compared with integer-cent tolerance.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// MoneyFromDecimal rounds a decimal currency amount (e.g. 10.5) to cents.
func MoneyFromDecimal(amount float64) Money {
	return Money{cents: int64(math.Round(amount * 100))}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Decimal() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) Multiply(qty int) Money {
	return Money{cents: m.cents * int64(qty)}
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// ValidateMinimum rejects amounts below the smallest transactable unit.
func (m Money) ValidateMinimum(minCents int64) error {
	if m.cents < minCents || m.cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

const orderRefDigits = 10

// NewOrderRef generates the human-facing numeric order id.
func NewOrderRef() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(orderRefDigits), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", orderRefDigits, n), nil
}

// NormalizeOrderRef strips an optional leading letter ("S0123456789" → "0123456789").
func NormalizeOrderRef(raw string) (string, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return "", ErrInvalidOrderRef
	}

	first := []rune(ref)[0]
	if unicode.IsLetter(first) {
		ref = string([]rune(ref)[1:])
	}

	if ref == "" {
		return "", ErrInvalidOrderRef
	}
	for _, r := range ref {
		if !unicode.IsDigit(r) {
			return "", ErrInvalidOrderRef
		}
	}

	return ref, nil
}
