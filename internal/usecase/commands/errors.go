package commands

import (
	"fmt"
	"math"
	"time"

	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/pkg/errs"
)

var (
	ErrInvalidAmount     = errs.New("invalid amount")
	ErrPriceChanged      = errs.New("price changed")
	ErrProductNotFound   = errs.New("product not found")
	ErrRateLimited       = errs.New("rate limited")
	ErrUpstreamTransient = settlement.ErrUpstreamTransient
	ErrUpstreamTerminal  = settlement.ErrUpstreamTerminal
	ErrExpired           = errs.New("payment expired")
	ErrPaymentFailed     = errs.New("payment failed")
	ErrDuplicateHash     = errs.New("duplicate correlation hash")
	ErrSessionRequired   = errs.New("session id required")
	ErrPaymentNotFound   = errs.New("payment not found")
	ErrInvalidRequest    = errs.New("invalid request")
)

// RateLimitedError carries the time left on the QR cooldown.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("qr cooldown active, %ds remaining", e.RemainingSeconds())
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// RemainingSeconds rounds up so a client never retries one second early.
func (e *RateLimitedError) RemainingSeconds() int {
	return int(math.Ceil(e.Remaining.Seconds()))
}
