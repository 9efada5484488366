package settlement

import (
	"errors"

	"diamond-topup/internal/domain/ordertoken"
)

var (
	// 5xx / 通信エラー。リトライ後も失敗した場合に返る
	ErrUpstreamTransient = errors.New("payment switch temporarily unavailable")
	// 4xx。リトライしない
	ErrUpstreamTerminal = errors.New("payment switch rejected the request")
)

// Status is the tri-state reading of a settlement check response code.
type Status int

const (
	StatusPending Status = iota
	StatusSettled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSettled:
		return "settled"
	case StatusPending:
		return "pending"
	default:
		return "failed"
	}
}

// FromResponseCode: 0 = settled, 1 = still pending, anything else = failure.
func FromResponseCode(code int) Status {
	switch code {
	case 0:
		return StatusSettled
	case 1:
		return StatusPending
	default:
		return StatusFailed
	}
}

type CheckResult struct {
	Status       Status
	ResponseCode int
	Message      string
}

type QRRequest struct {
	Amount     ordertoken.Money
	Currency   string
	BillNumber string
}

type QR struct {
	Image string
	Hash  ordertoken.CorrelationHash
}
