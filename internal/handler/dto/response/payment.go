package response

import (
	"time"

	"diamond-topup/internal/usecase/commands"
	"diamond-topup/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type QRResponse struct {
	CorrelationHash string    `json:"correlationHash"`
	QRImage         string    `json:"qrImage"`
	OrderRef        string    `json:"orderRef"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	ExpiresAt       time.Time `json:"expiresAt"`
	CooldownSeconds int       `json:"cooldownSeconds"`
}

type PaymentStatusResponse struct {
	CorrelationHash string    `json:"correlationHash"`
	State           string    `json:"state"`
	OrderRef        string    `json:"orderRef"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Message         string    `json:"message"`
	Kind            string    `json:"kind,omitempty"`
}

type OrderResponse struct {
	OrderRef        string    `json:"orderRef"`
	CorrelationHash string    `json:"correlationHash"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	GameCode        string    `json:"gameCode"`
	PlayerID        string    `json:"playerId"`
	ZoneID          string    `json:"zoneId,omitempty"`
	Nickname        string    `json:"nickname,omitempty"`
	ProductID       uuid.UUID `json:"productId"`
	ProductName     string    `json:"productName"`
	Quantity        int       `json:"quantity"`
	UnitPriceCents  int64     `json:"unitPriceCents"`
	AmountCents     int64     `json:"amountCents"`
	Currency        string    `json:"currency"`
	PriceTier       string    `json:"priceTier"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type ReconcileResponse struct {
	Checked   int `json:"checked"`
	Fulfilled int `json:"fulfilled"`
	Pending   int `json:"pending"`
	Errors    int `json:"errors"`
}

func FromIssueQRResult(r *commands.IssueQRResult) *QRResponse {
	return &QRResponse{
		CorrelationHash: r.CorrelationHash,
		QRImage:         r.QRImage,
		OrderRef:        r.OrderRef,
		Amount:          r.Amount.Decimal(),
		Currency:        r.Currency,
		ExpiresAt:       r.ExpiresAt,
		CooldownSeconds: r.CooldownSeconds,
	}
}

func FromPaymentStatus(s *commands.PaymentStatus) *PaymentStatusResponse {
	return &PaymentStatusResponse{
		CorrelationHash: s.CorrelationHash,
		State:           string(s.State),
		OrderRef:        s.OrderRef,
		ExpiresAt:       s.ExpiresAt,
		Message:         s.Message,
		Kind:            string(s.Kind),
	}
}

// FromOrderView copies field by field; OrderView and OrderResponse share names.
func FromOrderView(v *queries.OrderView) (*OrderResponse, error) {
	var resp OrderResponse
	if err := copier.Copy(&resp, v); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromSweepResult(r *commands.SweepResult) *ReconcileResponse {
	return &ReconcileResponse{
		Checked:   r.Checked,
		Fulfilled: r.Fulfilled,
		Pending:   r.Pending,
		Errors:    r.Errors,
	}
}
