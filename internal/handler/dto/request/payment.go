package request

import (
	"strings"

	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"

	"github.com/google/uuid"
)

type IssueQRRequest struct {
	ProductID      uuid.UUID `json:"productId" binding:"required"`
	Quantity       int       `json:"quantity" binding:"omitempty,min=1,max=100"`
	Amount         float64   `json:"amount"`
	GameCode       string    `json:"gameCode" binding:"required,max=32"`
	PlayerID       string    `json:"playerId" binding:"required,max=64"`
	ZoneID         string    `json:"zoneId,omitempty" binding:"max=32"`
	Nickname       string    `json:"nickname,omitempty" binding:"max=64"`
	TelegramChatID string    `json:"telegramChatId,omitempty" binding:"max=32"`
}

// GetQuantity defaults to a single pack.
func (r IssueQRRequest) GetQuantity() int {
	if r.Quantity <= 0 {
		return 1
	}
	return r.Quantity
}

func (r IssueQRRequest) ProposedAmount() ordertoken.Money {
	return ordertoken.MoneyFromDecimal(r.Amount)
}

// BuyerChannel returns "" when the buyer did not ask for a confirmation.
func (r IssueQRRequest) BuyerChannel() string {
	chatID := strings.TrimSpace(r.TelegramChatID)
	if chatID == "" {
		return ""
	}
	return notification.SchemeTelegram + ":" + chatID
}
