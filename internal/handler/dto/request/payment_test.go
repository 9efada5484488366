//go:build unit

package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueQRRequest(t *testing.T) {
	req := IssueQRRequest{Amount: 10.5, TelegramChatID: " 555 "}

	assert.Equal(t, 1, req.GetQuantity())
	assert.Equal(t, int64(1050), req.ProposedAmount().Cents())
	assert.Equal(t, "telegram:555", req.BuyerChannel())

	req.Quantity = 3
	req.TelegramChatID = ""
	assert.Equal(t, 3, req.GetQuantity())
	assert.Equal(t, "", req.BuyerChannel())
}
