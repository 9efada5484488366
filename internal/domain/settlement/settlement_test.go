//go:build unit

package settlement_test

import (
	"testing"

	"diamond-topup/internal/domain/settlement"

	"github.com/stretchr/testify/assert"
)

func TestFromResponseCode(t *testing.T) {
	assert.Equal(t, settlement.StatusSettled, settlement.FromResponseCode(0))
	assert.Equal(t, settlement.StatusPending, settlement.FromResponseCode(1))
	assert.Equal(t, settlement.StatusFailed, settlement.FromResponseCode(2))
	assert.Equal(t, settlement.StatusFailed, settlement.FromResponseCode(-1))
	assert.Equal(t, "settled", settlement.StatusSettled.String())
}
