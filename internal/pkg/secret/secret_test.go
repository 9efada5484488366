//go:build unit

package secret_test

import (
	"testing"

	"diamond-topup/internal/pkg/secret"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret(t *testing.T) {
	hashed, err := secret.Hash("cron-secret")
	require.NoError(t, err)

	t.Run("一致するシークレットOK", func(t *testing.T) {
		assert.NoError(t, secret.Compare(hashed, "cron-secret"))
	})

	t.Run("不一致NG", func(t *testing.T) {
		assert.ErrorIs(t, secret.Compare(hashed, "wrong"), secret.ErrMismatch)
	})

	t.Run("空文字NG", func(t *testing.T) {
		_, err := secret.Hash("")
		assert.ErrorIs(t, err, secret.ErrInvalidSecret)
		assert.ErrorIs(t, secret.Compare(hashed, ""), secret.ErrInvalidSecret)
		assert.ErrorIs(t, secret.Compare("", "cron-secret"), secret.ErrInvalidSecret)
	})
}
