//go:build unit

package repository

import (
	"context"
	"testing"

	"diamond-topup/internal/infra"
	"diamond-topup/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_FindProduct(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-6a55-4d43-9d8a-2a0f5e1f3b10")

	t.Run("reseller価格あり", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findProductSQL, []interface{}{pgconv.UUIDToPgtype(id)}).Return(fakeRow{scan: func(dest ...any) error {
			*dest[0].(*pgtype.UUID) = pgconv.UUIDToPgtype(id)
			*dest[1].(*string) = "mlbb"
			*dest[2].(*string) = "86 Diamonds"
			*dest[3].(*int) = 86
			*dest[4].(*int64) = 1000
			*dest[5].(*pgtype.Int8) = pgtype.Int8{Int64: 900, Valid: true}
			*dest[6].(*bool) = true
			return nil
		}})

		product, err := NewProductRepository(mockDB).FindProduct(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, product.ID)
		assert.Equal(t, int64(1000), product.PriceCents)
		require.NotNil(t, product.ResellerPriceCents)
		assert.Equal(t, int64(900), *product.ResellerPriceCents)
		assert.True(t, product.Active)
	})

	t.Run("存在しない商品", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findProductSQL, mock.Anything).Return(errRow(pgx.ErrNoRows))

		_, err := NewProductRepository(mockDB).FindProduct(context.Background(), id)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
