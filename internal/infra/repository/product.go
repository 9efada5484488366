package repository

import (
	"context"

	"diamond-topup/internal/domain/catalog"
	"diamond-topup/internal/infra"
	"diamond-topup/internal/infra/db"
	"diamond-topup/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findProductSQL = `
SELECT id, game_code, name, diamonds, price_cents, reseller_price_cents, is_active
FROM products
WHERE id = $1`

// ProductRepository is read-only; catalog maintenance happens elsewhere.
type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(db db.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) FindProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var (
		pid           pgtype.UUID
		product       catalog.Product
		resellerPrice pgtype.Int8
	)
	err := r.db.QueryRow(ctx, findProductSQL, pgconv.UUIDToPgtype(id)).Scan(
		&pid,
		&product.GameCode,
		&product.Name,
		&product.Diamonds,
		&product.PriceCents,
		&resellerPrice,
		&product.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}

	product.ID = pgconv.UUIDFromPgtype(pid)
	product.ResellerPriceCents = pgconv.Int64PtrFromPgtype(resellerPrice)
	return &product, nil
}
