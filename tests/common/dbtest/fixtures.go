//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// fixed ids so e2e requests can reference the seeded catalog
var (
	SeedProductID         = uuid.MustParse("6f1c2a8e-6a55-4d43-9d8a-2a0f5e1f3b10")
	SeedResellerProductID = uuid.MustParse("0b7d9a51-3c2e-4f8a-9a61-7e5d2c4b8f20")
	SeedInactiveProductID = uuid.MustParse("9e4f6c1d-8b2a-4d7e-a3f5-1c6b8d2e4a30")
)

type ProductFixture struct {
	ID                 uuid.UUID
	GameCode           string
	Name               string
	Diamonds           int
	PriceCents         int64
	ResellerPriceCents *int64
	Active             bool
}

func CreateTestProduct(t *testing.T, db DBLike, p ProductFixture) uuid.UUID {
	t.Helper()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := db.Exec(context.Background(), `
		INSERT INTO products (id, game_code, name, diamonds, price_cents, reseller_price_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.GameCode, p.Name, p.Diamonds, p.PriceCents, p.ResellerPriceCents, p.Active)
	require.NoError(t, err)

	return p.ID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, game_code, name, diamonds, price_cents, reseller_price_cents, is_active) VALUES
		    ($1, 'mlbb', '86 Diamonds', 86, 1000, NULL, true),
		    ($2, 'mlbb', '172 Diamonds', 172, 2000, 1800, true),
		    ($3, 'mlbb', 'Weekly Pass', 0, 150, NULL, false)
		ON CONFLICT (id) DO NOTHING;
	`, SeedProductID, SeedResellerProductID, SeedInactiveProductID)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
