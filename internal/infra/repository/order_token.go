package repository

import (
	"context"
	"encoding/json"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/infra"
	"diamond-topup/internal/infra/db"
	"diamond-topup/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertOrderTokenSQL = `
INSERT INTO order_tokens (correlation_hash, order_ref, status, used, order_data, created_at, updated_at)
VALUES ($1, $2, 'pending', FALSE, $3, $4, $4)`

	// used=false が唯一の排他条件。2 つの遷移のうち先に成功した方だけが 1 行を返す
	fulfillOrderTokenSQL = `
UPDATE order_tokens
SET status = 'fulfilled', used = TRUE, updated_at = now()
WHERE correlation_hash = $1 AND used = FALSE AND status = 'pending'
RETURNING order_data`

	markUnsuccessfulSQL = `
UPDATE order_tokens
SET status = 'unsuccessful', used = TRUE, reason = $2, updated_at = now()
WHERE correlation_hash = $1 AND used = FALSE AND status = 'pending'`

	existsOrderTokenSQL = `SELECT EXISTS (SELECT 1 FROM order_tokens WHERE correlation_hash = $1)`

	selectOrderTokenColumns = `
SELECT correlation_hash, status, used, reason, order_data, created_at, updated_at
FROM order_tokens`

	findByHashSQL     = selectOrderTokenColumns + ` WHERE correlation_hash = $1`
	findByOrderRefSQL = selectOrderTokenColumns + ` WHERE order_ref = $1 ORDER BY created_at DESC`
	listPendingSQL    = selectOrderTokenColumns + `
WHERE status = 'pending' AND used = FALSE AND created_at <= $1 AND created_at > $2
ORDER BY created_at`
)

type OrderTokenRepository struct {
	db db.DBTX
}

func NewOrderTokenRepository(db db.DBTX) *OrderTokenRepository {
	return &OrderTokenRepository{db: db}
}

func (r *OrderTokenRepository) Reserve(ctx context.Context, token *ordertoken.Token) error {
	snapshot := token.Snapshot()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return infra.WrapRepoErr("failed to encode order snapshot", err)
	}

	_, err = r.db.Exec(ctx, insertOrderTokenSQL,
		token.Hash().String(),
		snapshot.OrderRef,
		data,
		pgconv.TimeToPgtype(token.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve order token", err)
	}
	return nil
}

func (r *OrderTokenRepository) TryFulfill(ctx context.Context, hash ordertoken.CorrelationHash) (ordertoken.FulfillResult, error) {
	var data []byte
	err := r.db.QueryRow(ctx, fulfillOrderTokenSQL, hash.String()).Scan(&data)
	if err == nil {
		var snapshot ordertoken.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			// 遷移自体は確定しているため、結果は NewlyFulfilled のまま返す
			return ordertoken.FulfillResult{Outcome: ordertoken.FulfillNewly}, infra.WrapRepoErr("failed to decode order snapshot", err)
		}
		return ordertoken.FulfillResult{Outcome: ordertoken.FulfillNewly, Snapshot: snapshot}, nil
	}
	if !pgconv.IsNoRows(err) {
		return ordertoken.FulfillResult{}, infra.WrapRepoErr("failed to fulfill order token", err)
	}

	exists, err := r.exists(ctx, hash)
	if err != nil {
		return ordertoken.FulfillResult{}, err
	}
	if !exists {
		return ordertoken.FulfillResult{Outcome: ordertoken.FulfillNotFound}, nil
	}
	return ordertoken.FulfillResult{Outcome: ordertoken.FulfillAlreadyDone}, nil
}

// MarkUnsuccessful reports false when the token was already terminal or does not exist.
func (r *OrderTokenRepository) MarkUnsuccessful(ctx context.Context, hash ordertoken.CorrelationHash, reason string) (bool, error) {
	tag, err := r.db.Exec(ctx, markUnsuccessfulSQL, hash.String(), reason)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order token unsuccessful", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderTokenRepository) FindByHash(ctx context.Context, hash ordertoken.CorrelationHash) (*ordertoken.Token, error) {
	token, err := scanOrderToken(r.db.QueryRow(ctx, findByHashSQL, hash.String()))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order token", err)
	}
	return token, nil
}

// FindByOrderRef returns every match; callers decide what an ambiguous result means.
func (r *OrderTokenRepository) FindByOrderRef(ctx context.Context, orderRef string) ([]*ordertoken.Token, error) {
	rows, err := r.db.Query(ctx, findByOrderRefSQL, orderRef)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order tokens by order ref", err)
	}
	return collectOrderTokens(rows)
}

// ListPendingOlderThan returns pending tokens created in (newerThan, olderThan].
func (r *OrderTokenRepository) ListPendingOlderThan(ctx context.Context, olderThan, newerThan time.Time) ([]*ordertoken.Token, error) {
	rows, err := r.db.Query(ctx, listPendingSQL, pgconv.TimeToPgtype(olderThan), pgconv.TimeToPgtype(newerThan))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pending order tokens", err)
	}
	return collectOrderTokens(rows)
}

func (r *OrderTokenRepository) exists(ctx context.Context, hash ordertoken.CorrelationHash) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, existsOrderTokenSQL, hash.String()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check order token existence", err)
	}
	return exists, nil
}

func collectOrderTokens(rows pgx.Rows) ([]*ordertoken.Token, error) {
	defer rows.Close()

	var tokens []*ordertoken.Token
	for rows.Next() {
		token, err := scanOrderToken(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order token", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order tokens", err)
	}
	return tokens, nil
}

func scanOrderToken(row pgx.Row) (*ordertoken.Token, error) {
	var (
		hash      string
		status    string
		used      bool
		reason    pgtype.Text
		data      []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&hash, &status, &used, &reason, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var snapshot ordertoken.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	h, err := ordertoken.NewCorrelationHash(hash)
	if err != nil {
		return nil, err
	}

	return ordertoken.ReconstructToken(
		h,
		ordertoken.Status(status),
		snapshot,
		pgconv.TimeFromPgtype(createdAt),
		used,
		pgconv.StringFromPgtype(reason),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}
