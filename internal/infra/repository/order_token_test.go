//go:build unit

package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/infra"
	"diamond-topup/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testHash(t *testing.T) ordertoken.CorrelationHash {
	t.Helper()
	h, err := ordertoken.NewCorrelationHash("d41d8cd98f00b204e9800998ecf8427e")
	require.NoError(t, err)
	return h
}

func TestOrderTokenRepository_Reserve(t *testing.T) {
	token, err := builder.NewOrderTokenBuilder().BuildDomain()
	require.NoError(t, err)

	tests := []struct {
		name     string
		execErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "基本成功ケース"},
		{name: "ハッシュ重複", execErr: &pgconn.PgError{Code: "23505"}, wantKind: infra.KindDuplicateKey},
		{name: "DBエラー", execErr: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, insertOrderTokenSQL, mock.MatchedBy(func(args []interface{}) bool {
				if len(args) != 4 || args[0] != token.Hash().String() || args[1] != "0123456789" {
					return false
				}
				var snapshot ordertoken.Snapshot
				if err := json.Unmarshal(args[2].([]byte), &snapshot); err != nil {
					return false
				}
				return cmp.Equal(snapshot, token.Snapshot())
			})).Return(pgconn.NewCommandTag("INSERT 0 1"), tt.execErr)

			err := NewOrderTokenRepository(mockDB).Reserve(context.Background(), token)

			if tt.wantKind != "" {
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
			}
			mockDB.AssertExpectations(t)
		})
	}
}

func TestOrderTokenRepository_TryFulfill(t *testing.T) {
	snapshot := builder.NewOrderTokenBuilder().BuildSnapshot()
	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	updatedRow := fakeRow{scan: func(dest ...any) error {
		*dest[0].(*[]byte) = data
		return nil
	}}
	existsRow := func(exists bool) fakeRow {
		return fakeRow{scan: func(dest ...any) error {
			*dest[0].(*bool) = exists
			return nil
		}}
	}

	tests := []struct {
		name        string
		updateRow   pgx.Row
		existsRow   pgx.Row
		wantOutcome ordertoken.FulfillOutcome
		wantErr     bool
	}{
		{
			name:        "初回遷移でスナップショットを返す",
			updateRow:   updatedRow,
			wantOutcome: ordertoken.FulfillNewly,
		},
		{
			name:        "既に終端状態",
			updateRow:   errRow(pgx.ErrNoRows),
			existsRow:   existsRow(true),
			wantOutcome: ordertoken.FulfillAlreadyDone,
		},
		{
			name:        "存在しないハッシュ",
			updateRow:   errRow(pgx.ErrNoRows),
			existsRow:   existsRow(false),
			wantOutcome: ordertoken.FulfillNotFound,
		},
		{
			name:      "DBエラー",
			updateRow: errRow(assert.AnError),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := testHash(t)
			mockDB := new(MockDBTX)
			mockDB.On("QueryRow", mock.Anything, fulfillOrderTokenSQL, []interface{}{hash.String()}).Return(tt.updateRow)
			if tt.existsRow != nil {
				mockDB.On("QueryRow", mock.Anything, existsOrderTokenSQL, []interface{}{hash.String()}).Return(tt.existsRow)
			}

			result, err := NewOrderTokenRepository(mockDB).TryFulfill(context.Background(), hash)

			if tt.wantErr {
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			if tt.wantOutcome == ordertoken.FulfillNewly {
				assert.Empty(t, cmp.Diff(snapshot, result.Snapshot))
			}
			mockDB.AssertExpectations(t)
		})
	}
}

func TestOrderTokenRepository_MarkUnsuccessful(t *testing.T) {
	tests := []struct {
		name        string
		tag         pgconn.CommandTag
		execErr     error
		wantApplied bool
		wantErr     bool
	}{
		{name: "pendingから遷移", tag: pgconn.NewCommandTag("UPDATE 1"), wantApplied: true},
		{name: "既に終端状態なら何もしない", tag: pgconn.NewCommandTag("UPDATE 0"), wantApplied: false},
		{name: "DBエラー", tag: pgconn.CommandTag{}, execErr: assert.AnError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash := testHash(t)
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, markUnsuccessfulSQL, []interface{}{hash.String(), ordertoken.ReasonExpired}).
				Return(tt.tag, tt.execErr)

			applied, err := NewOrderTokenRepository(mockDB).MarkUnsuccessful(context.Background(), hash, ordertoken.ReasonExpired)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantApplied, applied)
			mockDB.AssertExpectations(t)
		})
	}
}

func TestOrderTokenRepository_FindByHash(t *testing.T) {
	b := builder.NewOrderTokenBuilder()
	data, err := json.Marshal(b.BuildSnapshot())
	require.NoError(t, err)

	t.Run("基本成功ケース", func(t *testing.T) {
		hash := testHash(t)
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findByHashSQL, []interface{}{hash.String()}).Return(fakeRow{scan: func(dest ...any) error {
			*dest[0].(*string) = hash.String()
			*dest[1].(*string) = "unsuccessful"
			*dest[2].(*bool) = true
			*dest[3].(*pgtype.Text) = pgtype.Text{String: ordertoken.ReasonExpired, Valid: true}
			*dest[4].(*[]byte) = data
			*dest[5].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: b.CreatedAt, Valid: true}
			*dest[6].(*pgtype.Timestamptz) = pgtype.Timestamptz{Time: b.CreatedAt.Add(5 * time.Minute), Valid: true}
			return nil
		}})

		token, err := NewOrderTokenRepository(mockDB).FindByHash(context.Background(), hash)

		require.NoError(t, err)
		assert.Equal(t, ordertoken.StatusUnsuccessful, token.Status())
		assert.True(t, token.Used())
		assert.Equal(t, ordertoken.ReasonExpired, token.Reason())
		assert.Equal(t, "0123456789", token.Snapshot().OrderRef)
		assert.Len(t, token.Snapshot().Messages, 2)
	})

	t.Run("存在しない場合はNOT_FOUND", func(t *testing.T) {
		hash := testHash(t)
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findByHashSQL, []interface{}{hash.String()}).Return(errRow(pgx.ErrNoRows))

		_, err := NewOrderTokenRepository(mockDB).FindByHash(context.Background(), hash)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
