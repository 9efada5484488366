//go:build unit

package bakong

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewTestConfig().Bakong
	cfg.BaseURL = srv.URL
	cfg.RetryDelay = time.Millisecond
	return NewClient(cfg, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustHash(t *testing.T) ordertoken.CorrelationHash {
	t.Helper()
	h, err := ordertoken.NewCorrelationHash("d41d8cd98f00b204e9800998ecf8427e")
	require.NoError(t, err)
	return h
}

func TestClient_CreateQR(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		var got generateRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/generate_khqr", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(generateResponse{Success: true, QRImage: "data:image/png;base64,AAA", MD5: "abc123"})
		})

		qr, err := client.CreateQR(context.Background(), settlement.QRRequest{
			Amount:     ordertoken.NewMoney(1050),
			BillNumber: "0123456789",
		})

		require.NoError(t, err)
		assert.Equal(t, "abc123", qr.Hash.String())
		assert.Equal(t, "data:image/png;base64,AAA", qr.Image)
		assert.Equal(t, 10.5, got.Amount)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, "shop@aclb", got.AccountID)
		assert.Equal(t, "0123456789", got.BillNumber)
	})

	t.Run("success=falseは終端エラー", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(generateResponse{Success: false, Message: "invalid account"})
		})

		_, err := client.CreateQR(context.Background(), settlement.QRRequest{Amount: ordertoken.NewMoney(100)})

		assert.True(t, errs.Is(err, settlement.ErrUpstreamTerminal))
	})
}

func TestClient_CheckSettlement(t *testing.T) {
	t.Run("responseCodeを三値に変換する", func(t *testing.T) {
		for code, want := range map[int]settlement.Status{
			0: settlement.StatusSettled,
			1: settlement.StatusPending,
			3: settlement.StatusFailed,
		} {
			code := code
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req checkRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", req.MD5)
				_ = json.NewEncoder(w).Encode(map[string]any{"responseCode": code, "responseMessage": "ok"})
			})

			result, err := client.CheckSettlement(context.Background(), mustHash(t))

			require.NoError(t, err)
			assert.Equal(t, want, result.Status)
			assert.Equal(t, code, result.ResponseCode)
		}
	})

	t.Run("5xxは3回まで再試行して一時エラー", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.CheckSettlement(context.Background(), mustHash(t))

		assert.True(t, errs.Is(err, settlement.ErrUpstreamTransient))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("5xxの後に成功すれば結果を返す", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"responseCode": 0})
		})

		result, err := client.CheckSettlement(context.Background(), mustHash(t))

		require.NoError(t, err)
		assert.Equal(t, settlement.StatusSettled, result.Status)
	})

	t.Run("再試行ごとに警告ログを残す", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"responseCode": 0})
		})
		var logs bytes.Buffer
		client.logger = slog.New(slog.NewJSONHandler(&logs, nil))

		_, err := client.CheckSettlement(context.Background(), mustHash(t))
		require.NoError(t, err)

		type record struct {
			Level   string `json:"level"`
			Msg     string `json:"msg"`
			Path    string `json:"path"`
			Attempt int    `json:"attempt"`
		}
		var records []record
		dec := json.NewDecoder(&logs)
		for dec.More() {
			var rec record
			require.NoError(t, dec.Decode(&rec))
			records = append(records, rec)
		}
		require.Len(t, records, 2)
		for i, rec := range records {
			assert.Equal(t, "WARN", rec.Level)
			assert.Equal(t, "決済スイッチへのリクエストに失敗しました。再試行します", rec.Msg)
			assert.Equal(t, "/v1/check_transaction_by_md5", rec.Path)
			assert.Equal(t, i+1, rec.Attempt)
		}
	})

	t.Run("4xxは再試行しない", func(t *testing.T) {
		var calls int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.CheckSettlement(context.Background(), mustHash(t))

		assert.True(t, errs.Is(err, settlement.ErrUpstreamTerminal))
		assert.False(t, errs.Is(err, settlement.ErrUpstreamTransient))
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("キャンセル済みコンテキストは一時エラー", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"responseCode": 0})
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.CheckSettlement(ctx, mustHash(t))

		assert.True(t, errs.Is(err, settlement.ErrUpstreamTransient))
	})
}
