//go:build e2e

package payment_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"diamond-topup/internal/handler/dto/response"
	"diamond-topup/internal/handler/middleware"
	"diamond-topup/tests/common/authtest"
	"diamond-topup/tests/common/builder"
	"diamond-topup/tests/common/dbtest"
	"diamond-topup/tests/common/httptest"
	"diamond-topup/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	issueURL     = "/api/payments/qr"
	paymentURL   = "/api/payments/%s"
	displayURL   = "/api/payments/%s/display"
	verifyURL    = "/api/payments/%s/verify"
	orderURL     = "/api/orders/%s"
	reconcileURL = "/internal/reconcile"
)

type PaymentSuite struct {
	e2e.SharedSuite
}

func (s *PaymentSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPaymentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentSuite))
}

// cooldown keys live in Redis and survive ResetDB, so every subtest uses a fresh session
func newSession() map[string]string {
	return map[string]string{middleware.SessionHeader: "e2e-" + uuid.NewString()}
}

func (s *PaymentSuite) issue(t *testing.T, headers map[string]string, token string, mutate func(*builder.OrderTokenBuilder)) response.QRResponse {
	t.Helper()

	b := builder.NewOrderTokenBuilder().With(func(b *builder.OrderTokenBuilder) { b.ProductID = dbtest.SeedProductID })
	if mutate != nil {
		b = b.With(mutate)
	}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, issueURL, b.BuildIssueRequestDTO(), token, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var qr response.QRResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &qr))
	return qr
}

func (s *PaymentSuite) status(t *testing.T, hash string) response.PaymentStatusResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(paymentURL, hash), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var st response.PaymentStatusResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &st))
	return st
}

func (s *PaymentSuite) tokenState(t *testing.T, hash string) (status string, used bool) {
	t.Helper()
	err := s.DB.QueryRow(context.Background(),
		"SELECT status, used FROM order_tokens WHERE correlation_hash = $1", hash).Scan(&status, &used)
	require.NoError(t, err)
	return status, used
}

// =============================================================================
// TestSettlementFlow - QR発行から入金確認・通知までの一連の流れ
// =============================================================================

func (s *PaymentSuite) TestSettlementFlow() {
	s.Run("正常系: 表示後に入金されると確定し、注文ログへ通知される", func() {
		t := s.T()

		qr := s.issue(t, newSession(), "", nil)
		require.NotEmpty(t, qr.CorrelationHash)
		require.InDelta(t, 10.0, qr.Amount, 0.0001)

		status, used := s.tokenState(t, qr.CorrelationHash)
		require.Equal(t, "pending", status)
		require.False(t, used)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(displayURL, qr.CorrelationHash), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		s.Bakong.Settle(qr.CorrelationHash)

		require.Eventually(t, func() bool {
			return s.status(t, qr.CorrelationHash).State == "confirmed"
		}, 5*time.Second, 20*time.Millisecond)

		status, used = s.tokenState(t, qr.CorrelationHash)
		require.Equal(t, "fulfilled", status)
		require.True(t, used)

		require.Eventually(t, func() bool {
			for _, m := range s.Telegram.Sent() {
				if m.ChatID == e2e.OrderLogChatID && strings.Contains(m.Text, qr.OrderRef) {
					return true
				}
			}
			return false
		}, 5*time.Second, 20*time.Millisecond)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(orderURL, "S"+qr.OrderRef), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var order response.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))
		require.Equal(t, "fulfilled", order.Status)
		require.Equal(t, qr.CorrelationHash, order.CorrelationHash)
		require.Equal(t, int64(1000), order.AmountCents)
	})

	s.Run("異常系: 決済失敗コードで unsuccessful になり retry を促す", func() {
		t := s.T()

		qr := s.issue(t, newSession(), "", nil)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(displayURL, qr.CorrelationHash), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		s.Bakong.Fail(qr.CorrelationHash)

		require.Eventually(t, func() bool {
			return s.status(t, qr.CorrelationHash).State == "failed"
		}, 5*time.Second, 20*time.Millisecond)
		require.Equal(t, "retry", s.status(t, qr.CorrelationHash).Kind)

		status, used := s.tokenState(t, qr.CorrelationHash)
		require.Equal(t, "unsuccessful", status)
		require.True(t, used)
		require.Empty(t, s.Telegram.Sent())
	})

	s.Run("verify: ポーリングなしでも単発確認で確定する", func() {
		t := s.T()

		qr := s.issue(t, newSession(), "", nil)
		s.Bakong.Settle(qr.CorrelationHash)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(verifyURL, qr.CorrelationHash), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var st response.PaymentStatusResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &st))
		require.Equal(t, "confirmed", st.State)

		status, _ := s.tokenState(t, qr.CorrelationHash)
		require.Equal(t, "fulfilled", status)
	})

	s.Run("cancel: 閉じてもトークンは pending のまま", func() {
		t := s.T()

		qr := s.issue(t, newSession(), "", nil)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(displayURL, qr.CorrelationHash), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, fmt.Sprintf(paymentURL, qr.CorrelationHash), nil, "")
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		require.Equal(t, "canceled", s.status(t, qr.CorrelationHash).State)

		status, used := s.tokenState(t, qr.CorrelationHash)
		require.Equal(t, "pending", status)
		require.False(t, used)
	})
}

// =============================================================================
// TestIssueQR - 発行時の価格・クールダウン検証
// =============================================================================

func (s *PaymentSuite) TestIssueQR() {
	s.Run("価格変更: 409 で予約もQR生成も行わない", func() {
		t := s.T()

		req := builder.NewOrderTokenBuilder().
			With(func(b *builder.OrderTokenBuilder) { b.ProductID = dbtest.SeedProductID; b.UnitCents = 1200 }).
			BuildIssueRequestDTO()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, issueURL, req, "", newSession())
		httptest.AssertErrorKind(t, w, http.StatusConflict, "price has changed", "retry")

		var count int
		require.NoError(t, s.DB.QueryRow(context.Background(), "SELECT COUNT(*) FROM order_tokens").Scan(&count))
		require.Zero(t, count)
	})

	s.Run("クールダウン: 同一セッションの再発行は 429、別セッションは通る", func() {
		t := s.T()

		session := newSession()
		s.issue(t, session, "", nil)

		req := builder.NewOrderTokenBuilder().
			With(func(b *builder.OrderTokenBuilder) { b.ProductID = dbtest.SeedProductID }).
			BuildIssueRequestDTO()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, issueURL, req, "", session)
		httptest.AssertErrorKind(t, w, http.StatusTooManyRequests, "", "wait")
		require.NotEmpty(t, w.Header().Get("Retry-After"))

		s.issue(t, newSession(), "", nil)
	})

	s.Run("reseller: 再販価格で発行でき、小売客には同額を拒否する", func() {
		t := s.T()

		resellerPrice := func(b *builder.OrderTokenBuilder) {
			b.ProductID = dbtest.SeedResellerProductID
			b.UnitCents = 1800
		}
		token := authtest.NewJWTHelper(s.Config.JWT).ResellerToken(t, "reseller-42")
		qr := s.issue(t, newSession(), token, resellerPrice)
		require.InDelta(t, 18.0, qr.Amount, 0.0001)

		var tier string
		require.NoError(t, s.DB.QueryRow(context.Background(),
			"SELECT order_data->>'priceTier' FROM order_tokens WHERE correlation_hash = $1", qr.CorrelationHash).Scan(&tier))
		require.Equal(t, "reseller", tier)

		req := builder.NewOrderTokenBuilder().With(resellerPrice).BuildIssueRequestDTO()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, issueURL, req, "", newSession())
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")
	})

	s.Run("販売停止中の商品は 404", func() {
		t := s.T()

		req := builder.NewOrderTokenBuilder().
			With(func(b *builder.OrderTokenBuilder) { b.ProductID = dbtest.SeedInactiveProductID; b.UnitCents = 150 }).
			BuildIssueRequestDTO()
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, issueURL, req, "", newSession())
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Product not found")
	})

	s.Run("セッションヘッダーなしは 400", func() {
		t := s.T()

		req := builder.NewOrderTokenBuilder().
			With(func(b *builder.OrderTokenBuilder) { b.ProductID = dbtest.SeedProductID }).
			BuildIssueRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, issueURL, req, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "X-Session-ID")
	})
}

// =============================================================================
// TestReconcile - 照合トリガー
// =============================================================================

func (s *PaymentSuite) TestReconcile() {
	s.Run("誰もポーリングしていない入金を照合で確定する", func() {
		t := s.T()

		settled := s.issue(t, newSession(), "", nil)
		pending := s.issue(t, newSession(), "", nil)
		s.Bakong.Settle(settled.CorrelationHash)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reconcileURL, nil, "",
			map[string]string{middleware.ReconcileHeader: e2e.ReconcileSecret})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.ReconcileResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, response.ReconcileResponse{Checked: 2, Fulfilled: 1, Pending: 1}, result)

		status, _ := s.tokenState(t, settled.CorrelationHash)
		require.Equal(t, "fulfilled", status)
		status, _ = s.tokenState(t, pending.CorrelationHash)
		require.Equal(t, "pending", status)

		// 確定済みは再照合しても二重に通知しない
		w = httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, reconcileURL, nil, "",
			map[string]string{middleware.ReconcileHeader: e2e.ReconcileSecret})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, 0, result.Fulfilled)
	})

	s.Run("シークレットなしは 403", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reconcileURL, nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Forbidden")
	})
}

func (s *PaymentSuite) TestOrderLookup() {
	s.Run("存在しない注文番号は 404 contact_support", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(orderURL, "S9999999999"), nil, "")
		httptest.AssertErrorKind(t, w, http.StatusNotFound, "", "contact_support")
	})
}
