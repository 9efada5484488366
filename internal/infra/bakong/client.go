package bakong

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

type generateRequest struct {
	AccountID          string  `json:"accountId"`
	AccountName        string  `json:"accountName"`
	AccountInformation string  `json:"accountInformation,omitempty"`
	Currency           string  `json:"currency"`
	Amount             float64 `json:"amount"`
	Address            string  `json:"address"`
	BillNumber         string  `json:"billNumber,omitempty"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	QRImage string `json:"qrImage"`
	MD5     string `json:"md5"`
	Message string `json:"message,omitempty"`
}

type checkRequest struct {
	MD5 string `json:"md5"`
}

type checkResponse struct {
	ResponseCode    *int   `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
}

// Client talks to the Bakong payment switch. Every call goes through the
// rate limiter and the retry wrapper.
type Client struct {
	cfg        config.BakongConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(cfg config.BakongConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

func (c *Client) CreateQR(ctx context.Context, req settlement.QRRequest) (*settlement.QR, error) {
	currency := req.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	body := generateRequest{
		AccountID:          c.cfg.AccountID,
		AccountName:        c.cfg.AccountName,
		AccountInformation: c.cfg.AccountInformation,
		Currency:           currency,
		Amount:             req.Amount.Decimal(),
		Address:            c.cfg.Address,
		BillNumber:         req.BillNumber,
	}

	var resp generateResponse
	if err := c.call(ctx, c.cfg.GeneratePath, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.QRImage == "" {
		return nil, errs.Mark(errs.Newf("qr generation refused: %s", resp.Message), settlement.ErrUpstreamTerminal)
	}

	hash, err := ordertoken.NewCorrelationHash(resp.MD5)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "qr generation returned no correlation hash"), settlement.ErrUpstreamTerminal)
	}
	return &settlement.QR{Image: resp.QRImage, Hash: hash}, nil
}

func (c *Client) CheckSettlement(ctx context.Context, hash ordertoken.CorrelationHash) (settlement.CheckResult, error) {
	var resp checkResponse
	if err := c.call(ctx, c.cfg.CheckPath, checkRequest{MD5: hash.String()}, &resp); err != nil {
		return settlement.CheckResult{}, err
	}
	if resp.ResponseCode == nil {
		return settlement.CheckResult{}, errs.Mark(errs.New("settlement check response has no responseCode"), settlement.ErrUpstreamTransient)
	}

	return settlement.CheckResult{
		Status:       settlement.FromResponseCode(*resp.ResponseCode),
		ResponseCode: *resp.ResponseCode,
		Message:      resp.ResponseMessage,
	}, nil
}

// call retries 5xx and transport errors with a constant delay; 4xx is permanent.
func (c *Client) call(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errs.Wrap(err, "failed to encode bakong request")
	}

	attempts := c.cfg.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryDelay), attempts-1),
		ctx,
	)

	attempt := 0
	op := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.do(ctx, path, payload, out)
	}
	notify := func(err error, next time.Duration) {
		c.logger.Warn("決済スイッチへのリクエストに失敗しました。再試行します",
			slog.String("path", path),
			slog.Int("attempt", attempt),
			slog.Duration("next", next),
			slog.String("error", err.Error()))
	}

	err = backoff.RetryNotify(op, policy, notify)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return errs.Mark(errs.Wrap(err, "bakong request canceled"), settlement.ErrUpstreamTransient)
	}
	if errs.Is(err, settlement.ErrUpstreamTerminal) {
		return err
	}
	return errs.Mark(errs.Wrapf(err, "bakong request failed after %d attempts", attempt), settlement.ErrUpstreamTransient)
}

func (c *Client) do(ctx context.Context, path string, payload []byte, out any) error {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(errs.Wrap(err, "failed to build bakong request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Wrap(err, "bakong request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read bakong response")
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("bakong returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return backoff.Permanent(errs.Mark(
			errs.Newf("bakong returned %d: %s", resp.StatusCode, truncate(body, 200)),
			settlement.ErrUpstreamTerminal,
		))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errs.Wrap(err, "failed to decode bakong response")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}
