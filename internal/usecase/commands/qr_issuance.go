package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"diamond-topup/internal/domain/catalog"
	"diamond-topup/internal/domain/notification"
	"diamond-topup/internal/domain/ordertoken"
	"diamond-topup/internal/domain/settlement"
	reqdto "diamond-topup/internal/handler/dto/request"
	"diamond-topup/internal/infra"
	"diamond-topup/internal/pkg/clock"
	"diamond-topup/internal/pkg/config"
	"diamond-topup/internal/pkg/errs"
)

// Buyer identifies who is asking for a QR. SessionID is the UI session the
// cooldown is keyed on.
type Buyer struct {
	SessionID  string
	ResellerID string
}

func (b Buyer) Tier() ordertoken.PriceTier {
	if b.ResellerID != "" {
		return ordertoken.TierReseller
	}
	return ordertoken.TierRetail
}

type IssueQRResult struct {
	CorrelationHash string
	QRImage         string
	OrderRef        string
	Amount          ordertoken.Money
	Currency        string
	ExpiresAt       time.Time
	CooldownSeconds int
}

type QRIssuance interface {
	Issue(ctx context.Context, req reqdto.IssueQRRequest, buyer Buyer) (*IssueQRResult, error)
}

type qrIssuanceImpl struct {
	store     TokenStore
	gateway   PaymentGateway
	catalog   CatalogReader
	cooldowns CooldownStore
	polls     PollRegistrar
	prices    catalog.PriceCalculator
	clock     clock.Clock
	logger    *slog.Logger

	minAmountCents  int64
	cooldown        time.Duration
	expiry          time.Duration
	currency        string
	orderLogChannel string
}

func NewQRIssuance(
	store TokenStore,
	gateway PaymentGateway,
	catalogReader CatalogReader,
	cooldowns CooldownStore,
	polls PollRegistrar,
	prices catalog.PriceCalculator,
	clock clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) QRIssuance {
	return &qrIssuanceImpl{
		store:           store,
		gateway:         gateway,
		catalog:         catalogReader,
		cooldowns:       cooldowns,
		polls:           polls,
		prices:          prices,
		clock:           clock,
		logger:          logger,
		minAmountCents:  cfg.Payment.MinAmountCents,
		cooldown:        cfg.Payment.QRCooldown,
		expiry:          cfg.Payment.QRExpiry,
		currency:        cfg.Bakong.Currency,
		orderLogChannel: cfg.Payment.OrderLogChannel,
	}
}

func (u *qrIssuanceImpl) Issue(ctx context.Context, req reqdto.IssueQRRequest, buyer Buyer) (*IssueQRResult, error) {
	if strings.TrimSpace(buyer.SessionID) == "" {
		return nil, ErrSessionRequired
	}

	// 1. 金額の下限チェック（ネットワーク呼び出し前）
	proposed := req.ProposedAmount()
	if err := proposed.ValidateMinimum(u.minAmountCents); err != nil {
		return nil, errs.Mark(err, ErrInvalidAmount)
	}

	// 2. クールダウン枠を確保する。同一セッションの同時発行はここで一件に絞られる
	now := u.clock.Now()
	if err := u.claimCooldown(ctx, buyer.SessionID, now); err != nil {
		return nil, err
	}
	reserved := false
	defer func() {
		if !reserved {
			u.releaseCooldown(ctx, buyer.SessionID, now)
		}
	}()

	// 3. カタログ価格で再計算し、提示額と突き合わせる
	product, quote, err := u.verifyPrice(ctx, req, buyer, proposed)
	if err != nil {
		return nil, err
	}

	// 4. 決済スイッチで QR を生成
	orderRef, err := ordertoken.NewOrderRef()
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate order ref")
	}
	qr, err := u.gateway.CreateQR(ctx, settlement.QRRequest{
		Amount:     quote.Total,
		Currency:   u.currency,
		BillNumber: orderRef,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to create qr")
	}

	// 5. QR 表示前にスナップショットを確定して予約する
	snapshot := u.buildSnapshot(req, buyer, product, quote, orderRef)
	token, err := ordertoken.NewToken(qr.Hash, snapshot, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}
	if err := u.store.Reserve(ctx, token); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrDuplicateHash)
		}
		return nil, errs.Wrap(err, "failed to reserve order token")
	}
	reserved = true

	u.polls.Register(token)

	u.logger.Info("QRを発行しました",
		slog.String("correlation_hash", qr.Hash.String()),
		slog.String("order_ref", orderRef),
		slog.String("amount", quote.Total.String()),
		slog.String("tier", string(quote.Tier)))

	return &IssueQRResult{
		CorrelationHash: qr.Hash.String(),
		QRImage:         qr.Image,
		OrderRef:        orderRef,
		Amount:          quote.Total,
		Currency:        u.currency,
		ExpiresAt:       token.ExpiresAt(u.expiry),
		CooldownSeconds: int(u.cooldown.Seconds()),
	}, nil
}

func (u *qrIssuanceImpl) claimCooldown(ctx context.Context, sessionID string, now time.Time) error {
	last, claimed, err := u.cooldowns.Claim(ctx, sessionID, now, u.cooldown)
	if err != nil {
		return errs.Wrap(err, "failed to claim qr cooldown")
	}
	if claimed {
		return nil
	}
	remaining := last.Add(u.cooldown).Sub(now)
	if remaining < time.Second {
		// ストア側の TTL がまだ残っている
		remaining = time.Second
	}
	return &RateLimitedError{Remaining: remaining}
}

// releaseCooldown gives the window back when issuance did not reserve a token.
func (u *qrIssuanceImpl) releaseCooldown(ctx context.Context, sessionID string, at time.Time) {
	if err := u.cooldowns.Release(context.WithoutCancel(ctx), sessionID, at); err != nil {
		u.logger.Warn("クールダウンの解放に失敗しました",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()))
	}
}

func (u *qrIssuanceImpl) verifyPrice(
	ctx context.Context,
	req reqdto.IssueQRRequest,
	buyer Buyer,
	proposed ordertoken.Money,
) (*catalog.Product, catalog.Quote, error) {
	product, err := u.catalog.FindProduct(ctx, req.ProductID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, catalog.Quote{}, errs.Mark(err, ErrProductNotFound)
		}
		return nil, catalog.Quote{}, errs.Wrap(err, "failed to read product")
	}
	if !strings.EqualFold(product.GameCode, req.GameCode) {
		return nil, catalog.Quote{}, errs.Mark(errs.Newf("product %s does not belong to game %s", product.ID, req.GameCode), ErrInvalidRequest)
	}

	quote, err := catalog.VerifyCharge(u.prices, *product, buyer.Tier(), req.GetQuantity(), proposed)
	switch {
	case err == nil:
		return product, quote, nil
	case errs.Is(err, catalog.ErrPriceChanged):
		u.logger.Info("提示額とカタログ価格が一致しません",
			slog.String("product_id", product.ID.String()),
			slog.String("proposed", proposed.String()))
		return nil, catalog.Quote{}, errs.Mark(err, ErrPriceChanged)
	case errs.Is(err, catalog.ErrProductInactive):
		return nil, catalog.Quote{}, errs.Mark(err, ErrProductNotFound)
	default:
		return nil, catalog.Quote{}, errs.Mark(err, ErrInvalidRequest)
	}
}

func (u *qrIssuanceImpl) buildSnapshot(
	req reqdto.IssueQRRequest,
	buyer Buyer,
	product *catalog.Product,
	quote catalog.Quote,
	orderRef string,
) ordertoken.Snapshot {
	snapshot := ordertoken.Snapshot{
		OrderRef:       orderRef,
		SessionID:      buyer.SessionID,
		GameCode:       product.GameCode,
		PlayerID:       strings.TrimSpace(req.PlayerID),
		ZoneID:         strings.TrimSpace(req.ZoneID),
		Nickname:       strings.TrimSpace(req.Nickname),
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       req.GetQuantity(),
		UnitPriceCents: quote.UnitPrice.Cents(),
		AmountCents:    quote.Total.Cents(),
		Currency:       u.currency,
		PriceTier:      quote.Tier,
		ResellerID:     buyer.ResellerID,
	}
	snapshot.Messages = composeMessages(snapshot, u.orderLogChannel, req.BuyerChannel())
	return snapshot
}

// composeMessages renders the confirmation texts at issuance time so that
// fulfillment only replays what was frozen into the snapshot.
func composeMessages(s ordertoken.Snapshot, orderLogChannel, buyerChannel string) []notification.Message {
	var msgs []notification.Message

	if orderLogChannel != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "New order #S%s\n", s.OrderRef)
		fmt.Fprintf(&b, "Game: %s\n", s.GameCode)
		if s.ZoneID != "" {
			fmt.Fprintf(&b, "Player: %s (%s)\n", s.PlayerID, s.ZoneID)
		} else {
			fmt.Fprintf(&b, "Player: %s\n", s.PlayerID)
		}
		if s.Nickname != "" {
			fmt.Fprintf(&b, "Nickname: %s\n", s.Nickname)
		}
		fmt.Fprintf(&b, "Item: %s x%d\n", s.ProductName, s.Quantity)
		fmt.Fprintf(&b, "Amount: %s %s\n", s.Amount().String(), s.Currency)
		fmt.Fprintf(&b, "Tier: %s", s.PriceTier)
		if s.ResellerID != "" {
			fmt.Fprintf(&b, " (%s)", s.ResellerID)
		}
		msgs = append(msgs, notification.Message{ChannelID: orderLogChannel, Text: b.String()})
	}

	if _, err := notification.ParseAddress(buyerChannel); err == nil {
		msgs = append(msgs, notification.Message{
			ChannelID: buyerChannel,
			Text: fmt.Sprintf("Payment received. Order #S%s (%s x%d) is being delivered to player %s.",
				s.OrderRef, s.ProductName, s.Quantity, s.PlayerID),
		})
	}

	return msgs
}
