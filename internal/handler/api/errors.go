package api

import (
	"net/http"
	"strconv"

	"diamond-topup/internal/handler/httperr"
	"diamond-topup/internal/pkg/errs"
	"diamond-topup/internal/usecase/commands"
	"diamond-topup/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
	kind    string
}

// checked in order; the first match wins
var paymentErrorMappings = []errorMapping{
	{commands.ErrSessionRequired, http.StatusBadRequest, "Missing X-Session-ID header", ""},
	{commands.ErrInvalidAmount, http.StatusBadRequest, "Amount is below the minimum charge", ""},
	{commands.ErrInvalidRequest, http.StatusBadRequest, "Invalid request", ""},
	{commands.ErrProductNotFound, http.StatusNotFound, "Product not found", ""},
	{commands.ErrPriceChanged, http.StatusConflict, "The price has changed. Please review your order and try again.", httperr.KindRetry},
	{commands.ErrDuplicateHash, http.StatusConflict, "This payment code was already issued. Please request a new one.", httperr.KindRetry},
	{commands.ErrUpstreamTerminal, http.StatusBadGateway, "The payment provider rejected the request. Please contact support.", httperr.KindContactSupport},
	{commands.ErrUpstreamTransient, http.StatusServiceUnavailable, "The payment provider is temporarily unavailable. Please try again.", httperr.KindRetry},
	{commands.ErrExpired, http.StatusGone, "This QR code has expired. Please request a new one.", httperr.KindExpired},
	{commands.ErrPaymentNotFound, http.StatusNotFound, "Payment not found", httperr.KindContactSupport},
	{queries.ErrInvalidOrderRef, http.StatusBadRequest, "Invalid order number", ""},
	{queries.ErrOrderNotFound, http.StatusNotFound, "Order not found. Please check the number or contact support.", httperr.KindContactSupport},
	{queries.ErrMultipleOrders, http.StatusConflict, "More than one order matches this number. Please contact support.", httperr.KindContactSupport},
	{queries.ErrAmbiguousLookup, http.StatusNotFound, "Order not found. Please check the number or contact support.", httperr.KindContactSupport},
}

func abortWithUsecaseError(c *gin.Context, err error) {
	var rateLimited *commands.RateLimitedError
	if errs.As(err, &rateLimited) {
		remaining := rateLimited.RemainingSeconds()
		c.Header("Retry-After", strconv.Itoa(remaining))
		httperr.AbortWithKind(c, http.StatusTooManyRequests, err,
			"Please wait before requesting another QR code.", httperr.KindWait,
			gin.H{"retryAfterSeconds": remaining})
		return
	}

	for _, m := range paymentErrorMappings {
		if errs.Is(err, m.target) {
			httperr.AbortWithKind(c, m.status, err, m.message, m.kind, nil)
			return
		}
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
