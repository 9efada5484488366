package api

import (
	"net/http"

	reqdto "diamond-topup/internal/handler/dto/request"
	resdto "diamond-topup/internal/handler/dto/response"
	"diamond-topup/internal/handler/httperr"
	"diamond-topup/internal/handler/middleware"
	"diamond-topup/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	issuance commands.QRIssuance
	poller   commands.SettlementPoller
}

func NewPaymentHandler(issuance commands.QRIssuance, poller commands.SettlementPoller) *PaymentHandler {
	return &PaymentHandler{issuance: issuance, poller: poller}
}

// @Summary Issue payment QR
// @Description Reprice the order, create a KHQR code and reserve its order token
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Storefront UI session"
// @Param request body reqdto.IssueQRRequest true "Order to pay for"
// @Success 201 {object} resdto.QRResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/payments/qr [post]
func (h *PaymentHandler) IssueQR(c *gin.Context) {
	var req reqdto.IssueQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	buyer := commands.Buyer{
		SessionID:  middleware.GetSessionID(c),
		ResellerID: middleware.GetResellerID(c),
	}
	result, err := h.issuance.Issue(c.Request.Context(), req, buyer)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromIssueQRResult(result))
}

// @Summary Start polling
// @Description Called once the QR is on screen
// @Tags payments
// @Produce json
// @Param hash path string true "Correlation hash"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/payments/{hash}/display [post]
func (h *PaymentHandler) Display(c *gin.Context) {
	status, err := h.poller.Display(c.Request.Context(), c.Param("hash"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentStatus(status))
}

// @Summary Payment status
// @Tags payments
// @Produce json
// @Param hash path string true "Correlation hash"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/payments/{hash} [get]
func (h *PaymentHandler) Status(c *gin.Context) {
	status, err := h.poller.Status(c.Request.Context(), c.Param("hash"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentStatus(status))
}

// @Summary Verify payment once
// @Description Single settlement check for clients that do not keep a poll session
// @Tags payments
// @Produce json
// @Param hash path string true "Correlation hash"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/payments/{hash}/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	status, err := h.poller.CheckOnce(c.Request.Context(), c.Param("hash"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentStatus(status))
}

// @Summary Close payment UI
// @Description Stops polling; the order token is not touched
// @Tags payments
// @Param hash path string true "Correlation hash"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/payments/{hash} [delete]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	if err := h.poller.Cancel(c.Request.Context(), c.Param("hash")); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
