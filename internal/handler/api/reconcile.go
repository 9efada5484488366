package api

import (
	"net/http"

	resdto "diamond-topup/internal/handler/dto/response"
	"diamond-topup/internal/handler/httperr"
	"diamond-topup/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ReconcileHandler struct {
	sweeper commands.Sweeper
}

func NewReconcileHandler(sweeper commands.Sweeper) *ReconcileHandler {
	return &ReconcileHandler{sweeper: sweeper}
}

// @Summary Run reconciliation sweep
// @Description Re-checks recent pending orders against the payment switch
// @Tags internal
// @Produce json
// @Param X-Reconcile-Secret header string true "Trigger secret"
// @Success 200 {object} resdto.ReconcileResponse
// @Failure 403 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /internal/reconcile [post]
func (h *ReconcileHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Reconciliation failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSweepResult(result))
}
