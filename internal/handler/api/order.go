package api

import (
	"net/http"

	resdto "diamond-topup/internal/handler/dto/response"
	"diamond-topup/internal/handler/httperr"
	"diamond-topup/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	q queries.OrderQueries
}

func NewOrderHandler(q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{q: q}
}

// @Summary Get order
// @Description Look up an order by the number shown to the buyer, with or without its letter prefix
// @Tags orders
// @Produce json
// @Param orderRef path string true "Order number"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/orders/{orderRef} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	view, err := h.q.GetByOrderRef(c.Request.Context(), c.Param("orderRef"))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	resp, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render order", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}
