package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/httpx"
)

// submitOrder — POST /orders. Ответ 202: заказ принят платформой и обрабатывается.
func (h *Handler) submitOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order request: " + err.Error()})
		return
	}
	h.log.Infof(ctx, "order request received ref=%s channel=%s", req.SendersReference, req.NotificationChannel)

	conf, err := h.service.SubmitOrder(ctx, &req)
	if err != nil {
		h.writeError(c, "submit order", err)
		return
	}
	c.JSON(http.StatusAccepted, conf)
}

// getOrderStatus — GET /orders/:id.
func (h *Handler) getOrderStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	view, err := h.service.GetOrderStatus(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "get order status", err)
		return
	}
	h.log.Infof(c.Request.Context(), "order status id=%s status=%s", id, view.OrderStatus)
	c.JSON(http.StatusOK, view)
}

// cancelOrder — PUT /orders/:id/cancel.
func (h *Handler) cancelOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty id"})
		return
	}

	st, err := h.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "cancel order", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// paginateOrders — GET /orders?sendersReference=...&index=...&type=active|planned.
func (h *Handler) paginateOrders(c *gin.Context) {
	ref, err := httpx.RequiredQuery(c, "sendersReference")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	index, err := httpx.ParseIndex(c, "index")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.PaginateOrders(c.Request.Context(), ref, c.Query("type"), index)
	if err != nil {
		h.writeError(c, "paginate orders", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// orderIDs — GET /orders/ids/:sendersReference.
func (h *Handler) orderIDs(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("sendersReference"))
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sendersReference is required"})
		return
	}

	ids, err := h.service.OrderIDs(c.Request.Context(), ref)
	if err != nil {
		h.writeError(c, "order ids", err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
