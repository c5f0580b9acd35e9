package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

// statusFor — HTTP-статус и сообщение клиенту для ошибки прикладного слоя.
func statusFor(op string, err error) (int, string) {
	switch {
	case errors.Is(err, validate.ErrInvalidOrder):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "the notification platform rejected the request"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "not authorized at the notification platform"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access to the resource is forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "the order does not exist"
	case errors.Is(err, domain.ErrConflict):
		if op == "cancel order" {
			return http.StatusConflict, "order can no longer be cancelled"
		}
		return http.StatusConflict, "conflict at the notification platform"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError — ответ с ошибкой. 5xx логируются с кодом и телом ответа upstream.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	code, msg := statusFor(op, err)

	if code >= http.StatusInternalServerError {
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) {
			h.log.Errorf(ctx, "%s failed: upstream op=%s status=%d body=%q", op, uerr.Op, uerr.Status, uerr.Body)
		} else {
			h.log.Errorf(ctx, "%s failed: %v", op, err)
		}
	} else {
		h.log.Warnf(ctx, "%s rejected status=%d: %v", op, code, err)
	}

	c.JSON(code, gin.H{"error": msg})
}
