package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/pkg/httpx"
)

// Handler — HTTP-обработчики заказов поверх ports.OrderService.
type Handler struct {
	service        ports.OrderService
	log            ports.Logger
	handlerTimeout time.Duration // 0 — без ограничения
}

// NewHandler — конструктор.
func NewHandler(service ports.OrderService, log ports.Logger, handlerTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, handlerTimeout: handlerTimeout}
}

// NewRouter — gin.Engine со всеми маршрутами и middleware.
// otelServiceName пустой — без otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	metrics := gin.WrapH(promhttp.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", metrics)
	r.GET("/actuator/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.GET("/actuator/metrics", metrics)

	orders := r.Group("/orders", httpx.Timeout(h.handlerTimeout))
	orders.POST("", h.submitOrder)
	orders.GET("", h.paginateOrders)
	orders.GET("/:id", h.getOrderStatus)
	orders.PUT("/:id/cancel", h.cancelOrder)
	orders.GET("/ids/:sendersReference", h.orderIDs)

	return r
}
