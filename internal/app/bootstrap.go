package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/notify_gateway/config"
	cachemem "github.com/Gunvolt24/notify_gateway/internal/cache/memory"
	"github.com/Gunvolt24/notify_gateway/internal/kafka"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/internal/token"
	rest "github.com/Gunvolt24/notify_gateway/internal/transport/http"
	"github.com/Gunvolt24/notify_gateway/internal/upstream/notifications"
	"github.com/Gunvolt24/notify_gateway/internal/usecase"
	"github.com/Gunvolt24/notify_gateway/pkg/logger"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
	"github.com/Gunvolt24/notify_gateway/pkg/telemetry"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, метрики, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер API
	MetricsServer   *http.Server          // отдельный сервер метрик; nil → только /metrics API
	KafkaConsumer   ports.MessageConsumer // консьюмер запросов; nil → Kafka выключена
	gracefulTimeout time.Duration         // время ожидания завершения серверов
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	fail := func(err error) (*App, Cleanup, error) {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := telemetry.Shutdown(telemetry.NoopShutdown)
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	orderService, err := buildOrderService(cfg, logg)
	if err != nil {
		return fail(err)
	}

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	httpHandler := rest.NewHandler(orderService, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	app := &App{
		Logger: logg,
		HTTPServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           router,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.MetricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			ResultTopic:    cfg.Kafka.ResultTopic,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}
		app.KafkaConsumer = kafka.NewConsumer(&kafkaCfg, orderService, logg)
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if app.KafkaConsumer != nil {
			if err := app.KafkaConsumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// buildOrderService — цепочка доменного слоя:
// подпись утверждения → обмен токена → кэш токена → клиент платформы → сервис заказов.
func buildOrderService(cfg *config.Config, log ports.Logger) (*usecase.OrderService, error) {
	idpURL := strings.TrimRight(cfg.Maskinporten.BaseURL, "/")

	signer, err := token.NewSigner(token.SignerConfig{
		ClientID: cfg.Maskinporten.ClientID,
		Audience: idpURL + "/",
		Scope:    cfg.Maskinporten.Scope,
		JWK:      []byte(cfg.Maskinporten.JWK),
		TTL:      cfg.Maskinporten.AssertionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token signer: %w", err)
	}

	upstreamHTTP := &http.Client{Timeout: cfg.Upstream.RequestTimeout}

	exchanger := token.NewExchanger(signer, idpURL, cfg.Upstream.BaseURL, log, token.WithHTTPClient(upstreamHTTP))
	tokens := cachemem.NewTokenCache(exchanger, cachemem.WithExpirySkew(cfg.Maskinporten.ExpirySkew))
	client := notifications.NewClient(cfg.Upstream.BaseURL, tokens, log, notifications.WithHTTPClient(upstreamHTTP))

	validator := validate.NewOrderValidator(
		validate.WithSmsMaxLength(cfg.Validation.SmsMaxLength),
		validate.WithSendTimeSlack(cfg.Validation.SendTimeSlack),
	)

	return usecase.NewOrderService(
		client,
		log,
		validator,
		usecase.NewRecipientMapper(cfg.Recipients.TestEmails),
		usecase.Settings{
			ScheduleLookahead: cfg.Orders.ScheduleLookahead,
			PageSize:          cfg.Orders.PageSize,
			EmailFromAddress:  cfg.Upstream.EmailFromAddress,
			SmsSenderNumber:   cfg.Upstream.SmsSenderNumber,
		},
	), nil
}

// Run — запускает HTTP-серверы и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	servers := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		servers = append(servers, a.MetricsServer)
	}
	for _, srv := range servers {
		go func() {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed (addr=%s): %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully (addr=%s)", srv.Addr)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
