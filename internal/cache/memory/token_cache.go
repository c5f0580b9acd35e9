package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
	"github.com/Gunvolt24/notify_gateway/pkg/metrics"
)

// Проверка, что TokenCache удовлетворяет порту источника токенов.
var _ ports.TokenSource = (*TokenCache)(nil)

// TokenState — состояние кэша токена.
type TokenState int

const (
	TokenEmpty   TokenState = iota // токена ещё не было
	TokenValid                     // токен действует
	TokenExpired                   // токен истёк или отозван
)

func (s TokenState) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "empty"
	}
}

// DefaultExpirySkew — запас до истечения, после которого токен считается истёкшим.
const DefaultExpirySkew = 30 * time.Second

// ErrEmptyToken — обменник вернул пустой токен.
var ErrEmptyToken = errors.New("token exchanger returned empty token")

const refreshKey = "access-token"

// TokenCache — кэш одного bearer-токена upstream.
// Обновление выполняется не более чем одним обменом одновременно; ошибка обмена
// не меняет состояние кэша.
type TokenCache struct {
	exchanger ports.TokenExchanger
	now       func() time.Time
	skew      time.Duration

	mu    sync.Mutex
	token domain.AccessToken
	state TokenState

	group singleflight.Group
}

// TokenCacheOption — настройка кэша.
type TokenCacheOption func(*TokenCache)

// WithClock — подмена часов (для тестов).
func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithExpirySkew — запас до истечения токена.
func WithExpirySkew(d time.Duration) TokenCacheOption {
	return func(c *TokenCache) {
		if d >= 0 {
			c.skew = d
		}
	}
}

// NewTokenCache — конструктор. Начальное состояние — TokenEmpty.
func NewTokenCache(exchanger ports.TokenExchanger, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{
		exchanger: exchanger,
		now:       time.Now,
		skew:      DefaultExpirySkew,
		state:     TokenEmpty,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State — текущее состояние с учётом часов.
func (c *TokenCache) State() TokenState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observe(c.now())
	return c.state
}

// Token — действующий токен. Valid возвращается без обмена;
// Empty и Expired приводят ровно к одному обмену, общему для всех ждущих вызовов.
func (c *TokenCache) Token(ctx context.Context) (domain.AccessToken, error) {
	if tok, ok := c.cached(); ok {
		metrics.TokenCacheOps.WithLabelValues("hit").Inc()
		return tok, nil
	}
	metrics.TokenCacheOps.WithLabelValues("miss").Inc()

	// Обмен не привязан к отмене конкретного вызова: его результат нужен всем ждущим.
	refreshCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		if tok, ok := c.cached(); ok {
			return tok, nil
		}
		return c.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return domain.AccessToken{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.AccessToken{}, res.Err
		}
		return res.Val.(domain.AccessToken), nil
	}
}

// Invalidate — пометить токен истёкшим, если в кэше всё ещё stale.
func (c *TokenCache) Invalidate(_ context.Context, stale domain.AccessToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == TokenValid && c.token.Value == stale.Value {
		c.state = TokenExpired
		metrics.TokenCacheOps.WithLabelValues("invalidated").Inc()
	}
}

// ------вспомогательные функции------

func (c *TokenCache) cached() (domain.AccessToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.observe(c.now())
	if c.state == TokenValid {
		return c.token, true
	}
	return domain.AccessToken{}, false
}

// observe — перевод Valid → Expired по часам. Вызывается под mu.
func (c *TokenCache) observe(now time.Time) {
	if c.state != TokenValid {
		return
	}
	if !now.Before(c.token.ExpiresAt.Add(-c.skew)) {
		c.state = TokenExpired
		metrics.TokenCacheOps.WithLabelValues("expired").Inc()
	}
}

func (c *TokenCache) refresh(ctx context.Context) (domain.AccessToken, error) {
	tok, err := c.exchanger.Exchange(ctx)
	if err == nil && tok.Value == "" {
		err = ErrEmptyToken
	}
	if err != nil {
		metrics.TokenCacheOps.WithLabelValues("refresh_failed").Inc()
		return domain.AccessToken{}, fmt.Errorf("refresh access token: %w", err)
	}

	now := c.now()
	c.mu.Lock()
	c.token = tok
	c.state = TokenValid
	c.mu.Unlock()

	metrics.TokenCacheOps.WithLabelValues("refreshed").Inc()
	metrics.TokenExpiresIn.Set(tok.ExpiresAt.Sub(now).Seconds())
	return tok, nil
}
