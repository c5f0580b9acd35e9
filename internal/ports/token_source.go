package ports

import (
	"context"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// TokenSource — источник действующего bearer-токена для upstream.
type TokenSource interface {
	// Token — вернуть действующий токен, при необходимости обновив его.
	Token(ctx context.Context) (domain.AccessToken, error)
	// Invalidate — пометить токен истёкшим (например, после 401).
	// Если в кэше уже другой токен, вызов ничего не делает.
	Invalidate(ctx context.Context, stale domain.AccessToken)
}

// TokenExchanger — получение нового токена у провайдера удостоверений.
type TokenExchanger interface {
	Exchange(ctx context.Context) (domain.AccessToken, error)
}
