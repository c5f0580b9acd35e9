package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// Проверка, что Exchanger удовлетворяет порту обмена токенов.
var _ ports.TokenExchanger = (*Exchanger)(nil)

// ErrExchangeFailed — провайдер или платформа отказали в выдаче токена.
var ErrExchangeFailed = errors.New("token exchange failed")

const (
	jwtBearerGrant   = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	platformExchange = "/authentication/api/v1/exchange/maskinporten"
	maxErrorBody     = 4 << 10
)

// DefaultTokenTTL — срок жизни токена, если его не удалось определить из ответа.
const DefaultTokenTTL = 5 * time.Minute

// Exchanger — получение токена upstream в два шага:
// утверждение → токен провайдера удостоверений → токен платформы.
type Exchanger struct {
	signer      *Signer
	idpURL      string
	platformURL string
	client      *http.Client
	log         ports.Logger
	now         func() time.Time
}

// ExchangerOption — настройка Exchanger.
type ExchangerOption func(*Exchanger)

// WithHTTPClient — свой HTTP-клиент.
func WithHTTPClient(client *http.Client) ExchangerOption {
	return func(e *Exchanger) {
		if client != nil {
			e.client = client
		}
	}
}

// WithExchangerClock — подмена часов (для тестов).
func WithExchangerClock(now func() time.Time) ExchangerOption {
	return func(e *Exchanger) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExchanger — конструктор. idpBaseURL — адрес провайдера удостоверений,
// platformBaseURL — адрес платформы уведомлений.
func NewExchanger(signer *Signer, idpBaseURL, platformBaseURL string, log ports.Logger, opts ...ExchangerOption) *Exchanger {
	e := &Exchanger{
		signer:      signer,
		idpURL:      strings.TrimRight(idpBaseURL, "/"),
		platformURL: strings.TrimRight(platformBaseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// idpTokenResponse — ответ провайдера удостоверений.
type idpTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Exchange — новый токен платформы.
func (e *Exchanger) Exchange(ctx context.Context) (domain.AccessToken, error) {
	assertion, err := e.signer.Sign()
	if err != nil {
		return domain.AccessToken{}, err
	}

	idpToken, err := e.idpToken(ctx, assertion)
	if err != nil {
		e.log.Warnf(ctx, "identity provider token request failed: %v", err)
		return domain.AccessToken{}, err
	}

	value, err := e.platformToken(ctx, idpToken.AccessToken)
	if err != nil {
		e.log.Warnf(ctx, "platform token exchange failed: %v", err)
		return domain.AccessToken{}, err
	}

	expiresAt := e.expiry(value, idpToken.ExpiresIn)
	e.log.Infof(ctx, "access token refreshed expires_at=%s", expiresAt.Format(time.RFC3339))
	return domain.AccessToken{Value: value, ExpiresAt: expiresAt}, nil
}

func (e *Exchanger) idpToken(ctx context.Context, assertion string) (idpTokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.idpURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return idpTokenResponse{}, fmt.Errorf("build idp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	body, err := e.do(req)
	if err != nil {
		return idpTokenResponse{}, err
	}

	var out idpTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return idpTokenResponse{}, fmt.Errorf("%w: decode idp response: %v", ErrExchangeFailed, err)
	}
	if out.AccessToken == "" {
		return idpTokenResponse{}, fmt.Errorf("%w: idp response without access_token", ErrExchangeFailed)
	}
	return out, nil
}

func (e *Exchanger) platformToken(ctx context.Context, idpToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.platformURL+platformExchange+"?test=false", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+idpToken)

	body, err := e.do(req)
	if err != nil {
		return "", err
	}

	// Платформа отвечает голой строкой токена, иногда в кавычках.
	value := strings.Trim(strings.TrimSpace(string(body)), `"`)
	if value == "" {
		return "", fmt.Errorf("%w: empty platform token", ErrExchangeFailed)
	}
	return value, nil
}

func (e *Exchanger) do(req *http.Request) ([]byte, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s %s status=%d body=%q",
			ErrExchangeFailed, req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}
	return body, nil
}

// expiry — момент истечения: exp из токена платформы, затем expires_in провайдера,
// иначе DefaultTokenTTL. Подпись токена платформы здесь не проверяется.
func (e *Exchanger) expiry(platformToken string, idpExpiresIn int64) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(platformToken, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	if idpExpiresIn > 0 {
		return e.now().Add(time.Duration(idpExpiresIn) * time.Second)
	}
	return e.now().Add(DefaultTokenTTL)
}
