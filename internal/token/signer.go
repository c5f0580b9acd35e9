package token

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultAssertionTTL — срок жизни подписанного утверждения.
const DefaultAssertionTTL = 2 * time.Minute

// ErrInvalidKey — ключ подписи не является приватным RSA-ключом.
var ErrInvalidKey = errors.New("token: signing key must be a private RSA JWK")

// SignerConfig — параметры утверждения для провайдера удостоверений.
type SignerConfig struct {
	ClientID string        // iss
	Audience string        // aud: базовый адрес провайдера со слешем на конце
	Scope    string        // запрашиваемые права
	JWK      []byte        // приватный ключ клиента в формате JWK (JSON)
	TTL      time.Duration // срок жизни утверждения
}

// Signer — подписывает RS256-утверждения (jwt-bearer grant).
type Signer struct {
	clientID string
	audience string
	scope    string
	ttl      time.Duration
	key      *rsa.PrivateKey
	keyID    string
	now      func() time.Time
}

// SignerOption — настройка Signer.
type SignerOption func(*Signer)

// WithSignerClock — подмена часов (для тестов).
func WithSignerClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		if now != nil {
			s.now = now
		}
	}
}

// ParsePrivateJWK — разбор приватного RSA-ключа из JWK. Возвращает ключ и его kid.
func ParsePrivateJWK(raw []byte) (*rsa.PrivateKey, string, error) {
	var jwk jose.JSONWebKey
	if err := json.Unmarshal(raw, &jwk); err != nil {
		return nil, "", fmt.Errorf("parse jwk: %w", err)
	}
	key, ok := jwk.Key.(*rsa.PrivateKey)
	if !ok || !jwk.Valid() {
		return nil, "", ErrInvalidKey
	}
	return key, jwk.KeyID, nil
}

// NewSigner — конструктор; ключ разбирается сразу, чтобы ошибка конфигурации всплыла при старте.
func NewSigner(cfg SignerConfig, opts ...SignerOption) (*Signer, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("token: client id is required")
	}
	key, kid, err := ParsePrivateJWK(cfg.JWK)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAssertionTTL
	}

	s := &Signer{
		clientID: cfg.ClientID,
		audience: cfg.Audience,
		scope:    cfg.Scope,
		ttl:      ttl,
		key:      key,
		keyID:    kid,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign — новое подписанное утверждение.
func (s *Signer) Sign() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.clientID,
		"aud":   s.audience,
		"scope": s.scope,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
		"jti":   uuid.NewString(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if s.keyID != "" {
		tok.Header["kid"] = s.keyID
	}

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return signed, nil
}
