package domain

import (
	"errors"
	"fmt"
)

// Классы ошибок upstream.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUpstream          = errors.New("upstream failure")
	ErrUnhandledUpstream = errors.New("unhandled upstream response")
)

// UpstreamError — неуспешный ответ upstream с телом для диагностики.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
	Kind   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v (status=%d body=%q)", e.Op, e.Kind, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Kind }
