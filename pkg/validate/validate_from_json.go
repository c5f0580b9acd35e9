package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports"
)

// DecodeOrderRequest — строгий разбор запроса на рассылку:
// неизвестные поля и данные после объекта запрещены.
// Ошибки разбора оборачивают ErrInvalidOrder.
func DecodeOrderRequest(raw []byte) (*domain.OrderRequest, error) {
	var req domain.OrderRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidOrder, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrInvalidOrder)
	}
	return &req, nil
}

// ValidateOrderFromJSON — разбор и валидация запроса из JSON.
func ValidateOrderFromJSON(ctx context.Context, validator ports.OrderValidator, raw []byte) (*domain.OrderRequest, error) {
	req, err := DecodeOrderRequest(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
