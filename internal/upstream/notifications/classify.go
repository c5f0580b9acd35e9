package notifications

import (
	"net/http"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
)

// classifyStatus — класс ошибки по коду неуспешного ответа.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return domain.ErrBadRequest
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusForbidden:
		return domain.ErrForbidden
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status >= http.StatusInternalServerError:
		return domain.ErrUpstream
	default:
		return domain.ErrUnhandledUpstream
	}
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }
