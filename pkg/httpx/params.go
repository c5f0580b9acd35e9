package httpx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrBadParam — некорректный или отсутствующий параметр запроса.
var ErrBadParam = errors.New("bad request parameter")

// RequiredQuery — непустой query-параметр name.
func RequiredQuery(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrBadParam, name)
	}
	return v, nil
}

// ParseIndex — обязательный неотрицательный целый query-параметр name.
func ParseIndex(c *gin.Context, name string) (int, error) {
	raw, err := RequiredQuery(c, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadParam, name)
	}
	return v, nil
}
