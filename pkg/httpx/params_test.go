package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/notify_gateway/pkg/httpx"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?"+rawQuery, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestRequiredQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawQuery string
		want     string
		wantErr  bool
	}{
		{"present", "sendersReference=ref-1", "ref-1", false},
		{"trimmed", "sendersReference=%20ref-1%20", "ref-1", false},
		{"missing", "", "", true},
		{"blank", "sendersReference=%20", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := httpx.RequiredQuery(ctxWithQuery(tt.rawQuery), "sendersReference")
			if tt.wantErr {
				if !errors.Is(err, httpx.ErrBadParam) {
					t.Fatalf("want ErrBadParam, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q err=%v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rawQuery string
		want     int
		wantErr  bool
	}{
		{"zero", "index=0", 0, false},
		{"positive", "index=15", 15, false},
		{"missing", "", 0, true},
		{"negative", "index=-1", 0, true},
		{"not_a_number", "index=foo", 0, true},
		{"float", "index=1.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := httpx.ParseIndex(ctxWithQuery(tt.rawQuery), "index")
			if tt.wantErr {
				if !errors.Is(err, httpx.ErrBadParam) {
					t.Fatalf("want ErrBadParam, got %v (query=%q)", err, tt.rawQuery)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %d err=%v, want %d (query=%q)", got, err, tt.want, tt.rawQuery)
			}
		})
	}
}
