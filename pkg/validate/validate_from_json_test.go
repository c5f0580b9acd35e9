package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDecodeOrderRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "ok", raw: minimalValidRequestJSON("ref-1", "12345678901")},
		{name: "broken", raw: `{"sendersReference":`, wantErr: "invalid json"},
		{name: "unknown field", raw: `{"sendersReference":"r","extra":1}`, wantErr: "unknown field"},
		{name: "trailing data", raw: minimalValidRequestJSON("ref-1", "12345678901") + `{}`, wantErr: "trailing data"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, err := DecodeOrderRequest([]byte(tc.raw))
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req.SendersReference != "ref-1" {
					t.Fatalf("unexpected request: %+v", req)
				}
				return
			}
			if err == nil || !errors.Is(err, ErrInvalidOrder) || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("want ErrInvalidOrder containing %q, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateOrderFromJSON_ValidationError(t *testing.T) {
	_, err := ValidateOrderFromJSON(context.Background(), NewOrderValidator(), []byte(minimalValidRequestJSON("ref-1", "123")))
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("want ErrInvalidOrder, got: %v", err)
	}
}

// ---- функции для тестирования ----

func minimalValidRequestJSON(ref, nin string) string {
	return `{
	  "nationalIdentityNumbers": ["` + nin + `"],
	  "notificationChannel": "Sms",
	  "smsTemplate": {"body": "Hei"},
	  "sendersReference": "` + ref + `"
	}`
}
