package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/notify_gateway/internal/domain"
	"github.com/Gunvolt24/notify_gateway/internal/ports/mocks"
	rest "github.com/Gunvolt24/notify_gateway/internal/transport/http"
	"github.com/Gunvolt24/notify_gateway/pkg/validate"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func serve(t *testing.T, svc *mocks.MockOrderService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := rest.NewRouter(rest.NewHandler(svc, noopLogger{}, 0), "")

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error json %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestSubmitOrder_Accepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	svc.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *domain.OrderRequest) (*domain.OrderConfirmation, error) {
			if req.SendersReference != "ref-1" || req.NotificationChannel != domain.ChannelSms || req.SmsTemplate.Body != "Hei" {
				t.Errorf("request not decoded: %+v", req)
			}
			return &domain.OrderConfirmation{ID: "o-1", OrderStatus: domain.OrderProcessing, StatusLink: "orders/o-1"}, nil
		})

	body := `{"nationalIdentityNumbers":["12345678901"],"notificationChannel":"Sms",` +
		`"smsTemplate":{"body":"Hei"},"sendersReference":"ref-1"}`
	w := serve(t, svc, http.MethodPost, "/orders", body)

	if w.Code != http.StatusAccepted {
		t.Fatalf("want 202, got %d, body=%s", w.Code, w.Body.String())
	}
	var got domain.OrderConfirmation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "o-1" || got.StatusLink != "orders/o-1" {
		t.Fatalf("unexpected confirmation: %+v", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID must be set")
	}
}

func TestSubmitOrder_MalformedJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)
	// SubmitOrder не ожидается.

	w := serve(t, svc, http.MethodPost, "/orders", `{"nationalIdentityNumbers":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

func TestSubmitOrder_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	svc.EXPECT().SubmitOrder(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("validation failed: %w", validate.ErrInvalidOrder))

	w := serve(t, svc, http.MethodPost, "/orders", `{"nationalIdentityNumbers":[],"sendersReference":"r"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
	if msg := errorMessage(t, w); !strings.Contains(msg, "validation failed") {
		t.Fatalf("validation reason must reach the client, got %q", msg)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", &domain.UpstreamError{Status: 400, Kind: domain.ErrBadRequest}, http.StatusBadRequest},
		{"unauthorized", &domain.UpstreamError{Status: 401, Kind: domain.ErrUnauthorized}, http.StatusUnauthorized},
		{"forbidden", &domain.UpstreamError{Status: 403, Kind: domain.ErrForbidden}, http.StatusForbidden},
		{"not found", &domain.UpstreamError{Status: 404, Kind: domain.ErrNotFound}, http.StatusNotFound},
		{"upstream 5xx", &domain.UpstreamError{Status: 502, Body: "bad gateway", Kind: domain.ErrUpstream}, http.StatusInternalServerError},
		{"unhandled", &domain.UpstreamError{Status: 418, Kind: domain.ErrUnhandledUpstream}, http.StatusInternalServerError},
		{"plain error", errors.New("token exchange failed"), http.StatusInternalServerError},
		{"deadline", fmt.Errorf("get order: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockOrderService(ctrl)
			svc.EXPECT().GetOrderStatus(gomock.Any(), "o-1").Return(nil, tc.err)

			w := serve(t, svc, http.MethodGet, "/orders/o-1", "")
			if w.Code != tc.want {
				t.Fatalf("want %d, got %d, body=%s", tc.want, w.Code, w.Body.String())
			}
			if msg := errorMessage(t, w); msg == "" {
				t.Fatal("error message must not be empty")
			}
		})
	}
}

func TestGetOrderStatus_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	svc.EXPECT().GetOrderStatus(gomock.Any(), "o-1").Return(&domain.OrderView{
		ID:          "o-1",
		OrderStatus: domain.OrderCompleted,
		Notifications: domain.Notifications{
			NotificationsList: []domain.Notification{},
			Summary:           domain.NotificationsSummary{Count: 2, Delivered: 2},
		},
	}, nil)

	w := serve(t, svc, http.MethodGet, "/orders/o-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var got domain.OrderView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.OrderStatus != domain.OrderCompleted || got.Notifications.Summary.Delivered != 2 {
		t.Fatalf("unexpected view: %+v", got)
	}
}

func TestCancelOrder(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockOrderService(ctrl)
		svc.EXPECT().CancelOrder(gomock.Any(), "o-1").Return(&domain.OrderProcessingStatus{
			ID:               "o-1",
			ProcessingStatus: domain.ProcessingStatus{Status: domain.ProcessingStatusCancelled},
		}, nil)

		w := serve(t, svc, http.MethodPut, "/orders/o-1/cancel", "")
		if w.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", w.Code)
		}
	})

	t.Run("too late", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockOrderService(ctrl)
		svc.EXPECT().CancelOrder(gomock.Any(), "o-1").
			Return(nil, &domain.UpstreamError{Op: "cancel_order", Status: 409, Kind: domain.ErrConflict})

		w := serve(t, svc, http.MethodPut, "/orders/o-1/cancel", "")
		if w.Code != http.StatusConflict {
			t.Fatalf("want 409, got %d", w.Code)
		}
		if msg := errorMessage(t, w); msg != "order can no longer be cancelled" {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestPaginateOrders_Params(t *testing.T) {
	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"missing sendersReference", "/orders?index=0", http.StatusBadRequest},
		{"missing index", "/orders?sendersReference=ref-1", http.StatusBadRequest},
		{"negative index", "/orders?sendersReference=ref-1&index=-5", http.StatusBadRequest},
		{"non-numeric index", "/orders?sendersReference=ref-1&index=abc", http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockOrderService(ctrl)
			// PaginateOrders не ожидается.

			w := serve(t, svc, http.MethodGet, tc.target, "")
			if w.Code != tc.want {
				t.Fatalf("want %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestPaginateOrders_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	svc.EXPECT().PaginateOrders(gomock.Any(), "ref-1", domain.FilterPlanned, 5).Return(&domain.Page{
		Orders:         []domain.PageOrder{{ID: "o-6"}},
		IsLastPage:     true,
		NumberOfOrders: 6,
		NextPageNumber: 6,
	}, nil)

	w := serve(t, svc, http.MethodGet, "/orders?sendersReference=ref-1&index=5&type=planned", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var got domain.Page
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !got.IsLastPage || got.NextPageNumber != 6 || len(got.Orders) != 1 {
		t.Fatalf("unexpected page: %+v", got)
	}
}

func TestOrderIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)
	svc.EXPECT().OrderIDs(gomock.Any(), "ref-1").Return([]string{"o-2", "o-1"}, nil)

	w := serve(t, svc, http.MethodGet, "/orders/ids/ref-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var got []string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[0] != "o-2" {
		t.Fatalf("unexpected ids: %v", got)
	}
}

func TestServiceEndpoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockOrderService(ctrl)

	cases := []struct {
		target string
		body   string
	}{
		{"/ping", "pong"},
		{"/actuator/health", "OK"},
	}
	for _, tc := range cases {
		w := serve(t, svc, http.MethodGet, tc.target, "")
		if w.Code != http.StatusOK || w.Body.String() != tc.body {
			t.Fatalf("%s: want 200 %q, got %d %q", tc.target, tc.body, w.Code, w.Body.String())
		}
	}

	for _, target := range []string{"/metrics", "/actuator/metrics"} {
		if w := serve(t, svc, http.MethodGet, target, ""); w.Code != http.StatusOK {
			t.Fatalf("%s: want 200, got %d", target, w.Code)
		}
	}
}
