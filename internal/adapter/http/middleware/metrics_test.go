package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	httpRequestsTotal.Reset()

	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}

	count := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/accounts", "201"))
	if count != 1 {
		t.Fatalf("expected counter to be 1, got %f", count)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "account path with ID",
			path: "/api/v1/accounts/01J3X8YZ9ABCDEF",
			want: "/api/v1/accounts/:id",
		},
		{
			name: "account transactions path",
			path: "/api/v1/accounts/01J3X8YZ9ABCDEF/transactions",
			want: "/api/v1/accounts/:id/transactions",
		},
		{
			name: "account balance path",
			path: "/api/v1/accounts/01J3X8YZ9ABCDEF/balance",
			want: "/api/v1/accounts/:id/balance",
		},
		{
			name: "collection path unchanged",
			path: "/api/v1/accounts",
			want: "/api/v1/accounts",
		},
		{
			name: "unrelated path unchanged",
			path: "/health",
			want: "/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
