package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func mustCIDRs(t *testing.T, cidrs ...string) []string {
	t.Helper()
	for _, c := range cidrs {
		if _, _, err := net.ParseCIDR(c); err != nil {
			t.Fatalf("parse cidr %s: %v", c, err)
		}
	}
	return cidrs
}

func TestClientIPGenericIgnoresHeadersFromUntrustedProxy(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/user/info", nil)
	r.RemoteAddr = "203.0.113.9:51234"
	r.Header.Set("X-Forwarded-For", "198.51.100.7")

	got := clientIPGeneric(r, mustCIDRs(t, "10.0.0.0/8"))
	if got != "203.0.113.9" {
		t.Fatalf("expected remote addr ip, got %s", got)
	}
}

func TestClientIPGenericUsesForwardedForFromTrustedProxy(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/user/info", nil)
	r.RemoteAddr = "10.0.0.5:443"
	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.5")

	got := clientIPGeneric(r, mustCIDRs(t, "10.0.0.0/8"))
	if got != "198.51.100.7" {
		t.Fatalf("expected forwarded ip, got %s", got)
	}
}

func TestClientIPGenericFallbackWithoutPort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/user/info", nil)
	r.RemoteAddr = "192.0.2.44"

	got := clientIPGeneric(r, nil)
	if got != "192.0.2.44" {
		t.Fatalf("expected raw remote addr, got %s", got)
	}
}

func TestIPRateLimiterBlocksAfterLimit(t *testing.T) {
	limiter := NewIPRateLimiter(2, 60*time.Second)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/market/coins", nil)
		req.RemoteAddr = "203.0.113.20:1000"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/market/coins", nil)
	req.RemoteAddr = "203.0.113.20:1000"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on 429")
	}
}

func TestOTPEmailRateLimitSchedule(t *testing.T) {
	limiter := NewOTPRateLimiter()

	ok, _, _ := limiter.CheckEmailRateLimit("user@example.com")
	if !ok {
		t.Fatalf("first request should be allowed")
	}

	ok, wait, msg := limiter.CheckEmailRateLimit("user@example.com")
	if ok {
		t.Fatalf("second immediate request should be throttled")
	}
	if wait <= 0 {
		t.Fatalf("expected positive wait, got %v", wait)
	}
	if msg != "Wait 1 minute before requesting another code" {
		t.Fatalf("unexpected message: %q", msg)
	}

	limiter.ResetEmailLimit("user@example.com")
	ok, _, _ = limiter.CheckEmailRateLimit("user@example.com")
	if !ok {
		t.Fatalf("request after reset should be allowed")
	}
}
