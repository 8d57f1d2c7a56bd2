package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q, want usd", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.5,"market_cap":1.2e12,"price_change_percentage_24h":-1.3,"total_volume":3.4e10}]`))
	}))
	defer srv.Close()
	t.Setenv("COINGECKO_BASE_URL", srv.URL)

	coins, err := FetchMarkets(context.Background(), srv.Client(), []string{"bitcoin"}, "usd")
	if err != nil {
		t.Fatalf("FetchMarkets: %v", err)
	}
	if len(coins) != 1 {
		t.Fatalf("got %d coins, want 1", len(coins))
	}
	if coins[0].ID != "bitcoin" || coins[0].CurrentPrice != 64000.5 {
		t.Fatalf("unexpected coin row: %+v", coins[0])
	}
}

func TestFetchSimplePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ethereum":{"usd":3100.25,"eur":2870.1}}`))
	}))
	defer srv.Close()
	t.Setenv("COINGECKO_BASE_URL", srv.URL)

	prices, err := FetchSimplePrice(context.Background(), srv.Client(), []string{"ethereum"}, []string{"usd", "eur"})
	if err != nil {
		t.Fatalf("FetchSimplePrice: %v", err)
	}
	if prices["ethereum"]["usd"] != 3100.25 {
		t.Fatalf("unexpected prices: %+v", prices)
	}
}

func TestFetchMarketsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	t.Setenv("COINGECKO_BASE_URL", srv.URL)

	if _, err := FetchMarkets(context.Background(), srv.Client(), nil, ""); err == nil {
		t.Fatal("expected error on non-200 upstream response")
	}
}

func TestFetchSimplePriceRequiresIDs(t *testing.T) {
	if _, err := FetchSimplePrice(context.Background(), http.DefaultClient, nil, nil); err == nil {
		t.Fatal("expected error when no coin ids given")
	}
}
