package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGetMarketsHandlerCaches(t *testing.T) {
	var upstreamHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&upstreamHits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"litecoin","symbol":"ltc","name":"Litecoin","current_price":84.2}]`))
	}))
	defer srv.Close()
	t.Setenv("COINGECKO_BASE_URL", srv.URL)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/market/coins?ids=litecoin", nil)
		rec := httptest.NewRecorder()
		GetMarketsHandler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i, rec.Code)
		}

		var resp struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("request %d: decode: %v", i, err)
		}
		if !resp.Success {
			t.Fatalf("request %d: success=false", i)
		}
	}

	if hits := atomic.LoadInt32(&upstreamHits); hits != 1 {
		t.Fatalf("upstream hit %d times, want 1 (cached)", hits)
	}
}

func TestGetMarketsHandlerRejectsTooManyIDs(t *testing.T) {
	ids := "a"
	for i := 0; i < 60; i++ {
		ids += ",coin" + string(rune('a'+i%26))
	}
	req := httptest.NewRequest(http.MethodGet, "/v1/market/coins?ids="+ids, nil)
	rec := httptest.NewRecorder()
	GetMarketsHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestGetPriceHandlerUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("COINGECKO_BASE_URL", srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/v1/market/price?ids=monero", nil)
	rec := httptest.NewRecorder()
	GetPriceHandler(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
}
