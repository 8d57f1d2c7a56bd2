package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Read-only client for the CoinGecko public API. Display data only; the
// ledger never depends on these values.

const defaultCoinGeckoBase = "https://api.coingecko.com/api/v3"

func coinGeckoBase() string {
	if v := strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultCoinGeckoBase
}

// MarketCoin is one row of the /coins/markets response.
type MarketCoin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	TotalVolume              float64 `json:"total_volume"`
}

// FetchMarkets returns market rows for the given coin ids in the given fiat currency.
func FetchMarkets(ctx context.Context, client *http.Client, ids []string, vsCurrency string) ([]MarketCoin, error) {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	if len(ids) > 0 {
		q.Set("ids", strings.Join(ids, ","))
	}
	q.Set("order", "market_cap_desc")
	q.Set("sparkline", "false")

	endpoint := fmt.Sprintf("%s/coins/markets?%s", coinGeckoBase(), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko markets: unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out []MarketCoin
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("coingecko markets: decode: %w", err)
	}
	return out, nil
}

// FetchSimplePrice returns spot prices, keyed by coin id then currency.
func FetchSimplePrice(ctx context.Context, client *http.Client, ids []string, vsCurrencies []string) (map[string]map[string]float64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("coingecko price: no coin ids given")
	}
	if len(vsCurrencies) == 0 {
		vsCurrencies = []string{"usd"}
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(vsCurrencies, ","))

	endpoint := fmt.Sprintf("%s/simple/price?%s", coinGeckoBase(), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko price: unexpected status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out map[string]map[string]float64
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("coingecko price: decode: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
