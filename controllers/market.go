package controllers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"blockfortune/utils"
)

// Default coin ids for the supported deposit currencies.
var defaultCoinIDs = []string{"bitcoin", "ethereum", "tether", "binancecoin", "solana"}

const marketCacheTTL = 60 * time.Second

var marketHTTPClient = &http.Client{Timeout: 10 * time.Second}

type marketCacheEntry struct {
	data      interface{}
	fetchedAt time.Time
}

var (
	marketCacheMu sync.Mutex
	marketCache   = make(map[string]marketCacheEntry)
)

func marketCacheGet(key string) (interface{}, bool) {
	marketCacheMu.Lock()
	defer marketCacheMu.Unlock()
	entry, ok := marketCache[key]
	if !ok || time.Since(entry.fetchedAt) > marketCacheTTL {
		return nil, false
	}
	return entry.data, true
}

func marketCacheSet(key string, data interface{}) {
	marketCacheMu.Lock()
	defer marketCacheMu.Unlock()
	marketCache[key] = marketCacheEntry{data: data, fetchedAt: time.Now()}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GET /v1/market/coins?ids=bitcoin,ethereum&vs_currency=usd
func GetMarketsHandler(w http.ResponseWriter, r *http.Request) {
	ids := splitParam(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		ids = defaultCoinIDs
	}
	if len(ids) > 50 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Too many coin ids"})
		return
	}
	vsCurrency := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("vs_currency")))
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	cacheKey := "markets:" + strings.Join(ids, ",") + ":" + vsCurrency
	if cached, ok := marketCacheGet(cacheKey); ok {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: cached})
		return
	}

	coins, err := utils.FetchMarkets(r.Context(), marketHTTPClient, ids, vsCurrency)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Market data is temporarily unavailable"})
		return
	}
	marketCacheSet(cacheKey, coins)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: coins})
}

// GET /v1/market/price?ids=bitcoin&vs_currencies=usd,eur
func GetPriceHandler(w http.ResponseWriter, r *http.Request) {
	ids := splitParam(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		ids = defaultCoinIDs
	}
	if len(ids) > 50 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Too many coin ids"})
		return
	}
	vsCurrencies := splitParam(r.URL.Query().Get("vs_currencies"))
	if len(vsCurrencies) == 0 {
		vsCurrencies = []string{"usd"}
	}

	cacheKey := "price:" + strings.Join(ids, ",") + ":" + strings.Join(vsCurrencies, ",")
	if cached, ok := marketCacheGet(cacheKey); ok {
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: cached})
		return
	}

	prices, err := utils.FetchSimplePrice(r.Context(), marketHTTPClient, ids, vsCurrencies)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadGateway, utils.APIResponse{Success: false, Message: "Market data is temporarily unavailable"})
		return
	}
	marketCacheSet(cacheKey, prices)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: prices})
}
