// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

// SimplePriceResponse is the body of /simple/price: coin id -> field -> value.
// Fields are keyed by currency ("usd") or suffixed ("usd_24h_change", "usd_market_cap", "usd_24h_vol").
type SimplePriceResponse map[string]map[string]*float64

// TrendingResponse is the body of /search/trending.
// Coins is a pointer so that a body without the "coins" key can be told apart from an empty list.
type TrendingResponse struct {
	Coins *[]struct {
		Item TrendingItem `json:"item"`
	} `json:"coins"`
}

// TrendingItem is the coin wrapped in each trending entry.
type TrendingItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank"`
}

// MarketResponse is one element of the /coins/markets array.
type MarketResponse struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

// CoinResponse is the subset of /coins/{id} the client reads.
type CoinResponse struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	GenesisDate   *string           `json:"genesis_date"`
	MarketCapRank *int              `json:"market_cap_rank"`
	Description   map[string]string `json:"description"`
	Links         struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
	MarketData *struct {
		CurrentPrice map[string]*float64 `json:"current_price"`
		ATH          map[string]*float64 `json:"ath"`
	} `json:"market_data"`
}
