// Package entity defines the market data models returned by the provider.
//
// Optional numeric fields are pointers: a nil value means the provider did not
// report it and must be shown as unavailable, never as zero.
package entity

import (
	"errors"
	"time"
)

// ErrUnavailable is matched by every failure of the market data client
// (transport, timeout, non-2xx, malformed body, missing id).
var ErrUnavailable = errors.New("market data unavailable")

// MarketSnapshot is the live quote of a single coin.
type MarketSnapshot struct {
	CoinID    string    `json:"coin_id"`
	Price     *float64  `json:"price,omitempty"`
	Change24h *float64  `json:"change_24h,omitempty"`
	MarketCap *float64  `json:"market_cap,omitempty"`
	Volume24h *float64  `json:"volume_24h,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// TrendingCoin is one entry of the provider's trending search list.
type TrendingCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank *int   `json:"market_cap_rank,omitempty"`
}

// MarketEntry is one row of the market listing sorted by capitalization.
type MarketEntry struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	Price     *float64 `json:"current_price,omitempty"`
	Change24h *float64 `json:"price_change_percentage_24h,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
}

// CoinDetails is the subset of the provider's coin record used for overviews.
type CoinDetails struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Homepage      string   `json:"homepage,omitempty"`
	GenesisDate   string   `json:"genesis_date,omitempty"`
	MarketCapRank *int     `json:"market_cap_rank,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	AllTimeHigh   *float64 `json:"ath,omitempty"`
}
