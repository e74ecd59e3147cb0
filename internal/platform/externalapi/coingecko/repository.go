package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptobuddy/internal/feature/market/domain/entity"
	"cryptobuddy/internal/feature/market/usecase"
	"cryptobuddy/internal/platform/externalapi/coingecko/dto"
	"cryptobuddy/internal/shared/ratelimiter"
)

// CoinGeckoMarket is the MarketRepository backed by the CoinGecko HTTP API.
type CoinGeckoMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.MarketRepository = (*CoinGeckoMarket)(nil)

// NewCoinGeckoMarket creates a CoinGeckoMarket. limiter may be nil.
func NewCoinGeckoMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *CoinGeckoMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.VsCurrency == "" {
		cfg.VsCurrency = defaultVsCurrency
	}
	return &CoinGeckoMarket{cfg: cfg, client: client, limiter: limiter}
}

// GetPrice fetches the quote of one coin from /simple/price.
func (g *CoinGeckoMarket) GetPrice(ctx context.Context, coinID, currency string) (entity.MarketSnapshot, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", currency)
	q.Set("include_24hr_change", "true")
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")

	var body dto.SimplePriceResponse
	if err := g.get(ctx, "simple/price", q, &body); err != nil {
		return entity.MarketSnapshot{}, err
	}
	fields, ok := body[coinID]
	if !ok {
		return entity.MarketSnapshot{}, fmt.Errorf("coingecko: no price for %q", coinID)
	}
	return entity.MarketSnapshot{
		CoinID:    coinID,
		Price:     fields[currency],
		Change24h: fields[currency+"_24h_change"],
		MarketCap: fields[currency+"_market_cap"],
		Volume24h: fields[currency+"_24h_vol"],
		FetchedAt: time.Now(),
	}, nil
}

// GetTrending fetches /search/trending in provider order.
func (g *CoinGeckoMarket) GetTrending(ctx context.Context) ([]entity.TrendingCoin, error) {
	var body dto.TrendingResponse
	if err := g.get(ctx, "search/trending", nil, &body); err != nil {
		return nil, err
	}
	if body.Coins == nil {
		return nil, fmt.Errorf("coingecko: trending response has no coins")
	}
	out := make([]entity.TrendingCoin, 0, len(*body.Coins))
	for _, c := range *body.Coins {
		out = append(out, entity.TrendingCoin{
			ID:            c.Item.ID,
			Name:          c.Item.Name,
			Symbol:        c.Item.Symbol,
			MarketCapRank: c.Item.MarketCapRank,
		})
	}
	return out, nil
}

// GetTopMarkets fetches the first page of /coins/markets sorted by market cap.
func (g *CoinGeckoMarket) GetTopMarkets(ctx context.Context, currency string, limit int) ([]entity.MarketEntry, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("page", "1")
	q.Set("sparkline", "false")

	var body []dto.MarketResponse
	if err := g.get(ctx, "coins/markets", q, &body); err != nil {
		return nil, err
	}
	out := make([]entity.MarketEntry, 0, len(body))
	for _, m := range body {
		out = append(out, entity.MarketEntry{
			ID:        m.ID,
			Name:      m.Name,
			Symbol:    m.Symbol,
			Price:     m.CurrentPrice,
			Change24h: m.PriceChangePercentage24h,
			MarketCap: m.MarketCap,
		})
	}
	return out, nil
}

// GetCoinDetails fetches /coins/{id} without tickers or community data.
func (g *CoinGeckoMarket) GetCoinDetails(ctx context.Context, coinID string) (entity.CoinDetails, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")

	var body dto.CoinResponse
	if err := g.get(ctx, "coins/"+url.PathEscape(coinID), q, &body); err != nil {
		return entity.CoinDetails{}, err
	}
	if body.ID == "" {
		return entity.CoinDetails{}, fmt.Errorf("coingecko: empty record for %q", coinID)
	}

	d := entity.CoinDetails{
		ID:            body.ID,
		Symbol:        body.Symbol,
		Name:          body.Name,
		Description:   strings.TrimSpace(body.Description["en"]),
		MarketCapRank: body.MarketCapRank,
	}
	if body.GenesisDate != nil {
		d.GenesisDate = *body.GenesisDate
	}
	for _, h := range body.Links.Homepage {
		if h != "" {
			d.Homepage = h
			break
		}
	}
	if body.MarketData != nil {
		d.Price = body.MarketData.CurrentPrice[g.cfg.VsCurrency]
		d.AllTimeHigh = body.MarketData.ATH[g.cfg.VsCurrency]
	}
	return d, nil
}

// get performs one rate-limited GET and decodes the JSON body into out.
func (g *CoinGeckoMarket) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("coingecko rate limit: %w", err)
		}
	}

	u := fmt.Sprintf("%s/%s", strings.TrimRight(g.cfg.BaseURL, "/"), endpoint)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, g.cfg.APIKey)
	}

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("coingecko http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("coingecko decode %s: %w", endpoint, err)
	}
	return nil
}
