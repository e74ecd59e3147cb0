package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptobuddy/internal/feature/chat/domain/entity"
	"cryptobuddy/internal/feature/chat/nlp"
	"cryptobuddy/internal/feature/chat/usecase"
	"cryptobuddy/internal/feature/knowledge/adapters/seed"
	knowledge "cryptobuddy/internal/feature/knowledge/domain/entity"
	kbusecase "cryptobuddy/internal/feature/knowledge/usecase"
	market "cryptobuddy/internal/feature/market/domain/entity"
)

const errorPrefix = "I encountered an error processing your request: "

func fp(f float64) *float64 { return &f }
func ip(i int) *int         { return &i }

// mockMarketData is a func-field mock of usecase.MarketData that records requested ids.
type mockMarketData struct {
	mu         sync.Mutex
	priceCalls []string
	topCalls   []int

	FetchPriceFunc    func(ctx context.Context, coinID string) (market.MarketSnapshot, error)
	FetchTrendingFunc func(ctx context.Context) ([]market.TrendingCoin, error)
	FetchTopFunc      func(ctx context.Context, n int) ([]market.MarketEntry, error)
	FetchDetailsFunc  func(ctx context.Context, coinID string) (market.CoinDetails, error)
	lastRefresh       time.Time
	reachable         bool
	cacheSize         int
}

func (m *mockMarketData) FetchPrice(ctx context.Context, coinID string) (market.MarketSnapshot, error) {
	m.mu.Lock()
	m.priceCalls = append(m.priceCalls, coinID)
	m.mu.Unlock()
	if m.FetchPriceFunc == nil {
		return market.MarketSnapshot{}, market.ErrUnavailable
	}
	return m.FetchPriceFunc(ctx, coinID)
}

func (m *mockMarketData) FetchTrending(ctx context.Context) ([]market.TrendingCoin, error) {
	if m.FetchTrendingFunc == nil {
		return nil, market.ErrUnavailable
	}
	return m.FetchTrendingFunc(ctx)
}

func (m *mockMarketData) FetchTop(ctx context.Context, n int) ([]market.MarketEntry, error) {
	m.mu.Lock()
	m.topCalls = append(m.topCalls, n)
	m.mu.Unlock()
	if m.FetchTopFunc == nil {
		return nil, market.ErrUnavailable
	}
	return m.FetchTopFunc(ctx, n)
}

func (m *mockMarketData) FetchDetails(ctx context.Context, coinID string) (market.CoinDetails, error) {
	if m.FetchDetailsFunc == nil {
		return market.CoinDetails{}, market.ErrUnavailable
	}
	return m.FetchDetailsFunc(ctx, coinID)
}

func (m *mockMarketData) LastRefresh() (time.Time, bool) { return m.lastRefresh, !m.lastRefresh.IsZero() }
func (m *mockMarketData) ProviderReachable() bool        { return m.reachable }
func (m *mockMarketData) CacheSize(context.Context) int  { return m.cacheSize }

// failingKB fails every lookup with a non-not-found error.
type failingKB struct{ *kbusecase.KnowledgeBase }

func (failingKB) LookupByName(string) (knowledge.Coin, error) {
	return knowledge.Coin{}, errors.New("index corrupted")
}

// panickingClassifier simulates a bug deep in the pipeline.
type panickingClassifier struct{}

func (panickingClassifier) Classify(string) nlp.Classification { panic("classifier exploded") }

func seededKB(t *testing.T) *kbusecase.KnowledgeBase {
	t.Helper()
	coins, err := seed.Coins()
	require.NoError(t, err)
	kb, err := kbusecase.NewKnowledgeBase(coins)
	require.NoError(t, err)
	return kb
}

func livePrices() *mockMarketData {
	return &mockMarketData{
		FetchPriceFunc: func(ctx context.Context, coinID string) (market.MarketSnapshot, error) {
			return market.MarketSnapshot{CoinID: coinID, Price: fp(67000), Change24h: fp(1.25), MarketCap: fp(1.3e12)}, nil
		},
	}
}

func newDispatcher(t *testing.T, md *mockMarketData) *usecase.Dispatcher {
	t.Helper()
	return usecase.NewDispatcher(seededKB(t), md, nlp.NewClassifier(nil), usecase.WithRand(rand.New(rand.NewSource(1))))
}

// body strips the disclaimer after asserting it is present.
func body(t *testing.T, answer string) string {
	t.Helper()
	require.True(t, strings.HasSuffix(answer, usecase.Disclaimer), "answer must end with the disclaimer: %q", answer)
	return strings.TrimSuffix(answer, usecase.Disclaimer)
}

func TestRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		intents  nlp.IntentSet
		expected nlp.Intent
	}{
		{"general", nlp.IntentSet{nlp.IntentGeneral}, nlp.IntentGeneral},
		{"price beats advice", nlp.IntentSet{nlp.IntentPriceQuery, nlp.IntentAdvice}, nlp.IntentPriceQuery},
		{"comparison beats trending", nlp.IntentSet{nlp.IntentTrending, nlp.IntentComparison}, nlp.IntentComparison},
		{"low risk beats top coins", nlp.IntentSet{nlp.IntentTopCoins, nlp.IntentLowRisk}, nlp.IntentLowRisk},
		{"top coins beats advice", nlp.IntentSet{nlp.IntentAdvice, nlp.IntentTopCoins}, nlp.IntentTopCoins},
		{"sustainable beats low risk", nlp.IntentSet{nlp.IntentLowRisk, nlp.IntentSustainable}, nlp.IntentSustainable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, usecase.Route(tt.intents))
		})
	}
}

func TestProcess_AlwaysEndsWithDisclaimer(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, &mockMarketData{})
	inputs := []string{
		"",
		"   ",
		"hello",
		"What is the price of bitcoin?",
		"compare btc vs eth",
		"what's trending",
		"sustainable coins please",
		"low risk",
		"top 50 coins",
		"should I invest?",
		"tell me about tezos",
		"日本語のテキスト 🚀",
		strings.Repeat("bitcoin ", 500),
	}

	for _, in := range inputs {
		answer := d.Process(context.Background(), in)
		assert.NotEmpty(t, body(t, answer), "input %q", in)
	}
}

func TestProcess_PriceBeatsAdvice(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, livePrices())
	got := body(t, d.Process(context.Background(), "What is the price of bitcoin and should I invest"))

	assert.Contains(t, got, "₿ Bitcoin (BTC)")
	assert.Contains(t, got, "💰 Current Price: $67,000.00")
	assert.NotContains(t, got, "Investment Insights")
	// advice is still in the detected set, so the answer is annotated
	assert.Contains(t, got, "\n\n💡 Market Sentiment: ")
}

func TestProcess_Price(t *testing.T) {
	t.Parallel()

	t.Run("no coin asks for one", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, livePrices())
		got := body(t, d.Process(context.Background(), "what is the price of gold"))
		assert.Equal(t, "Please specify which cryptocurrency you'd like to know the price of!", got)
	})

	t.Run("renders live quote and absent fields", func(t *testing.T) {
		t.Parallel()
		md := &mockMarketData{
			FetchPriceFunc: func(ctx context.Context, coinID string) (market.MarketSnapshot, error) {
				return market.MarketSnapshot{CoinID: coinID, Price: fp(0.5)}, nil
			},
		}
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "what is the current price of MATIC"))

		assert.Equal(t, []string{"matic-network"}, md.priceCalls)
		assert.Contains(t, got, "⬢ Polygon (MATIC)")
		assert.Contains(t, got, "💰 Current Price: $0.5000")
		assert.Contains(t, got, "📈 24h Change: N/A")
		assert.Contains(t, got, "🏆 Market Cap: N/A")
		assert.Contains(t, got, "📅 Founded: 2017 by Jaynti Kanani")
		assert.NotContains(t, got, "Market Sentiment")
	})

	t.Run("unavailable provider is reported per coin", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "price of btc and eth"))
		assert.Contains(t, got, "❌ Sorry, I couldn't fetch current price data for Bitcoin.")
		assert.Contains(t, got, "❌ Sorry, I couldn't fetch current price data for Ethereum.")
	})
}

func TestProcess_Comparison(t *testing.T) {
	t.Parallel()

	t.Run("one coin asks for two", func(t *testing.T) {
		t.Parallel()
		md := livePrices()
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "Compare bitcoin and gold"))
		assert.True(t, strings.HasPrefix(got, "Please specify at least two cryptocurrencies to compare!"))
		assert.Empty(t, md.priceCalls)
	})

	t.Run("only the first three are compared", func(t *testing.T) {
		t.Parallel()
		md := livePrices()
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "Compare btc vs eth vs ada vs sol"))

		assert.Equal(t, []string{"bitcoin", "ethereum", "cardano"}, md.priceCalls)
		assert.Contains(t, got, "📊 Cryptocurrency Comparison")
		for _, want := range []string{"Bitcoin", "Ethereum", "Cardano", "Risk Level", "3/10", "8/10", "Medium"} {
			assert.Contains(t, got, want)
		}
		assert.NotContains(t, got, "Solana")
		assert.Contains(t, got, "💡 Market Sentiment: ")
	})

	t.Run("coins are compared in coin table order", func(t *testing.T) {
		t.Parallel()
		md := livePrices()
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "compare tezos, stellar, bitcoin and ethereum"))

		assert.Equal(t, []string{"bitcoin", "ethereum", "stellar"}, md.priceCalls)
		for _, want := range []string{"Bitcoin", "Ethereum", "Stellar"} {
			assert.Contains(t, got, want)
		}
		assert.NotContains(t, got, "Tezos")
	})

	t.Run("unavailable prices render as N/A", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "cardano versus solana"))
		assert.Contains(t, got, "Cardano")
		assert.Contains(t, got, "Solana")
		assert.Contains(t, got, "N/A")
	})
}

func TestProcess_Trending(t *testing.T) {
	t.Parallel()

	t.Run("shows at most seven with rank", func(t *testing.T) {
		t.Parallel()
		md := &mockMarketData{
			FetchTrendingFunc: func(ctx context.Context) ([]market.TrendingCoin, error) {
				out := make([]market.TrendingCoin, 9)
				for i := range out {
					out[i] = market.TrendingCoin{ID: fmt.Sprintf("c%d", i+1), Name: fmt.Sprintf("Coin%d", i+1), Symbol: "C", MarketCapRank: ip(10 + i)}
				}
				out[1].MarketCapRank = nil
				return out, nil
			},
		}
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "what's trending"))

		assert.Contains(t, got, "🔥 Trending Cryptocurrencies Right Now:")
		assert.Contains(t, got, "1. 🚀 Coin1 (C)\n   📊 Market Cap Rank: #10")
		assert.Contains(t, got, "2. 🚀 Coin2 (C)\n   📊 Market Cap Rank: #N/A")
		assert.Contains(t, got, "7. 🚀 Coin7")
		assert.NotContains(t, got, "Coin8")
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "trending"))
		assert.Equal(t, "❌ I couldn't fetch trending data right now. Please try again later.", got)
	})
}

func TestProcess_Sustainable(t *testing.T) {
	t.Parallel()

	md := livePrices()
	d := newDispatcher(t, md)
	got := body(t, d.Process(context.Background(), "show me sustainable options"))

	assert.Contains(t, got, "🌱 Most Sustainable Cryptocurrency Options:")
	for _, name := range []string{"Cardano", "Solana", "Polygon", "Algorand", "Chainlink", "Stellar", "Tezos"} {
		assert.Contains(t, got, name)
	}
	assert.NotContains(t, got, "Bitcoin")
	assert.Contains(t, got, "🔋 7 of 7 run in the low or very low energy tiers.")
	assert.Len(t, md.priceCalls, 7)
	assert.Contains(t, got, "💡 Market Sentiment: ")
}

func TestProcess_LowRisk(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, livePrices())
	got := body(t, d.Process(context.Background(), "which coins are low risk"))

	assert.Contains(t, got, "🛡️ Lower Risk Cryptocurrency Options:")
	assert.Contains(t, got, "Litecoin")
	assert.Contains(t, got, "$1.30T")
	assert.Contains(t, got, "2011")
	assert.Contains(t, got, "⚠️ Even 'low-risk' crypto investments can be volatile!")
}

func TestProcess_TopCoins(t *testing.T) {
	t.Parallel()

	entries := func(ctx context.Context, n int) ([]market.MarketEntry, error) {
		out := make([]market.MarketEntry, n)
		for i := range out {
			out[i] = market.MarketEntry{ID: "c", Name: fmt.Sprintf("Coin%d", i+1), Symbol: "btc", Price: fp(2), MarketCap: fp(3e9)}
		}
		return out, nil
	}

	tests := []struct {
		name    string
		input   string
		wantN   int
		wantHdr string
	}{
		{"number hint", "show the top 3 coins", 3, "🏆 Top 3 Cryptocurrencies by Market Cap:"},
		{"first number wins", "largest 4 of 10", 4, "🏆 Top 4 Cryptocurrencies by Market Cap:"},
		{"default five", "list the biggest coin", 5, "🏆 Top 5 Cryptocurrencies by Market Cap:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md := &mockMarketData{FetchTopFunc: entries}
			d := newDispatcher(t, md)
			got := body(t, d.Process(context.Background(), tt.input))

			assert.Equal(t, []int{tt.wantN}, md.topCalls)
			assert.Contains(t, got, tt.wantHdr)
			assert.Contains(t, got, "BTC")
			assert.Contains(t, got, "$3.00B")
		})
	}

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "top 10"))
		assert.Equal(t, "❌ I couldn't fetch the top cryptocurrencies right now. Please try again later.", got)
	})
}

func TestProcess_Advice(t *testing.T) {
	t.Parallel()

	t.Run("general principles with two sustainable picks", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "any advice?"))

		assert.Contains(t, got, "🎯 General Investment Principles:")
		assert.Contains(t, got, "5. 🌱 Consider Sustainability")
		assert.Contains(t, got, "• ₳ Cardano - ")
		assert.Contains(t, got, "• ◎ Solana - ")
		assert.NotContains(t, got, "Polygon")
	})

	momentumTests := []struct {
		name     string
		change   *float64
		expected string
	}{
		{"strong upward", fp(7.5), "📈 Strong upward momentum (+7.50%)"},
		{"downward", fp(-6), "📉 Experiencing downward pressure (-6.00%)"},
		{"stable", fp(-1.234), "📊 Relatively stable movement (-1.23%)"},
	}
	for _, tt := range momentumTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			md := &mockMarketData{
				FetchPriceFunc: func(ctx context.Context, coinID string) (market.MarketSnapshot, error) {
					return market.MarketSnapshot{CoinID: coinID, Price: fp(150), Change24h: tt.change}, nil
				},
			}
			d := newDispatcher(t, md)
			got := body(t, d.Process(context.Background(), "should I invest in solana"))

			assert.Contains(t, got, "◎ Solana Analysis:")
			assert.Contains(t, got, "🎯 Risk Level: High")
			assert.Contains(t, got, "⚡ Energy Usage: Low")
			assert.Contains(t, got, tt.expected)
		})
	}

	t.Run("absent change omits momentum", func(t *testing.T) {
		t.Parallel()
		md := &mockMarketData{
			FetchPriceFunc: func(ctx context.Context, coinID string) (market.MarketSnapshot, error) {
				return market.MarketSnapshot{CoinID: coinID, Price: fp(150)}, nil
			},
		}
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "should I invest in solana"))
		assert.NotContains(t, got, "momentum")
		assert.NotContains(t, got, "stable movement")
		assert.Contains(t, got, "📝 ")
	})
}

func TestProcess_General(t *testing.T) {
	t.Parallel()

	t.Run("greeting", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "Hey buddy"))
		assert.Contains(t, usecase.GreetingPhrases(), got)
	})

	t.Run("greeting words inside other words do not count", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "this is something"))
		assert.Contains(t, usecase.FallbackPhrases(), got)
	})

	t.Run("every fallback phrase is reachable", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		seen := map[string]bool{}
		for range 200 {
			seen[body(t, d.Process(context.Background(), "blah"))] = true
		}
		assert.Len(t, seen, len(usecase.FallbackPhrases()))
		for phrase := range seen {
			assert.Contains(t, usecase.FallbackPhrases(), phrase)
		}
	})

	t.Run("coin missing from the knowledge base", func(t *testing.T) {
		t.Parallel()
		coins, err := seed.Coins()
		require.NoError(t, err)
		var btcOnly []knowledge.Coin
		for _, c := range coins {
			if c.ID == "bitcoin" {
				btcOnly = append(btcOnly, c)
			}
		}
		kb, err := kbusecase.NewKnowledgeBase(btcOnly)
		require.NoError(t, err)
		d := usecase.NewDispatcher(kb, &mockMarketData{}, nlp.NewClassifier(nil), usecase.WithRand(rand.New(rand.NewSource(1))))

		got := body(t, d.Process(context.Background(), "tell me about tezos"))
		assert.Contains(t, usecase.NoDataPhrases(), got)
	})

	t.Run("coin overview with provider details", func(t *testing.T) {
		t.Parallel()
		md := &mockMarketData{
			FetchDetailsFunc: func(ctx context.Context, coinID string) (market.CoinDetails, error) {
				return market.CoinDetails{ID: coinID, MarketCapRank: ip(55), AllTimeHigh: fp(9.12)}, nil
			},
		}
		d := newDispatcher(t, md)
		got := body(t, d.Process(context.Background(), "tell me about tezos"))

		assert.Contains(t, got, "ꜩ Tezos (XTZ) Overview:")
		assert.Contains(t, got, "📅 Founded: 2018 by Arthur Breitman")
		assert.Contains(t, got, "🔧 Consensus: ")
		assert.Contains(t, got, "🏅 Market Cap Rank: #55")
		assert.Contains(t, got, "🚀 All-Time High: $9.12")
	})

	t.Run("coin overview without provider details", func(t *testing.T) {
		t.Parallel()
		d := newDispatcher(t, &mockMarketData{})
		got := body(t, d.Process(context.Background(), "tell me about tezos"))
		assert.Contains(t, got, "Tezos (XTZ) Overview:")
		assert.NotContains(t, got, "Market Cap Rank")
	})
}

func TestProcess_ErrorsAreRendered(t *testing.T) {
	t.Parallel()

	t.Run("handler error", func(t *testing.T) {
		t.Parallel()
		d := usecase.NewDispatcher(failingKB{seededKB(t)}, livePrices(), nlp.NewClassifier(nil))
		got := body(t, d.Process(context.Background(), "price of bitcoin"))
		assert.True(t, strings.HasPrefix(got, errorPrefix))
		assert.Contains(t, got, "index corrupted")
	})

	t.Run("panic", func(t *testing.T) {
		t.Parallel()
		d := usecase.NewDispatcher(seededKB(t), livePrices(), panickingClassifier{})
		got := body(t, d.Process(context.Background(), "anything"))
		assert.Equal(t, errorPrefix+"classifier exploded", got)
	})
}

func TestProcess_ConcurrentQueries(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, livePrices())
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := "hello"
			if i%2 == 0 {
				q = "price of eth"
			}
			assert.True(t, strings.HasSuffix(d.Process(context.Background(), q), usecase.Disclaimer))
		}()
	}
	wg.Wait()
}

func TestDispatcher_Status(t *testing.T) {
	t.Parallel()

	md := &mockMarketData{reachable: true, cacheSize: 4}
	d := newDispatcher(t, md)

	s := d.Status(context.Background())
	assert.Equal(t, entity.NeverRefreshed, s.LastRefreshText())
	assert.True(t, s.ProviderReachable)
	assert.Equal(t, 4, s.CacheEntries)
	assert.Equal(t, 10, s.KnowledgeBaseSize)

	md.lastRefresh = time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2025-03-01 09:30:00", d.Status(context.Background()).LastRefreshText())
}
