// Package usecase turns a free-text question into a formatted answer by routing
// the classified query to one handler per intent.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"cryptobuddy/internal/feature/chat/domain/entity"
	"cryptobuddy/internal/feature/chat/nlp"
	knowledge "cryptobuddy/internal/feature/knowledge/domain/entity"
	market "cryptobuddy/internal/feature/market/domain/entity"
)

const (
	// Disclaimer ends every answer.
	Disclaimer = "\n⚠️  Remember: Cryptocurrency investments are highly risky. Always do your own research!"

	errorPrefix = "I encountered an error processing your request: "

	defaultTopLimit      = 5
	maxComparedCoins     = 3
	maxTrendingShown     = 7
	sustainableThreshold = 7
)

// routeOrder decides which handler answers when several intents are detected.
var routeOrder = []nlp.Intent{
	nlp.IntentPriceQuery,
	nlp.IntentComparison,
	nlp.IntentTrending,
	nlp.IntentSustainable,
	nlp.IntentLowRisk,
	nlp.IntentTopCoins,
	nlp.IntentAdvice,
}

// annotatedIntents get a market sentiment line when any of them was detected.
var annotatedIntents = []nlp.Intent{
	nlp.IntentAdvice,
	nlp.IntentComparison,
	nlp.IntentSustainable,
	nlp.IntentLowRisk,
}

// KnowledgeBase is the read-only coin reference table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type KnowledgeBase interface {
	LookupByName(name string) (knowledge.Coin, error)
	Sustainable(minScore int) []knowledge.Coin
	LowRisk() []knowledge.Coin
	LowEnergy() []knowledge.Coin
	Len() int
}

// MarketData serves live market data. Any error means the data is unavailable.
type MarketData interface {
	FetchPrice(ctx context.Context, coinID string) (market.MarketSnapshot, error)
	FetchTrending(ctx context.Context) ([]market.TrendingCoin, error)
	FetchTop(ctx context.Context, n int) ([]market.MarketEntry, error)
	FetchDetails(ctx context.Context, coinID string) (market.CoinDetails, error)
	LastRefresh() (time.Time, bool)
	ProviderReachable() bool
	CacheSize(ctx context.Context) int
}

// Classifier turns raw text into intents, coin mentions, numbers and sentiment.
type Classifier interface {
	Classify(text string) nlp.Classification
}

// Dispatcher answers one query at a time; it is safe for concurrent use.
type Dispatcher struct {
	kb         KnowledgeBase
	market     MarketData
	classifier Classifier

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRand sets the source used to pick greeting, fallback and no-data phrases.
func WithRand(r *rand.Rand) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.rand = r
		}
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(kb KnowledgeBase, md MarketData, classifier Classifier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		kb:         kb,
		market:     md,
		classifier: classifier,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Route returns the intent whose handler answers a query with the given intents.
func Route(intents nlp.IntentSet) nlp.Intent {
	for _, i := range routeOrder {
		if intents.Has(i) {
			return i
		}
	}
	return nlp.IntentGeneral
}

// Process answers text. It always returns a non-empty answer ending with Disclaimer;
// handler errors and panics are rendered as an error message instead of propagating.
func (d *Dispatcher) Process(ctx context.Context, text string) (answer string) {
	log := slog.With("query_id", uuid.NewString())
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("query handler panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			answer = errorPrefix + fmt.Sprint(r) + Disclaimer
		}
	}()

	c := d.classifier.Classify(text)
	route := Route(c.Intents)

	body, err := d.handle(ctx, route, text, c)
	if err != nil {
		log.Warn("query failed", "route", route, "error", err)
		return errorPrefix + err.Error() + Disclaimer
	}

	if c.Intents.HasAny(annotatedIntents...) {
		body += "\n\n💡 Market Sentiment: " + nlp.ConfidenceLevel(c.Sentiment)
	}

	log.Debug("query answered",
		"intents", c.Intents.String(),
		"route", route,
		"coins", c.Coins,
		"elapsed", time.Since(start),
	)
	return body + Disclaimer
}

func (d *Dispatcher) handle(ctx context.Context, route nlp.Intent, text string, c nlp.Classification) (string, error) {
	switch route {
	case nlp.IntentPriceQuery:
		return d.handlePrice(ctx, c.Coins)
	case nlp.IntentComparison:
		return d.handleComparison(ctx, c.Coins)
	case nlp.IntentTrending:
		return d.handleTrending(ctx), nil
	case nlp.IntentSustainable:
		return d.handleSustainable(ctx), nil
	case nlp.IntentLowRisk:
		return d.handleLowRisk(ctx), nil
	case nlp.IntentTopCoins:
		n := defaultTopLimit
		if len(c.Numbers) > 0 {
			n = c.Numbers[0]
		}
		return d.handleTopCoins(ctx, n), nil
	case nlp.IntentAdvice:
		return d.handleAdvice(ctx, c.Coins)
	default:
		return d.handleGeneral(ctx, text, c.Coins)
	}
}

// Status reports cache, provider and knowledge base state.
func (d *Dispatcher) Status(ctx context.Context) entity.Status {
	last, _ := d.market.LastRefresh()
	return entity.Status{
		LastRefresh:       last,
		ProviderReachable: d.market.ProviderReachable(),
		CacheEntries:      d.market.CacheSize(ctx),
		KnowledgeBaseSize: d.kb.Len(),
	}
}

// pick returns a pseudo-random element of phrases.
func (d *Dispatcher) pick(phrases []string) string {
	d.randMu.Lock()
	defer d.randMu.Unlock()
	return phrases[d.rand.Intn(len(phrases))]
}
