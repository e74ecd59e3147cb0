// Package usecase implements lookup and filter queries over the static coin knowledge base.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"cryptobuddy/internal/feature/knowledge/domain"
	"cryptobuddy/internal/feature/knowledge/domain/entity"
)

// DefaultSustainabilityThreshold is the minimum score for a coin to count as sustainable.
const DefaultSustainabilityThreshold = 7

// CoinRepository abstracts where the coin table is read from.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CoinRepository interface {
	// ListAll returns every coin in table insertion order.
	ListAll(ctx context.Context) ([]entity.Coin, error)
}

// KnowledgeBase is a read-only, ordered view of the coin table.
// It is loaded once and is safe for concurrent readers.
type KnowledgeBase struct {
	coins []entity.Coin
	byID  map[string]int
}

// LoadKnowledgeBase reads all coins from repo and validates the table invariants.
func LoadKnowledgeBase(ctx context.Context, repo CoinRepository) (*KnowledgeBase, error) {
	coins, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return NewKnowledgeBase(coins)
}

// NewKnowledgeBase builds a knowledge base from coins, keeping their order.
func NewKnowledgeBase(coins []entity.Coin) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		coins: make([]entity.Coin, 0, len(coins)),
		byID:  make(map[string]int, len(coins)),
	}
	symbols := make(map[string]struct{}, len(coins))
	for _, c := range coins {
		id := strings.ToLower(c.ID)
		sym := strings.ToUpper(c.Symbol)
		if id == "" || sym == "" {
			return nil, fmt.Errorf("%w: id and symbol are required (%q/%q)", domain.ErrInvalidCoin, c.ID, c.Symbol)
		}
		if _, dup := kb.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidCoin, c.ID)
		}
		if _, dup := symbols[sym]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", domain.ErrInvalidCoin, c.Symbol)
		}
		if c.SustainabilityScore < 0 || c.SustainabilityScore > entity.MaxSustainabilityScore {
			return nil, fmt.Errorf("%w: %s sustainability score %d out of range", domain.ErrInvalidCoin, c.ID, c.SustainabilityScore)
		}
		if !c.EnergyUse.Valid() || !c.Risk.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown energy or risk tier", domain.ErrInvalidCoin, c.ID)
		}
		c.ID = id
		c.Symbol = sym
		kb.byID[id] = len(kb.coins)
		symbols[sym] = struct{}{}
		kb.coins = append(kb.coins, c)
	}
	return kb, nil
}

// LookupByName resolves name against the canonical keys first and then falls back
// to substring containment against key and display name, in table order.
//
// The fallback is order dependent: a short query contained in several names
// resolves to whichever coin was inserted first.
func (kb *KnowledgeBase) LookupByName(name string) (entity.Coin, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return entity.Coin{}, domain.ErrCoinNotFound
	}
	if i, ok := kb.byID[name]; ok {
		return kb.coins[i], nil
	}
	for _, c := range kb.coins {
		if strings.Contains(c.ID, name) || strings.Contains(strings.ToLower(c.Name), name) {
			return c, nil
		}
	}
	return entity.Coin{}, domain.ErrCoinNotFound
}

// LookupBySymbol finds the coin whose ticker equals symbol, ignoring case.
func (kb *KnowledgeBase) LookupBySymbol(symbol string) (entity.Coin, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, c := range kb.coins {
		if c.Symbol == symbol {
			return c, nil
		}
	}
	return entity.Coin{}, domain.ErrCoinNotFound
}

// Filter returns the coins accepted by keep, in table order.
func (kb *KnowledgeBase) Filter(keep func(entity.Coin) bool) []entity.Coin {
	var out []entity.Coin
	for _, c := range kb.coins {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Sustainable returns coins whose sustainability score is at least minScore.
func (kb *KnowledgeBase) Sustainable(minScore int) []entity.Coin {
	return kb.Filter(func(c entity.Coin) bool { return c.SustainabilityScore >= minScore })
}

// LowRisk returns coins classified with the low risk tier.
func (kb *KnowledgeBase) LowRisk() []entity.Coin {
	return kb.Filter(func(c entity.Coin) bool { return c.Risk == entity.RiskLow })
}

// LowEnergy returns coins in the very-low or low energy tiers.
func (kb *KnowledgeBase) LowEnergy() []entity.Coin {
	return kb.Filter(func(c entity.Coin) bool {
		return c.EnergyUse == entity.EnergyVeryLow || c.EnergyUse == entity.EnergyLow
	})
}

// All returns a copy of the whole table.
func (kb *KnowledgeBase) All() []entity.Coin {
	out := make([]entity.Coin, len(kb.coins))
	copy(out, kb.coins)
	return out
}

// Len returns the number of coins in the table.
func (kb *KnowledgeBase) Len() int { return len(kb.coins) }
