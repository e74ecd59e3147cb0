package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cryptobuddy/internal/feature/chat/nlp"
	kbdomain "cryptobuddy/internal/feature/knowledge/domain"
	knowledge "cryptobuddy/internal/feature/knowledge/domain/entity"
	market "cryptobuddy/internal/feature/market/domain/entity"
	marketfmt "cryptobuddy/internal/feature/market/usecase"
)

var greetingPattern = regexp.MustCompile(`(?i)\b(hello|hi|hey|greetings)\b`)

// resolve maps a mentioned token to its knowledge base record. ok is false when the coin is unknown.
func (d *Dispatcher) resolve(token string) (coin knowledge.Coin, ok bool, err error) {
	coin, err = d.kb.LookupByName(nlp.NormalizeCryptoName(token))
	if errors.Is(err, kbdomain.ErrCoinNotFound) {
		return coin, false, nil
	}
	if err != nil {
		return coin, false, fmt.Errorf("lookup %q: %w", token, err)
	}
	return coin, true, nil
}

// price fetches the live quote of coin. ok is false when market data is unavailable;
// the returned snapshot then has every field absent.
func (d *Dispatcher) price(ctx context.Context, coin knowledge.Coin) (market.MarketSnapshot, bool) {
	snap, err := d.market.FetchPrice(ctx, coin.ProviderID)
	if err != nil {
		return market.MarketSnapshot{CoinID: coin.ProviderID}, false
	}
	return snap, true
}

func (d *Dispatcher) handlePrice(ctx context.Context, coins []string) (string, error) {
	if len(coins) == 0 {
		return "Please specify which cryptocurrency you'd like to know the price of!", nil
	}

	parts := make([]string, 0, len(coins))
	for _, token := range coins {
		coin, ok, err := d.resolve(token)
		if err != nil {
			return "", err
		}
		if !ok {
			parts = append(parts, fmt.Sprintf("❌ I don't have information about '%s' in my database.", token))
			continue
		}
		snap, ok := d.price(ctx, coin)
		if !ok {
			parts = append(parts, fmt.Sprintf("❌ Sorry, I couldn't fetch current price data for %s.", coin.Name))
			continue
		}
		parts = append(parts, fmt.Sprintf(
			"%s %s (%s)\n💰 Current Price: %s\n📈 24h Change: %s\n🏆 Market Cap: %s\n📅 Founded: %d by %s",
			coin.Icon, coin.Name, coin.Symbol,
			marketfmt.FormatPrice(snap.Price),
			marketfmt.FormatChange(snap.Change24h),
			marketfmt.FormatMarketCap(snap.MarketCap),
			coin.LaunchYear, coin.Founder,
		))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (d *Dispatcher) handleComparison(ctx context.Context, coins []string) (string, error) {
	if len(coins) < 2 {
		return "Please specify at least two cryptocurrencies to compare!", nil
	}
	if len(coins) > maxComparedCoins {
		coins = coins[:maxComparedCoins]
	}

	var rows [][]string
	for _, token := range coins {
		coin, ok, err := d.resolve(token)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		snap, _ := d.price(ctx, coin)
		rows = append(rows, []string{
			coin.Icon + " " + coin.Name,
			coin.Symbol,
			marketfmt.FormatPrice(snap.Price),
			marketfmt.FormatChange(snap.Change24h),
			coin.EnergyUse.Title(),
			score(coin),
			coin.Risk.Title(),
		})
	}
	if len(rows) == 0 {
		return "I couldn't find data for the cryptocurrencies you mentioned.", nil
	}

	headers := []string{"Cryptocurrency", "Symbol", "Price", "24h Change", "Energy Use", "Sustainability", "Risk Level"}
	return "📊 Cryptocurrency Comparison\n" + renderTable(headers, rows), nil
}

func (d *Dispatcher) handleTrending(ctx context.Context) string {
	trending, err := d.market.FetchTrending(ctx)
	if err != nil || len(trending) == 0 {
		return "❌ I couldn't fetch trending data right now. Please try again later."
	}
	if len(trending) > maxTrendingShown {
		trending = trending[:maxTrendingShown]
	}

	var b strings.Builder
	b.WriteString("🔥 Trending Cryptocurrencies Right Now:\n")
	for i, c := range trending {
		rank := marketfmt.NotAvailable
		if c.MarketCapRank != nil {
			rank = strconv.Itoa(*c.MarketCapRank)
		}
		fmt.Fprintf(&b, "\n%d. 🚀 %s (%s)\n   📊 Market Cap Rank: #%s\n", i+1, c.Name, c.Symbol, rank)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) handleSustainable(ctx context.Context) string {
	coins := d.kb.Sustainable(sustainableThreshold)
	if len(coins) == 0 {
		return "I don't have any cryptocurrencies with high sustainability scores in my database."
	}

	lowEnergy := make(map[string]struct{})
	for _, c := range d.kb.LowEnergy() {
		lowEnergy[c.ID] = struct{}{}
	}

	rows := make([][]string, 0, len(coins))
	efficient := 0
	for _, coin := range coins {
		if _, ok := lowEnergy[coin.ID]; ok {
			efficient++
		}
		snap, _ := d.price(ctx, coin)
		rows = append(rows, []string{
			coin.Icon + " " + coin.Name,
			coin.Symbol,
			marketfmt.FormatPrice(snap.Price),
			coin.EnergyUse.Title(),
			score(coin),
			coin.Consensus,
		})
	}

	headers := []string{"Cryptocurrency", "Symbol", "Price", "Energy Use", "Sustainability", "Consensus"}
	return fmt.Sprintf("🌱 Most Sustainable Cryptocurrency Options:\n%s\n\n🔋 %d of %d run in the low or very low energy tiers.\n💡 These cryptocurrencies use energy-efficient consensus mechanisms!",
		renderTable(headers, rows), efficient, len(coins))
}

func (d *Dispatcher) handleLowRisk(ctx context.Context) string {
	coins := d.kb.LowRisk()
	if len(coins) == 0 {
		return "Based on my analysis, I don't have any cryptocurrencies classified as low-risk. Remember, all crypto investments carry significant risk!"
	}

	rows := make([][]string, 0, len(coins))
	for _, coin := range coins {
		snap, _ := d.price(ctx, coin)
		rows = append(rows, []string{
			coin.Icon + " " + coin.Name,
			coin.Symbol,
			marketfmt.FormatPrice(snap.Price),
			marketfmt.FormatMarketCap(snap.MarketCap),
			coin.Risk.Title(),
			strconv.Itoa(coin.LaunchYear),
		})
	}

	headers := []string{"Cryptocurrency", "Symbol", "Price", "Market Cap", "Risk Level", "Est. Year"}
	return "🛡️ Lower Risk Cryptocurrency Options:\n" + renderTable(headers, rows) +
		"\n\n⚠️ Even 'low-risk' crypto investments can be volatile!"
}

func (d *Dispatcher) handleTopCoins(ctx context.Context, n int) string {
	entries, err := d.market.FetchTop(ctx, n)
	if err != nil || len(entries) == 0 {
		return "❌ I couldn't fetch the top cryptocurrencies right now. Please try again later."
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Name,
			strings.ToUpper(e.Symbol),
			marketfmt.FormatPrice(e.Price),
			marketfmt.FormatChange(e.Change24h),
			marketfmt.FormatMarketCap(e.MarketCap),
		})
	}

	headers := []string{"Rank", "Name", "Symbol", "Price", "24h Change", "Market Cap"}
	return fmt.Sprintf("🏆 Top %d Cryptocurrencies by Market Cap:\n%s", len(entries), renderTable(headers, rows))
}

func (d *Dispatcher) handleAdvice(ctx context.Context, coins []string) (string, error) {
	var b strings.Builder
	b.WriteString("💡 CryptoBuddy Pro Investment Insights:\n\n")

	if len(coins) == 0 {
		b.WriteString(generalPrinciples)
		if picks := d.kb.Sustainable(sustainableThreshold); len(picks) > 0 {
			b.WriteString("\n\n🌿 Sustainable Options to Consider:")
			for _, c := range picks[:min(2, len(picks))] {
				fmt.Fprintf(&b, "\n• %s %s - %s", c.Icon, c.Name, c.Description)
			}
		}
		return b.String(), nil
	}

	analysed := 0
	for _, token := range coins {
		coin, ok, err := d.resolve(token)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if analysed > 0 {
			b.WriteString("\n\n")
		}
		analysed++

		fmt.Fprintf(&b, "%s %s Analysis:\n", coin.Icon, coin.Name)
		fmt.Fprintf(&b, "🎯 Risk Level: %s\n", coin.Risk.Title())
		fmt.Fprintf(&b, "🌱 Sustainability Score: %s\n", score(coin))
		fmt.Fprintf(&b, "⚡ Energy Usage: %s\n", coin.EnergyUse.Title())
		if snap, ok := d.price(ctx, coin); ok && snap.Change24h != nil {
			b.WriteString(momentum(*snap.Change24h) + "\n")
		}
		fmt.Fprintf(&b, "📝 %s", coin.Description)
	}
	if analysed == 0 {
		b.WriteString(d.pick(noDataPhrases))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (d *Dispatcher) handleGeneral(ctx context.Context, text string, coins []string) (string, error) {
	if greetingPattern.MatchString(text) {
		return d.pick(greetingPhrases), nil
	}
	if len(coins) == 0 {
		return d.pick(fallbackPhrases), nil
	}

	var parts []string
	for _, token := range coins {
		coin, ok, err := d.resolve(token)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		parts = append(parts, d.overview(ctx, coin))
	}
	if len(parts) == 0 {
		return d.pick(noDataPhrases), nil
	}
	return strings.Join(parts, "\n\n"), nil
}

// overview renders the reference card of coin, enriched with provider details when available.
func (d *Dispatcher) overview(ctx context.Context, coin knowledge.Coin) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s) Overview:\n", coin.Icon, coin.Name, coin.Symbol)
	fmt.Fprintf(&b, "📅 Founded: %d by %s\n", coin.LaunchYear, coin.Founder)
	fmt.Fprintf(&b, "📝 %s\n", coin.Description)
	fmt.Fprintf(&b, "🔧 Consensus: %s\n", coin.Consensus)
	fmt.Fprintf(&b, "🌱 Sustainability: %s", score(coin))

	if details, err := d.market.FetchDetails(ctx, coin.ProviderID); err == nil {
		if details.MarketCapRank != nil {
			fmt.Fprintf(&b, "\n🏅 Market Cap Rank: #%d", *details.MarketCapRank)
		}
		if details.AllTimeHigh != nil {
			fmt.Fprintf(&b, "\n🚀 All-Time High: %s", marketfmt.FormatPrice(details.AllTimeHigh))
		}
	}
	return b.String()
}

// momentum classifies a 24h percentage change.
func momentum(change float64) string {
	switch {
	case change > 5:
		return fmt.Sprintf("📈 Strong upward momentum (+%.2f%%)", change)
	case change < -5:
		return fmt.Sprintf("📉 Experiencing downward pressure (%.2f%%)", change)
	default:
		return fmt.Sprintf("📊 Relatively stable movement (%.2f%%)", change)
	}
}

func score(c knowledge.Coin) string {
	return fmt.Sprintf("%d/%d", c.SustainabilityScore, knowledge.MaxSustainabilityScore)
}
