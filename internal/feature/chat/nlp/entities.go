package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

// coinPatterns recognise full names and tickers of the coins in the knowledge base.
var coinPatterns = compileAll(
	`\bbitcoin\b`, `\bbtc\b`,
	`\bethereum\b`, `\beth\b`,
	`\bcardano\b`, `\bada\b`,
	`\bsolana\b`, `\bsol\b`,
	`\bpolygon\b`, `\bmatic\b`,
	`\balgorand\b`, `\balgo\b`,
	`\bchainlink\b`, `\blink\b`,
	`\blitecoin\b`, `\bltc\b`,
	`\bstellar\b`, `\bxlm\b`,
	`\btezos\b`, `\bxtz\b`,
)

var numberPattern = regexp.MustCompile(`\b\d+\b`)

// aliases maps tickers to knowledge base keys.
var aliases = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"ada":   "cardano",
	"sol":   "solana",
	"matic": "polygon",
	"algo":  "algorand",
	"link":  "chainlink",
	"ltc":   "litecoin",
	"xlm":   "stellar",
	"xtz":   "tezos",
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// ExtractCryptocurrencies returns the distinct coin tokens mentioned in text, lower-cased,
// in coin table order.
func ExtractCryptocurrencies(text string) []string {
	lower := strings.ToLower(text)
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, re := range coinPatterns {
		for _, m := range re.FindAllString(lower, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

// ExtractNumbers returns every standalone digit run in text, in order.
// Runs too large for an int are skipped.
func ExtractNumbers(text string) []int {
	var out []int
	for _, s := range numberPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(s)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// NormalizeCryptoName maps a ticker to its knowledge base key. Other tokens are
// returned lower-cased and trimmed for the fuzzy lookup to resolve.
func NormalizeCryptoName(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if key, ok := aliases[t]; ok {
		return key
	}
	return t
}
