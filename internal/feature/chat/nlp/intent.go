// Package nlp classifies free-text crypto questions: intents, coin mentions,
// numeric hints and sentiment. It is rule based and has no model files.
package nlp

import (
	"regexp"
	"strings"
)

// Intent is a coarse category of user request.
type Intent string

const (
	IntentPriceQuery  Intent = "price_query"
	IntentComparison  Intent = "comparison"
	IntentTrending    Intent = "trending"
	IntentSustainable Intent = "sustainable"
	IntentLowRisk     Intent = "low_risk"
	IntentAdvice      Intent = "advice"
	IntentTopCoins    Intent = "top_coins"
	// IntentGeneral is the sentinel returned when no other intent matches.
	IntentGeneral Intent = "general_query"
)

// IntentSet holds the detected intents in rule-table order. It is never empty.
type IntentSet []Intent

// Has reports whether i was detected.
func (s IntentSet) Has(i Intent) bool {
	for _, x := range s {
		if x == i {
			return true
		}
	}
	return false
}

// HasAny reports whether any of intents was detected.
func (s IntentSet) HasAny(intents ...Intent) bool {
	for _, i := range intents {
		if s.Has(i) {
			return true
		}
	}
	return false
}

func (s IntentSet) String() string {
	parts := make([]string, len(s))
	for i, x := range s {
		parts[i] = string(x)
	}
	return strings.Join(parts, ",")
}

// intentRule pairs an intent with its matcher. Matchers receive lower-cased text.
type intentRule struct {
	intent Intent
	match  func(lower string) bool
}

// anyPattern returns a matcher that succeeds on the first matching pattern.
func anyPattern(patterns ...string) func(string) bool {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return func(s string) bool {
		for _, re := range res {
			if re.MatchString(s) {
				return true
			}
		}
		return false
	}
}

// intentRules are tested independently; several intents may fire for one input.
var intentRules = []intentRule{
	{IntentPriceQuery, anyPattern(
		`\b(price|cost|value|worth)\b.*\b(of|for)\b`,
		`\bhow much\b.*\bcost\b`,
		`\bwhat.*price\b`,
		`\bcurrent.*price\b`,
	)},
	{IntentComparison, anyPattern(
		`\bcompare\b.*\bvs?\b`,
		`\bcompare\b.*\band\b`,
		`\bdifference.*between\b`,
		`\bwhich.*better\b`,
		`\b(vs|versus)\b`,
	)},
	{IntentTrending, anyPattern(
		`\btrending\b`,
		`\bhot\b.*\bcoin\b`,
		`\bpopular\b.*\bcrypto\b`,
		`\bwhat.*rising\b`,
		`\btop.*coin\b`,
	)},
	{IntentSustainable, anyPattern(
		`\bsustainable\b`,
		`\bgreen\b.*\bcrypto\b`,
		`\beco.?friendly\b`,
		`\benvironmental\b`,
		`\blow.*energy\b`,
	)},
	{IntentLowRisk, anyPattern(
		`\blow.?risk\b`,
		`\bsafe\b.*\binvestment\b`,
		`\bstable\b.*\bcoin\b`,
		`\bconservative\b`,
		`\bsecure\b.*\boption\b`,
	)},
	{IntentAdvice, anyPattern(
		`\bshould.*invest\b`,
		`\brecommend\b`,
		`\badvice\b`,
		`\bsuggest\b`,
		`\bbest.*buy\b`,
	)},
	{IntentTopCoins, anyPattern(
		`\btop\b.*\d+`,
		`\bbest\b.*\d+`,
		`\blargest\b.*\d+`,
		`\blist.*coin\b`,
	)},
}

// DetectIntent returns every intent whose rule matches text, or {general_query} when none does.
func DetectIntent(text string) IntentSet {
	lower := strings.ToLower(text)
	var out IntentSet
	for _, r := range intentRules {
		if r.match(lower) {
			out = append(out, r.intent)
		}
	}
	if len(out) == 0 {
		return IntentSet{IntentGeneral}
	}
	return out
}
