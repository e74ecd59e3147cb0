package nlp

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

// Label is the polarity of a piece of text.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// polarityThreshold is the compound score at which text stops being neutral.
const polarityThreshold = 0.05

// Sentiment is a polarity label with a confidence in [0, 1].
type Sentiment struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Scorer computes a compound polarity score in [-1, 1].
type Scorer interface {
	Score(text string) (float64, error)
}

// SentimentAnalyzer labels text using a Scorer. It never fails.
type SentimentAnalyzer struct {
	scorer Scorer
}

// NewSentimentAnalyzer creates an analyzer. A nil scorer uses VADER.
func NewSentimentAnalyzer(scorer Scorer) *SentimentAnalyzer {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &SentimentAnalyzer{scorer: scorer}
}

// Analyze labels text. A failing or panicking scorer yields neutral with zero confidence.
func (a *SentimentAnalyzer) Analyze(text string) (s Sentiment) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("sentiment scorer panicked", "panic", fmt.Sprint(r))
			s = Sentiment{Label: Neutral}
		}
	}()

	score, err := a.scorer.Score(text)
	if err != nil || math.IsNaN(score) {
		slog.Warn("sentiment scorer failed", "error", err)
		return Sentiment{Label: Neutral}
	}
	score = math.Max(-1, math.Min(1, score))

	switch {
	case score >= polarityThreshold:
		return Sentiment{Label: Positive, Confidence: math.Abs(score)}
	case score <= -polarityThreshold:
		return Sentiment{Label: Negative, Confidence: math.Abs(score)}
	default:
		return Sentiment{Label: Neutral, Confidence: math.Abs(score)}
	}
}

// ConfidenceLevel turns a sentiment into the wording shown after advice-style answers.
func ConfidenceLevel(s Sentiment) string {
	switch {
	case s.Label == Positive && s.Confidence > 0.7:
		return "High Confidence 📈"
	case s.Label == Positive && s.Confidence > 0.3:
		return "Moderate Confidence 📊"
	case s.Label == Negative:
		return "Low Confidence 📉"
	default:
		return "Neutral 🔄"
	}
}

// vaderAnalyzer parses the embedded lexicon once; the analyzer is read-only afterwards.
var vaderAnalyzer = sync.OnceValue(govader.NewSentimentIntensityAnalyzer)

// VaderScorer scores text with the VADER lexicon and heuristics.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

var _ Scorer = (*VaderScorer)(nil)

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: vaderAnalyzer()}
}

// Score returns the VADER compound score of text. Blank text scores 0.
func (v *VaderScorer) Score(text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return v.sia.PolarityScores(text).Compound, nil
}
