package nlp

// Classification is everything the dispatcher needs to know about one query.
type Classification struct {
	Intents   IntentSet `json:"intents"`
	Coins     []string  `json:"coins"`
	Numbers   []int     `json:"numbers"`
	Sentiment Sentiment `json:"sentiment"`
}

// Classifier runs intent detection, entity extraction and sentiment analysis.
type Classifier struct {
	sentiment *SentimentAnalyzer
}

// NewClassifier creates a Classifier. A nil analyzer scores with VADER.
func NewClassifier(analyzer *SentimentAnalyzer) *Classifier {
	if analyzer == nil {
		analyzer = NewSentimentAnalyzer(nil)
	}
	return &Classifier{sentiment: analyzer}
}

func (c *Classifier) Classify(text string) Classification {
	return Classification{
		Intents:   DetectIntent(text),
		Coins:     ExtractCryptocurrencies(text),
		Numbers:   ExtractNumbers(text),
		Sentiment: c.sentiment.Analyze(text),
	}
}
