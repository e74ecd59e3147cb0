package usecase

// Phrase sets exposed to the external test package.
func GreetingPhrases() []string { return append([]string(nil), greetingPhrases...) }
func FallbackPhrases() []string { return append([]string(nil), fallbackPhrases...) }
func NoDataPhrases() []string   { return append([]string(nil), noDataPhrases...) }
