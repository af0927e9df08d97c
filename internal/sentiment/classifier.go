package sentiment

import (
	"strings"
	"unicode"
)

// Classifier maps a piece of text to a polarity estimate in [-1, 1].
// Implementations are synchronous and stateless.
type Classifier interface {
	Polarity(text string) float64
}

// LexiconClassifier scores text against financial sentiment word lists
// (Loughran-McDonald style dictionaries).
type LexiconClassifier struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
}

var _ Classifier = (*LexiconClassifier)(nil)

// NewLexiconClassifier creates a classifier with the built-in word lists.
func NewLexiconClassifier() *LexiconClassifier {
	return &LexiconClassifier{
		positiveWords:    loadPositiveWords(),
		negativeWords:    loadNegativeWords(),
		uncertaintyWords: loadUncertaintyWords(),
	}
}

// Polarity estimates the sentiment of text. The net positive/negative word
// ratio is amplified, damped by hedging language, and clamped to [-1, 1].
func (lc *LexiconClassifier) Polarity(text string) float64 {
	words := tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var positive, negative, uncertain int
	for _, word := range words {
		if lc.positiveWords[word] {
			positive++
		}
		if lc.negativeWords[word] {
			negative++
		}
		if lc.uncertaintyWords[word] {
			uncertain++
		}
	}

	total := float64(len(words))
	net := (float64(positive) - float64(negative)) / total

	// Amplify the signal (typical sentiment-bearing words are a small
	// fraction of the text), then discount for uncertainty.
	score := net * 10
	uncertainty := clamp(float64(uncertain)/total*20, 0, 1)
	score *= 1.0 - uncertainty*0.5

	return clamp(score, -1.0, 1.0)
}

// tokenize splits text into words
func tokenize(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
