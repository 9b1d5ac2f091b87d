package dataprocessing

import (
	"strings"

	"retailpulse/pkg/contracts/domain"
)

// Lexicon is the immutable word list configuration for polarity counting.
// Passing it in explicitly keeps the scorer substitutable in tests.
type Lexicon struct {
	Positive []string
	Negative []string
}

// DefaultLexicon returns the fixed retail review lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{"good", "great", "excellent", "amazing", "love", "perfect", "wonderful"},
		Negative: []string{"bad", "terrible", "awful", "hate", "worst", "horrible", "disappointing"},
	}
}

// SentimentScorer computes a lexicon-based polarity score over free-text
// review content. This is an approximate heuristic, not NLP sentiment:
// matching is case-insensitive substring containment, so "badly" counts
// toward "bad".
type SentimentScorer struct {
	lexicon Lexicon
}

// NewSentimentScorer creates a scorer with the given lexicon
func NewSentimentScorer(lexicon Lexicon) *SentimentScorer {
	return &SentimentScorer{lexicon: lexicon}
}

// Score returns a value in [-1, 1]. Each review contributes the count of
// distinct positive lexicon matches minus distinct negative matches; the
// accumulated delta is divided by the review count and clamped. An empty
// review set scores 0.
func (s *SentimentScorer) Score(reviews []domain.ReviewRecord) float64 {
	if len(reviews) == 0 {
		return 0
	}

	var totalDelta float64
	for _, review := range reviews {
		text := strings.ToLower(review.Review)
		delta := 0
		for _, word := range s.lexicon.Positive {
			if strings.Contains(text, word) {
				delta++
			}
		}
		for _, word := range s.lexicon.Negative {
			if strings.Contains(text, word) {
				delta--
			}
		}
		totalDelta += float64(delta)
	}

	score := totalDelta / float64(len(reviews))
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
