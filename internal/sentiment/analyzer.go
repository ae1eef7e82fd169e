// Package sentiment scores text with the VADER lexicon and annotates
// validated collections with the resulting 4-tuple scores. VADER is
// valence-based and needs no training data, which keeps scoring
// deterministic across runs.
package sentiment

import (
	"fmt"
	"strings"

	"github.com/jonreiter/govader"
	"go.uber.org/zap"

	"github.com/seenimoa/marketmood/pkg/models"
)

// Compound-score thresholds for the categorical label. Fixed design
// constants, kept named so they can be tuned without touching scoring.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Analyzer wraps a VADER sentiment intensity analyzer. The lexicon is
// loaded once at construction and read-only afterwards, so a single
// Analyzer is safe to reuse for the life of the process.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
	log   *zap.SugaredLogger
}

// New builds an Analyzer. A nil logger disables diagnostics.
func New(log *zap.SugaredLogger) *Analyzer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Analyzer{
		vader: govader.NewSentimentIntensityAnalyzer(),
		log:   log,
	}
}

// ScoreText scores a single piece of text. Empty or whitespace-only input
// yields the fixed fallback score without touching the lexicon; a scoring
// failure is recovered locally and reported through the score's Err field.
// Scoring never aborts a batch, so this function does not return an error.
func (a *Analyzer) ScoreText(text string) (score models.SentimentScore) {
	if strings.TrimSpace(text) == "" {
		a.log.Debugw("input text is missing, returning fallback score")
		return models.ZeroSentiment()
	}

	defer func() {
		if r := recover(); r != nil {
			a.log.Errorw("sentiment scoring failed", "text", truncate(text, 50), "panic", r)
			score = models.ZeroSentiment()
			score.Err = fmt.Sprintf("sentiment scoring failed: %v", r)
		}
	}()

	polarity := a.vader.PolarityScores(text)
	return models.SentimentScore{
		Compound: polarity.Compound,
		Positive: polarity.Positive,
		Negative: polarity.Negative,
		Neutral:  polarity.Neutral,
	}
}

// Label maps a compound score to its categorical label.
func Label(compound float64) string {
	switch {
	case compound >= PositiveThreshold:
		return models.LabelPositive
	case compound <= NegativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
