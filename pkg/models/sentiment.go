// Package models defines the core data structures used throughout marketmood.
package models

// Sentiment label constants derived from the compound score.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// SentimentScore holds the VADER 4-tuple for a piece of text.
// Compound is in [-1, 1]; Positive, Negative and Neutral are each in [0, 1].
// The components are not required to sum to 1 beyond what the lexicon
// naturally produces.
type SentimentScore struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`

	// Err carries a scoring failure description. Scoring failures are
	// recovered locally; callers receive the zero score plus this note.
	Err string `json:"error,omitempty"`
}

// ZeroSentiment returns the fixed fallback score used for empty or
// unanalyzable text: fully neutral, zero everything else.
func ZeroSentiment() SentimentScore {
	return SentimentScore{Compound: 0, Positive: 0, Negative: 0, Neutral: 1}
}

// NewsArticle is a validated, annotated news article ready for persistence.
type NewsArticle struct {
	Title       string         `json:"title" db:"headline"`
	PublishedAt string         `json:"published_at" db:"datetime"`
	Source      string         `json:"source" db:"source"`
	Description string         `json:"description" db:"summary"`
	URL         string         `json:"url" db:"url"`
	Symbols     []string       `json:"symbols,omitempty"`
	Sentiment   SentimentScore `json:"sentiment"`
}

// Tweet is one social post flattened out of a timeline query response.
// The identity fields default to empty strings when the source tree does
// not carry them.
type Tweet struct {
	TweetID        string         `json:"tweet_id"`
	UserScreenName string         `json:"user_screen_name"`
	UserName       string         `json:"user_name"`
	CreatedAt      string         `json:"created_at"`
	Text           string         `json:"text"`
	Sentiment      SentimentScore `json:"sentiment"`
}

// AnnotatedQuery groups scored tweets under the search query that
// produced them, preserving the query → posts association.
type AnnotatedQuery struct {
	Query  string  `json:"query"`
	Tweets []Tweet `json:"tweets_with_sentiment"`
}
