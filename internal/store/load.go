package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/seenimoa/marketmood/internal/sentiment"
	"github.com/seenimoa/marketmood/pkg/models"
)

// Summary reports what a loader inserted and linked.
type Summary struct {
	Total  int `json:"total"`
	Linked int `json:"linked"`
}

// LoadStockData inserts validated stock history. The input is the raw
// symbol → date → OHLCV mapping; incomplete date records are skipped,
// mirroring the validator's partial-failure rules.
func (s *Store) LoadStockData(ctx context.Context, data any) (Summary, error) {
	var summary Summary

	bySymbol, ok := data.(map[string]any)
	if !ok {
		return summary, fmt.Errorf("stock data is not a symbol mapping")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, symbol := range sortedKeys(bySymbol) {
		series, ok := bySymbol[symbol].(map[string]any)
		if !ok {
			continue
		}
		for _, date := range sortedKeys(series) {
			point, ok := series[date].(map[string]any)
			if !ok {
				continue
			}
			bar, ok := barFrom(symbol, date, point)
			if !ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO stocks (symbol, date, open, high, low, close, volume)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				bar.Symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume); err != nil {
				return summary, fmt.Errorf("insert bar %s %s: %w", symbol, date, err)
			}
			summary.Total++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("commit: %w", err)
	}
	s.log.Infow("loaded stock data", "rows", summary.Total)
	return summary, nil
}

// LoadNews inserts annotated articles and links them to the tracked
// symbols named in each article's "symbols" list. Articles matching no
// tracked symbol are left unlinked unless LinkUnmatchedToAll is set.
func (s *Store) LoadNews(ctx context.Context, articles []any) (Summary, error) {
	var summary Summary

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, raw := range articles {
		article, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		title, _ := article["title"].(string)
		publishedAt, _ := article["published_at"].(string)
		source, _ := article["source"].(string)
		description, _ := article["description"].(string)
		url, _ := article["url"].(string)

		compound := compoundOf(article["sentiment"])
		label := sentiment.Label(compound)

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO news (source, datetime, headline, summary, url, sentiment_score, sentiment_label)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			source, publishedAt, title, description, url, compound, label)
		if err != nil {
			return summary, fmt.Errorf("insert news %q: %w", title, err)
		}

		newsID, err := rowID(ctx, tx, res,
			`SELECT id FROM news WHERE headline = ? AND datetime = ?`, title, publishedAt)
		if err != nil {
			s.log.Warnw("could not resolve news id", "title", title, "error", err)
			continue
		}
		summary.Total++

		symbols := matchedSymbols(articleSymbols(article), s.opts.TrackedSymbols)
		if len(symbols) == 0 && s.opts.LinkUnmatchedToAll {
			symbols = s.opts.TrackedSymbols
		}
		for _, symbol := range symbols {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO stock_news (symbol, news_id, sentiment_score) VALUES (?, ?, ?)`,
				symbol, newsID, compound); err != nil {
				return summary, fmt.Errorf("link news %d to %s: %w", newsID, symbol, err)
			}
			summary.Linked++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("commit: %w", err)
	}
	s.log.Infow("loaded news", "total", summary.Total, "linked", summary.Linked)
	return summary, nil
}

// LoadTweets inserts annotated social posts. Tweets are linked to a
// tracked symbol when their text mentions it as $SYM, #SYM, or the bare
// symbol.
func (s *Store) LoadTweets(ctx context.Context, queries []models.AnnotatedQuery) (Summary, error) {
	var summary Summary

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range queries {
		for _, tweet := range q.Tweets {
			label := sentiment.Label(tweet.Sentiment.Compound)

			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO tweets (tweet_id, user_name, user_screen_name, datetime, content, sentiment_score, sentiment_label)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				tweet.TweetID, tweet.UserName, tweet.UserScreenName, tweet.CreatedAt, tweet.Text,
				tweet.Sentiment.Compound, label)
			if err != nil {
				return summary, fmt.Errorf("insert tweet %s: %w", tweet.TweetID, err)
			}

			dbID, err := rowID(ctx, tx, res, `SELECT id FROM tweets WHERE tweet_id = ?`, tweet.TweetID)
			if err != nil {
				s.log.Warnw("could not resolve tweet id", "tweet_id", tweet.TweetID, "error", err)
				continue
			}
			summary.Total++

			for _, symbol := range mentionedSymbols(tweet.Text, s.opts.TrackedSymbols) {
				if _, err := tx.ExecContext(ctx,
					`INSERT OR IGNORE INTO stock_tweets (symbol, tweet_id, sentiment_score) VALUES (?, ?, ?)`,
					symbol, dbID, tweet.Sentiment.Compound); err != nil {
					return summary, fmt.Errorf("link tweet %d to %s: %w", dbID, symbol, err)
				}
				summary.Linked++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("commit: %w", err)
	}
	s.log.Infow("loaded tweets", "total", summary.Total, "linked", summary.Linked)
	return summary, nil
}

// --- helpers ---

// rowID returns the id of the row res inserted, falling back to the
// lookup query when the insert was ignored as a duplicate.
func rowID(ctx context.Context, tx *sqlx.Tx, res sql.Result, query string, args ...any) (int64, error) {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		if id, err := res.LastInsertId(); err == nil {
			return id, nil
		}
	}
	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, err
	}
	return id, nil
}

// barFrom builds a Bar from a raw point, requiring all five OHLCV fields.
func barFrom(symbol, date string, point map[string]any) (models.Bar, bool) {
	bar := models.Bar{Symbol: symbol, Date: date}
	fields := map[string]*float64{
		"Open": &bar.Open, "High": &bar.High, "Low": &bar.Low,
		"Close": &bar.Close, "Volume": &bar.Volume,
	}
	for name, dst := range fields {
		v, ok := toFloat(point[name])
		if !ok {
			return bar, false
		}
		*dst = v
	}
	return bar, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// compoundOf extracts the compound score from an attached sentiment,
// which is a typed score in-process or a plain map when re-loaded from a
// JSON file.
func compoundOf(v any) float64 {
	switch s := v.(type) {
	case models.SentimentScore:
		return s.Compound
	case map[string]any:
		if c, ok := s["compound"].(float64); ok {
			return c
		}
	}
	return 0
}

// articleSymbols reads the article's "symbols" list, tolerating both
// typed and decoded-JSON shapes.
func articleSymbols(article map[string]any) []string {
	switch v := article["symbols"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, raw := range v {
			if s, ok := raw.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func matchedSymbols(have, tracked []string) []string {
	var out []string
	for _, symbol := range tracked {
		for _, h := range have {
			if strings.EqualFold(h, symbol) {
				out = append(out, symbol)
				break
			}
		}
	}
	return out
}

// mentionedSymbols scans text for $SYM, #SYM or bare symbol mentions.
func mentionedSymbols(text string, tracked []string) []string {
	var out []string
	for _, symbol := range tracked {
		if strings.Contains(text, "$"+symbol) ||
			strings.Contains(text, "#"+symbol) ||
			strings.Contains(text, symbol) {
			out = append(out, symbol)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
