// Package store persists validated, annotated records into SQLite. It is
// a sink: everything it receives has already passed through
// internal/validate, so loaders only skip, never reject whole batches.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Options controls how loaders link records to tracked symbols.
type Options struct {
	// TrackedSymbols is the set of symbols records get linked against.
	TrackedSymbols []string

	// LinkUnmatchedToAll links an article that matches no tracked symbol
	// to every tracked symbol instead of leaving it unlinked. Off by
	// default; broadening unmatched articles skews per-symbol sentiment.
	LinkUnmatchedToAll bool
}

// Store wraps the SQLite database holding prices, news and tweets.
type Store struct {
	db   *sqlx.DB
	opts Options
	log  *zap.SugaredLogger
}

// Open connects to the SQLite database at path, creating it if needed.
// Use ":memory:" for an ephemeral store.
func Open(path string, opts Options, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &Store{db: db, opts: opts, log: log}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stocks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		date TEXT NOT NULL,
		open REAL,
		high REAL,
		low REAL,
		close REAL,
		volume INTEGER,
		UNIQUE(symbol, date)
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT,
		datetime TEXT,
		headline TEXT,
		summary TEXT,
		url TEXT,
		sentiment_score REAL,
		sentiment_label TEXT,
		UNIQUE(headline, datetime)
	)`,
	`CREATE TABLE IF NOT EXISTS tweets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tweet_id TEXT UNIQUE,
		user_name TEXT,
		user_screen_name TEXT,
		datetime TEXT,
		content TEXT,
		sentiment_score REAL,
		sentiment_label TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS stock_news (
		symbol TEXT NOT NULL,
		news_id INTEGER NOT NULL,
		sentiment_score REAL,
		UNIQUE(symbol, news_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_tweets (
		symbol TEXT NOT NULL,
		tweet_id INTEGER NOT NULL,
		sentiment_score REAL,
		UNIQUE(symbol, tweet_id)
	)`,
}

// InitSchema creates all tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	s.log.Debugw("database schema ready")
	return nil
}

// DailyPoint is one row of the per-symbol modeling series: daily close
// and volume with the average news sentiment for that day.
type DailyPoint struct {
	Date      string  `db:"date"`
	Close     float64 `db:"close"`
	Volume    float64 `db:"volume"`
	Sentiment float64 `db:"sentiment"`
}

// DailySeries returns the modeling series for a symbol ordered by date.
func (s *Store) DailySeries(ctx context.Context, symbol string) ([]DailyPoint, error) {
	const query = `
		SELECT s.date AS date, s.close AS close, s.volume AS volume,
		       COALESCE((
		           SELECT AVG(n.sentiment_score)
		           FROM news n
		           JOIN stock_news l ON l.news_id = n.id
		           WHERE l.symbol = s.symbol
		             AND substr(n.datetime, 1, 10) = s.date
		       ), 0) AS sentiment
		FROM stocks s
		WHERE s.symbol = ?
		ORDER BY s.date`

	var points []DailyPoint
	if err := s.db.SelectContext(ctx, &points, query, symbol); err != nil {
		return nil, fmt.Errorf("daily series %s: %w", symbol, err)
	}
	return points, nil
}
