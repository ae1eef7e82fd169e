package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/marketmood/pkg/utils"
)

// StockAPI fetches historical daily bars from the Yahoo Finance chart API
// and reshapes them into the symbol → date → OHLCV mapping the stock
// validator expects.
type StockAPI struct {
	baseURL string
	rng     string
	cache   *Cache
	limiter *RateLimiter
	log     *zap.SugaredLogger
}

// NewStockAPI creates a stock history collector. rng is a Yahoo-style
// range such as "5y" or "6mo".
func NewStockAPI(rng string, log *zap.SugaredLogger) *StockAPI {
	if rng == "" {
		rng = "5y"
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &StockAPI{
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
		rng:     rng,
		cache:   NewCache(15 * time.Minute),
		limiter: NewRateLimiter(5, time.Second),
		log:     log,
	}
}

// --- Yahoo chart API types ---

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// History fetches daily bars for one symbol as a date → OHLCV mapping.
// Days with incomplete quotes are emitted with whatever fields the API
// carried; the validator decides what survives.
func (s *StockAPI) History(ctx context.Context, symbol string) (map[string]any, error) {
	cacheKey := "hist:" + symbol + ":" + s.rng
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(map[string]any), nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?range=%s&interval=1d", s.baseURL, symbol, s.rng)
	body, err := doGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp chartResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart %s: %w", symbol, ErrNoData)
	}

	series := reshapeChart(resp.Chart.Result[0])
	s.cache.Set(cacheKey, series)
	s.log.Infow("collected stock history", "symbol", symbol, "days", len(series))
	return series, nil
}

// HistoryAll fans out History across symbols concurrently and returns the
// combined symbol → series mapping. Symbols that fail are dropped with a
// warning rather than failing the whole collection.
func (s *StockAPI) HistoryAll(ctx context.Context, symbols []string) (map[string]any, error) {
	results := make([]map[string]any, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, symbol := range symbols {
		g.Go(func() error {
			series, err := s.History(gctx, symbol)
			if err != nil {
				s.log.Warnw("stock history failed", "symbol", symbol, "error", err)
				return nil
			}
			results[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make(map[string]any, len(symbols))
	for i, symbol := range symbols {
		if results[i] != nil {
			combined[symbol] = results[i]
		}
	}
	if len(combined) == 0 {
		return nil, ErrNoData
	}
	return combined, nil
}

// reshapeChart converts parallel timestamp/quote arrays into the
// date-keyed record shape. Nil quote slots simply leave that field out of
// the day's record.
func reshapeChart(result chartResult) map[string]any {
	series := make(map[string]any, len(result.Timestamp))
	if len(result.Indicators.Quote) == 0 {
		return series
	}
	quote := result.Indicators.Quote[0]

	for i, ts := range result.Timestamp {
		date := utils.DayKey(time.Unix(ts, 0).UTC())
		point := map[string]any{}
		if v := at(quote.Open, i); v != nil {
			point["Open"] = *v
		}
		if v := at(quote.High, i); v != nil {
			point["High"] = *v
		}
		if v := at(quote.Low, i); v != nil {
			point["Low"] = *v
		}
		if v := at(quote.Close, i); v != nil {
			point["Close"] = *v
		}
		if v := atInt(quote.Volume, i); v != nil {
			point["Volume"] = float64(*v)
		}
		series[date] = point
	}
	return series
}

func at(s []*float64, i int) *float64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func atInt(s []*int64, i int) *int64 {
	if i < len(s) {
		return s[i]
	}
	return nil
}
