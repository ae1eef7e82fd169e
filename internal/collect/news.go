package collect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NewsAPI fetches financial news for a set of symbols from a
// Marketaux-style JSON API. The response is returned as decoded,
// untrusted JSON in the {"data": [article, ...]} shape.
type NewsAPI struct {
	baseURL  string
	apiKey   string
	symbols  []string
	language string
	limit    int
	cache    *Cache
	limiter  *RateLimiter
	log      *zap.SugaredLogger
}

// NewNewsAPI creates a news collector. apiKey is required by the remote API.
func NewNewsAPI(apiKey string, symbols []string, language string, limit int, log *zap.SugaredLogger) (*NewsAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("news API key is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if language == "" {
		language = "en"
	}
	if limit <= 0 {
		limit = 10
	}
	return &NewsAPI{
		baseURL:  "https://api.marketaux.com/v1/news/all",
		apiKey:   apiKey,
		symbols:  symbols,
		language: language,
		limit:    limit,
		cache:    NewCache(10 * time.Minute),
		limiter:  NewRateLimiter(2, time.Second),
		log:      log,
	}, nil
}

// Fetch collects one page of news for the configured symbols.
func (n *NewsAPI) Fetch(ctx context.Context) (any, error) {
	cacheKey := fmt.Sprintf("news:%s:%d", strings.Join(n.symbols, ","), n.limit)
	if cached, ok := n.cache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("api_token", n.apiKey)
	params.Set("symbols", strings.Join(n.symbols, ","))
	params.Set("language", n.language)
	params.Set("limit", fmt.Sprintf("%d", n.limit))

	data, err := getJSON(ctx, n.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}

	if payload, ok := data.(map[string]any); ok {
		if articles, ok := payload["data"].([]any); ok {
			n.log.Infow("collected news articles", "count", len(articles))
		} else {
			n.log.Warnw("news response has no 'data' list")
		}
	}

	n.cache.Set(cacheKey, data)
	return data, nil
}
