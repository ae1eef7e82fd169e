package collect

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/seenimoa/marketmood/pkg/utils"
)

// FeedSource is one RSS feed to pull market headlines from.
type FeedSource struct {
	Name string
	URL  string
}

// DefaultFeedSources lists free market-news RSS feeds used when no API
// key is configured.
var DefaultFeedSources = []FeedSource{
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
	{Name: "CNBC Markets", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html"},
	{Name: "MarketWatch", URL: "https://feeds.content.dowjones.io/public/rss/mw_topstories"},
}

// RSSNews collects market headlines from RSS feeds and emits them as raw
// article maps in the same lower_snake_case shape the news API produces,
// so the same validator covers both paths.
type RSSNews struct {
	sources []FeedSource
	parser  *gofeed.Parser
	cache   *Cache
	limiter *RateLimiter
	log     *zap.SugaredLogger
}

// NewRSSNews creates an RSS collector over the given sources, or the
// defaults when none are given.
func NewRSSNews(sources []FeedSource, log *zap.SugaredLogger) *RSSNews {
	if len(sources) == 0 {
		sources = DefaultFeedSources
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RSSNews{
		sources: sources,
		parser:  gofeed.NewParser(),
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second),
		log:     log,
	}
}

// Fetch pulls every configured feed and returns the combined article list
// wrapped in the {"data": [...]} envelope. Failed feeds are skipped.
func (r *RSSNews) Fetch(ctx context.Context) (any, error) {
	if cached, ok := r.cache.Get("rss"); ok {
		return cached, nil
	}

	var articles []any
	for _, src := range r.sources {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		feed, err := r.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			r.log.Warnw("feed failed", "source", src.Name, "error", err)
			continue
		}
		for _, item := range feed.Items {
			articles = append(articles, feedArticle(src.Name, item))
		}
	}

	data := map[string]any{"data": articles}
	r.cache.Set("rss", data)
	r.log.Infow("collected RSS articles", "count", len(articles))
	return data, nil
}

// feedArticle converts one feed item into a raw article map.
func feedArticle(source string, item *gofeed.Item) map[string]any {
	article := map[string]any{
		"title":       item.Title,
		"description": stripHTML(item.Description),
		"url":         item.Link,
		"source":      source,
	}
	if item.PublishedParsed != nil {
		article["published_at"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else if item.Published != "" {
		if t, err := utils.ParseNewsTime(item.Published); err == nil {
			article["published_at"] = t.UTC().Format(time.RFC3339)
		} else {
			article["published_at"] = item.Published
		}
	}
	return article
}

// stripHTML removes markup from feed descriptions using goquery.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
