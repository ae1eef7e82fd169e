// Package validate checks raw, untrusted collections coming out of the
// collectors before anything downstream touches them. Validators never
// return Go errors and never panic on malformed input: every public
// operation produces a ValidationReport the orchestration layer inspects
// to decide whether to proceed, log, or abort.
package validate

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/seenimoa/marketmood/internal/timeline"
	"github.com/seenimoa/marketmood/pkg/models"
)

// Required lower_snake_case fields for a news article.
var requiredArticleFields = []string{"title", "published_at"}

// Validator validates news, social and stock collections.
type Validator struct {
	log       *zap.SugaredLogger
	extractor *timeline.Extractor
}

// New returns a Validator reporting diagnostics through log.
// A nil logger disables diagnostics.
func New(log *zap.SugaredLogger) *Validator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Validator{
		log:       log,
		extractor: timeline.New(log),
	}
}

// NewsData validates a news collection: either {"data": [article, ...]}
// or a bare list of articles. Articles missing title or published_at are
// excluded from the count; the collection only becomes invalid when a
// non-empty input yields zero valid articles.
func (v *Validator) NewsData(data any) models.ValidationReport {
	report := models.NewValidationReport()

	var articles []any
	switch d := data.(type) {
	case map[string]any:
		raw, ok := d["data"]
		if !ok {
			report.Fail("missing 'data' key in news data dictionary")
			return report
		}
		articles, ok = raw.([]any)
		if !ok {
			report.Fail(fmt.Sprintf("invalid articles type: %T, expected list", raw))
			return report
		}
	case []any:
		articles = d
	default:
		report.Fail(fmt.Sprintf("invalid news data type: %T, expected dict or list", data))
		return report
	}

	if len(articles) == 0 {
		report.AddWarning("news articles list is empty")
	}

	valid := 0
	for i, raw := range articles {
		article, ok := raw.(map[string]any)
		if !ok {
			report.AddError(fmt.Sprintf("article at index %d is not a dictionary", i))
			continue
		}
		if missing := missingFields(article, requiredArticleFields); len(missing) != 0 {
			report.AddError(fmt.Sprintf("article at index %d is missing required fields: %s", i, joinFields(missing)))
			continue
		}
		valid++
	}
	report.ArticleCount = valid

	if valid == 0 && len(articles) > 0 {
		report.Fail("no valid articles found")
	}

	v.log.Infow("validated news data",
		"valid", report.Valid, "article_count", report.ArticleCount, "errors", len(report.Errors))
	return report
}

// TwitterData validates a list of query-response bundles. A bundle counts
// only when it has both keys and its response tree yields at least one
// post through the timeline extractor.
func (v *Validator) TwitterData(data any) models.ValidationReport {
	report := models.NewValidationReport()

	responses, ok := data.([]any)
	if !ok {
		report.Fail(fmt.Sprintf("invalid twitter data type: %T, expected list", data))
		return report
	}

	if len(responses) == 0 {
		report.AddWarning("twitter data list is empty")
	}

	validQueries := 0
	totalTweets := 0
	for i, raw := range responses {
		bundle, ok := raw.(map[string]any)
		if !ok {
			report.AddError(fmt.Sprintf("query response at index %d is not a dictionary", i))
			continue
		}
		if _, ok := bundle["query"]; !ok {
			report.AddError(fmt.Sprintf("query response at index %d is missing 'query' field", i))
			continue
		}
		rawResponse, ok := bundle["response"]
		if !ok {
			report.AddError(fmt.Sprintf("query response at index %d is missing 'response' field", i))
			continue
		}
		query, _ := bundle["query"].(string)

		response, _ := rawResponse.(map[string]any)
		texts := v.extractor.Texts(response)
		if len(texts) == 0 {
			report.AddError(fmt.Sprintf("no tweets found in response for query '%s'", query))
			continue
		}

		validQueries++
		totalTweets += len(texts)
	}
	report.QueryCount = validQueries
	report.TweetCount = totalTweets

	if validQueries == 0 && len(responses) > 0 {
		report.Fail("no valid query responses found")
	}

	v.log.Infow("validated twitter data",
		"valid", report.Valid, "query_count", report.QueryCount, "tweet_count", report.TweetCount)
	return report
}

// StockData validates a symbol → date → OHLCV mapping. A date entry is
// valid only when all five fields are present; partial records are
// dropped, not corrected. A symbol counts only when at least one of its
// dates survives. Symbols and dates are visited in sorted order so
// reports are deterministic.
func (v *Validator) StockData(data any) models.ValidationReport {
	report := models.NewValidationReport()

	bySymbol, ok := data.(map[string]any)
	if !ok {
		report.Fail(fmt.Sprintf("invalid stock data type: %T, expected dict", data))
		return report
	}

	if len(bySymbol) == 0 {
		report.AddWarning("stock data dictionary is empty")
	}

	validSymbols := 0
	totalPoints := 0
	for _, symbol := range sortedKeys(bySymbol) {
		series, ok := bySymbol[symbol].(map[string]any)
		if !ok {
			report.AddError(fmt.Sprintf("data for symbol '%s' is not a dictionary", symbol))
			continue
		}
		if len(series) == 0 {
			report.AddError(fmt.Sprintf("data for symbol '%s' is empty", symbol))
			continue
		}

		validPoints := 0
		for _, date := range sortedKeys(series) {
			point, ok := series[date].(map[string]any)
			if !ok {
				report.AddError(fmt.Sprintf("data point for symbol '%s', date '%s' is not a dictionary", symbol, date))
				continue
			}
			if missing := missingFields(point, models.OHLCVFields); len(missing) != 0 {
				report.AddError(fmt.Sprintf("data point for symbol '%s', date '%s' is missing required fields: %s",
					symbol, date, joinFields(missing)))
				continue
			}
			validPoints++
		}

		if validPoints == 0 {
			report.AddError(fmt.Sprintf("no valid data points for symbol '%s'", symbol))
			continue
		}
		validSymbols++
		totalPoints += validPoints
	}
	report.SymbolCount = validSymbols
	report.DataPointCount = totalPoints

	if validSymbols == 0 && len(bySymbol) > 0 {
		report.Fail("no valid symbols found")
	}

	v.log.Infow("validated stock data",
		"valid", report.Valid, "symbol_count", report.SymbolCount, "data_point_count", report.DataPointCount)
	return report
}

// --- helpers ---

func missingFields(record map[string]any, required []string) []string {
	var missing []string
	for _, field := range required {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
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
