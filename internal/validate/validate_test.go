package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parse unmarshals a JSON literal so test inputs go through the same
// decoding path as production data.
func parse(t *testing.T, raw string) any {
	t.Helper()
	var data any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestNewsDataWellFormed(t *testing.T) {
	data := parse(t, `{"data": [
		{"title": "Stocks rally on strong earnings", "published_at": "2024-01-05T10:00:00"},
		{"title": "Fed holds rates", "published_at": "2024-01-06T09:00:00", "description": "No change"}
	]}`)

	report := New(nil).NewsData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.ArticleCount)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestNewsDataBareList(t *testing.T) {
	data := parse(t, `[{"title": "t", "published_at": "2024-01-05"}]`)
	report := New(nil).NewsData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.ArticleCount)
}

func TestNewsDataMissingDataKey(t *testing.T) {
	report := New(nil).NewsData(parse(t, `{"articles": []}`))
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "missing 'data' key")
}

func TestNewsDataWrongTypes(t *testing.T) {
	v := New(nil)

	report := v.NewsData("not a collection")
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "invalid news data type")

	report = v.NewsData(parse(t, `{"data": "not a list"}`))
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "expected list")
}

func TestNewsDataEmptyListIsValidWithWarning(t *testing.T) {
	report := New(nil).NewsData(parse(t, `[]`))
	assert.True(t, report.Valid)
	assert.Equal(t, 0, report.ArticleCount)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "empty")
}

func TestNewsDataMalformedElements(t *testing.T) {
	data := parse(t, `[
		{"title": "good", "published_at": "2024-01-05"},
		"not a dict",
		{"published_at": "2024-01-05"},
		{"source": "wire"}
	]`)

	report := New(nil).NewsData(data)
	assert.True(t, report.Valid, "one valid article keeps the collection valid")
	assert.Equal(t, 1, report.ArticleCount)
	require.Len(t, report.Errors, 3)
	assert.Contains(t, report.Errors[0], "index 1 is not a dictionary")
	assert.Contains(t, report.Errors[1], "missing required fields: title")
	assert.Contains(t, report.Errors[2], "missing required fields: title, published_at")
}

func TestNewsDataZeroValidForcesInvalid(t *testing.T) {
	report := New(nil).NewsData(parse(t, `[{"source": "wire"}]`))
	assert.False(t, report.Valid)
	assert.Equal(t, 0, report.ArticleCount)
	assert.Contains(t, report.Errors[len(report.Errors)-1], "no valid articles found")
}

func twitterBundle(query string, texts ...string) map[string]any {
	entries := make([]any, 0, len(texts))
	for i, text := range texts {
		entries = append(entries, map[string]any{
			"entryId": "tweet-" + string(rune('1'+i)),
			"content": map[string]any{
				"itemContent": map[string]any{
					"tweet_results": map[string]any{
						"result": map[string]any{
							"legacy": map[string]any{"full_text": text},
						},
					},
				},
			},
		})
	}
	return map[string]any{
		"query": query,
		"response": map[string]any{
			"result": map[string]any{
				"timeline": map[string]any{
					"instructions": []any{
						map[string]any{"type": "TimelineAddEntries", "entries": entries},
					},
				},
			},
		},
	}
}

func TestTwitterDataWellFormed(t *testing.T) {
	data := []any{
		twitterBundle("$AAPL stock", "buying more", "apple looks strong"),
		twitterBundle("$MSFT stock", "azure growth"),
	}

	report := New(nil).TwitterData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.QueryCount)
	assert.Equal(t, 3, report.TweetCount)
}

func TestTwitterDataNotAList(t *testing.T) {
	report := New(nil).TwitterData(map[string]any{})
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "expected list")
}

func TestTwitterDataEmptyListWarns(t *testing.T) {
	report := New(nil).TwitterData([]any{})
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
}

func TestTwitterDataMissingKeys(t *testing.T) {
	data := []any{
		map[string]any{"response": map[string]any{}},
		map[string]any{"query": "$AAPL"},
		twitterBundle("$GOOGL", "alphabet up"),
	}
	report := New(nil).TwitterData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.QueryCount)
	assert.Contains(t, report.Errors[0], "missing 'query' field")
	assert.Contains(t, report.Errors[1], "missing 'response' field")
}

func TestTwitterDataEmptyResponseNamesQuery(t *testing.T) {
	data := parse(t, `[{"query": "$AAPL stock", "response": {}}]`)
	report := New(nil).TwitterData(data)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "no tweets found in response for query '$AAPL stock'")
	assert.Contains(t, report.Errors[1], "no valid query responses found")
	assert.Equal(t, 0, report.QueryCount)
	assert.Equal(t, 0, report.TweetCount)
}

func TestStockDataWellFormed(t *testing.T) {
	data := parse(t, `{
		"AAPL": {
			"2024-01-02": {"Open": 100, "High": 105, "Low": 99, "Close": 104, "Volume": 1000},
			"2024-01-03": {"Open": 104, "High": 106, "Low": 103, "Close": 105, "Volume": 1200}
		},
		"MSFT": {
			"2024-01-02": {"Open": 370, "High": 375, "Low": 369, "Close": 374, "Volume": 900}
		}
	}`)

	report := New(nil).StockData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.SymbolCount)
	assert.Equal(t, 3, report.DataPointCount)
	assert.Empty(t, report.Errors)
}

func TestStockDataPartialRecordDropped(t *testing.T) {
	data := parse(t, `{
		"AAPL": {
			"2024-01-02": {"Open": 100, "High": 105, "Low": 99, "Close": 104, "Volume": 1000},
			"2024-01-03": {"Open": 104}
		}
	}`)

	report := New(nil).StockData(data)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.SymbolCount)
	assert.Equal(t, 1, report.DataPointCount)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "date '2024-01-03' is missing required fields: High, Low, Close, Volume")
}

func TestStockDataSymbolLevelFailures(t *testing.T) {
	data := parse(t, `{
		"AAPL": "not a dict",
		"GOOGL": {},
		"MSFT": {"2024-01-02": {"Open": 1}}
	}`)

	report := New(nil).StockData(data)
	assert.False(t, report.Valid)
	assert.Equal(t, 0, report.SymbolCount)
	assert.Equal(t, 0, report.DataPointCount)
	// Symbols are visited in sorted order, so findings are deterministic.
	assert.Contains(t, report.Errors[0], "data for symbol 'AAPL' is not a dictionary")
	assert.Contains(t, report.Errors[1], "data for symbol 'GOOGL' is empty")
	assert.Contains(t, report.Errors[2], "date '2024-01-02' is missing required fields")
	assert.Contains(t, report.Errors[3], "no valid data points for symbol 'MSFT'")
	assert.Contains(t, report.Errors[4], "no valid symbols found")
}

func TestStockDataWrongTopLevelType(t *testing.T) {
	report := New(nil).StockData(parse(t, `["AAPL"]`))
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "expected dict")
}

func TestStockDataEmptyWarns(t *testing.T) {
	report := New(nil).StockData(map[string]any{})
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
}
