package sentiment

import (
	"strings"

	"github.com/seenimoa/marketmood/internal/timeline"
	"github.com/seenimoa/marketmood/pkg/models"
)

// Article fields concatenated, in this order, to build the text that gets
// scored. Absent or empty fields are omitted entirely.
var articleTextFields = []string{"title", "description", "snippet", "summary"}

// AnnotateArticles attaches a sentiment score to every article under its
// "sentiment" key. The input slice is returned with the same articles in
// the same order; non-map elements pass through untouched. Applying the
// annotator twice produces the same scores, since the lexicon is
// deterministic.
func (a *Analyzer) AnnotateArticles(articles []any) []any {
	for _, raw := range articles {
		article, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		article["sentiment"] = a.ScoreText(articleText(article))
	}
	a.log.Infow("annotated news articles", "count", len(articles))
	return articles
}

// articleText concatenates the present text fields joined by single
// spaces. An article with no usable text yields "", which ScoreText
// turns into the fallback score.
func articleText(article map[string]any) string {
	var parts []string
	for _, field := range articleTextFields {
		if v, ok := article[field].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// AnnotateSocial extracts posts from each query-response bundle, scores
// every post, and groups the results by their originating query. Bundles
// whose response yields nothing still appear in the output with an empty
// post list, preserving the input query order.
func (a *Analyzer) AnnotateSocial(bundles []any) []models.AnnotatedQuery {
	extractor := timeline.New(a.log)

	annotated := make([]models.AnnotatedQuery, 0, len(bundles))
	for _, raw := range bundles {
		bundle, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		query, _ := bundle["query"].(string)
		response, _ := bundle["response"].(map[string]any)

		posts := extractor.Posts(response)
		tweets := make([]models.Tweet, 0, len(posts))
		for _, p := range posts {
			tweets = append(tweets, models.Tweet{
				TweetID:        p.EntryID,
				UserScreenName: p.UserScreenName,
				UserName:       p.UserName,
				CreatedAt:      p.CreatedAt,
				Text:           p.Text,
				Sentiment:      a.ScoreText(p.Text),
			})
		}
		annotated = append(annotated, models.AnnotatedQuery{Query: query, Tweets: tweets})
	}
	a.log.Infow("annotated social posts", "queries", len(annotated))
	return annotated
}
