// Package timeline flattens raw social-timeline search responses into
// individual posts. The response trees come from a third-party API whose
// shape is not guaranteed: any nesting level may be missing, so every
// lookup goes through a defensive walker that yields zero items instead
// of failing.
package timeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/seenimoa/marketmood/pkg/models"
)

// Instruction types whose entries carry posts.
const (
	instructionAddEntries     = "TimelineAddEntries"
	instructionReplaceEntries = "TimelineReplaceEntries"
)

// Post is one extracted post with whatever identity metadata the tree
// carried. Missing sub-fields come back as empty strings.
type Post struct {
	EntryID        string
	Text           string
	UserScreenName string
	UserName       string
	CreatedAt      string
}

// Extractor walks timeline response trees.
type Extractor struct {
	log *zap.SugaredLogger
}

// New returns an Extractor that logs structural surprises through log.
// A nil logger disables diagnostics.
func New(log *zap.SugaredLogger) *Extractor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Extractor{log: log}
}

// Texts returns just the post texts from a response tree, in entry order.
func (e *Extractor) Texts(response map[string]any) []string {
	posts := e.Posts(response)
	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		texts = append(texts, p.Text)
	}
	return texts
}

// Posts extracts every post reachable in the response tree. The result
// mirrors input entry order and, within a multi-item entry, item order.
// An absent or misshapen tree yields an empty slice, never an error.
func (e *Extractor) Posts(response map[string]any) []Post {
	instructions, ok := digSlice(response, "result", "timeline", "instructions")
	if !ok {
		e.log.Debugw("timeline instructions missing, nothing to extract")
		return nil
	}

	var posts []Post
	for _, raw := range instructions {
		instruction, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := instruction["type"].(string)
		if typ != instructionAddEntries && typ != instructionReplaceEntries {
			continue
		}
		entries, ok := instruction["entries"].([]any)
		if !ok {
			continue
		}
		for _, rawEntry := range entries {
			entry, ok := rawEntry.(map[string]any)
			if !ok {
				continue
			}
			posts = append(posts, entryPosts(entry)...)
		}
	}
	return posts
}

// entryPosts tries the two known content shapes in order. The schemas
// genuinely diverge, so the branches stay separate rather than sharing
// an abstraction.
func entryPosts(entry map[string]any) []Post {
	entryID, _ := entry["entryId"].(string)

	// Direct single-item shape.
	if text, ok := digString(entry, "content", "itemContent", "tweet_results", "result", "legacy", "full_text"); ok {
		item, _ := digMap(entry, "content", "itemContent")
		return []Post{buildPost(entryID, text, item)}
	}

	// Nested multi-item shape.
	items, ok := digSlice(entry, "content", "items")
	if !ok {
		return nil
	}
	var posts []Post
	for _, rawItem := range items {
		wrapper, ok := rawItem.(map[string]any)
		if !ok {
			continue
		}
		text, ok := digString(wrapper, "item", "itemContent", "tweet_results", "result", "legacy", "full_text")
		if !ok {
			continue
		}
		item, _ := digMap(wrapper, "item", "itemContent")
		posts = append(posts, buildPost(entryID, text, item))
	}
	return posts
}

// buildPost assembles a Post from an itemContent subtree. itemContent may
// be nil; every field lookup degrades to the empty string.
func buildPost(entryID, text string, itemContent map[string]any) Post {
	p := Post{
		EntryID: PostID(entryID),
		Text:    text,
	}
	if itemContent == nil {
		return p
	}
	if user, ok := digMap(itemContent, "tweet_results", "result", "core", "user_results", "result", "legacy"); ok {
		p.UserScreenName, _ = user["screen_name"].(string)
		p.UserName, _ = user["name"].(string)
	}
	p.CreatedAt, _ = digString(itemContent, "tweet_results", "result", "legacy", "created_at")
	return p
}

// PostID derives a post identifier from a timeline entry id by taking the
// suffix after the last '-', e.g. "tweet-1790000000000000000".
func PostID(entryID string) string {
	if i := strings.LastIndex(entryID, "-"); i >= 0 {
		return entryID[i+1:]
	}
	return entryID
}

// ToTweets converts extracted posts to model tweets without sentiment.
func ToTweets(posts []Post) []models.Tweet {
	tweets := make([]models.Tweet, 0, len(posts))
	for _, p := range posts {
		tweets = append(tweets, models.Tweet{
			TweetID:        p.EntryID,
			UserScreenName: p.UserScreenName,
			UserName:       p.UserName,
			CreatedAt:      p.CreatedAt,
			Text:           p.Text,
		})
	}
	return tweets
}

// --- Defensive deep-get walkers ---

// dig descends a chain of map keys from root, returning false the moment
// any step is absent or not a map. It never panics on surprise shapes.
func dig(root map[string]any, path ...string) (any, bool) {
	var current any = root
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func digMap(root map[string]any, path ...string) (map[string]any, bool) {
	v, ok := dig(root, path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func digSlice(root map[string]any, path ...string) ([]any, bool) {
	v, ok := dig(root, path...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

func digString(root map[string]any, path ...string) (string, bool) {
	v, ok := dig(root, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
