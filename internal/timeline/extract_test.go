package timeline

import (
	"encoding/json"
	"testing"
)

// tweetEntry builds a single-item timeline entry with the given id and text.
func tweetEntry(entryID, text, screenName, userName, createdAt string) map[string]any {
	return map[string]any{
		"entryId": entryID,
		"content": map[string]any{
			"itemContent": map[string]any{
				"tweet_results": map[string]any{
					"result": map[string]any{
						"legacy": map[string]any{
							"full_text":  text,
							"created_at": createdAt,
						},
						"core": map[string]any{
							"user_results": map[string]any{
								"result": map[string]any{
									"legacy": map[string]any{
										"screen_name": screenName,
										"name":        userName,
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func timelineResponse(instructionType string, entries ...any) map[string]any {
	return map[string]any{
		"result": map[string]any{
			"timeline": map[string]any{
				"instructions": []any{
					map[string]any{
						"type":    instructionType,
						"entries": entries,
					},
				},
			},
		},
	}
}

func TestPostsSingleItemShape(t *testing.T) {
	resp := timelineResponse("TimelineAddEntries",
		tweetEntry("tweet-111", "AAPL to the moon", "trader_jo", "Jo Trader", "Mon Jan 05 10:00:00 +0000 2024"),
		tweetEntry("tweet-222", "selling everything", "bear_max", "Max Bear", ""),
	)

	posts := New(nil).Posts(resp)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].EntryID != "111" || posts[1].EntryID != "222" {
		t.Errorf("expected ids 111, 222 in input order, got %q, %q", posts[0].EntryID, posts[1].EntryID)
	}
	if posts[0].Text != "AAPL to the moon" {
		t.Errorf("unexpected text %q", posts[0].Text)
	}
	if posts[0].UserScreenName != "trader_jo" || posts[0].UserName != "Jo Trader" {
		t.Errorf("unexpected user fields %q %q", posts[0].UserScreenName, posts[0].UserName)
	}
	if posts[0].CreatedAt != "Mon Jan 05 10:00:00 +0000 2024" {
		t.Errorf("unexpected created_at %q", posts[0].CreatedAt)
	}
	if posts[1].CreatedAt != "" {
		t.Errorf("expected empty created_at, got %q", posts[1].CreatedAt)
	}
}

func TestPostsMultiItemShape(t *testing.T) {
	inner := tweetEntry("ignored", "first in module", "u1", "U One", "")
	inner2 := tweetEntry("ignored", "second in module", "u2", "U Two", "")
	entry := map[string]any{
		"entryId": "conversation-999",
		"content": map[string]any{
			"items": []any{
				map[string]any{"item": inner["content"]},
				map[string]any{"item": inner2["content"]},
				map[string]any{"item": map[string]any{"itemContent": map[string]any{}}},
			},
		},
	}
	resp := timelineResponse("TimelineReplaceEntries", entry)

	posts := New(nil).Posts(resp)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts from multi-item entry, got %d", len(posts))
	}
	if posts[0].Text != "first in module" || posts[1].Text != "second in module" {
		t.Errorf("item order not preserved: %q, %q", posts[0].Text, posts[1].Text)
	}
	if posts[0].EntryID != "999" {
		t.Errorf("expected id from entry id suffix, got %q", posts[0].EntryID)
	}
}

func TestPostsMissingTimeline(t *testing.T) {
	cases := []map[string]any{
		nil,
		{},
		{"result": map[string]any{}},
		{"result": map[string]any{"timeline": map[string]any{}}},
		{"result": map[string]any{"timeline": map[string]any{"instructions": "not a list"}}},
	}
	e := New(nil)
	for i, resp := range cases {
		if got := e.Posts(resp); len(got) != 0 {
			t.Errorf("case %d: expected no posts, got %d", i, len(got))
		}
	}
}

func TestPostsSkipsUnknownInstructions(t *testing.T) {
	resp := timelineResponse("TimelineTerminateTimeline",
		tweetEntry("tweet-1", "should not appear", "", "", ""))
	if got := New(nil).Posts(resp); len(got) != 0 {
		t.Errorf("expected unknown instruction to contribute nothing, got %d posts", len(got))
	}
}

func TestPostsTolerateMalformedEntries(t *testing.T) {
	resp := timelineResponse("TimelineAddEntries",
		"not a map",
		map[string]any{"entryId": "tweet-1", "content": "not a map"},
		map[string]any{"entryId": "tweet-2", "content": map[string]any{"itemContent": map[string]any{"tweet_results": []any{}}}},
		tweetEntry("tweet-3", "the only good one", "ok", "OK", ""),
	)
	posts := New(nil).Posts(resp)
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Text != "the only good one" {
		t.Errorf("unexpected text %q", posts[0].Text)
	}
}

func TestPostsFromJSONRoundTrip(t *testing.T) {
	// Exercise the walker against json.Unmarshal output rather than
	// hand-built maps, since that is what production feeds it.
	raw, err := json.Marshal(timelineResponse("TimelineAddEntries",
		tweetEntry("tweet-42", "$MSFT earnings beat", "quant", "Quant", "")))
	if err != nil {
		t.Fatal(err)
	}
	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	texts := New(nil).Texts(resp)
	if len(texts) != 1 || texts[0] != "$MSFT earnings beat" {
		t.Errorf("unexpected texts %v", texts)
	}
}

func TestPostID(t *testing.T) {
	cases := map[string]string{
		"tweet-1790000000000000000":     "1790000000000000000",
		"promoted-tweet-99-extra":       "extra",
		"noseparator":                   "noseparator",
		"":                              "",
		"profile-conversation-12345678": "12345678",
	}
	for in, want := range cases {
		if got := PostID(in); got != want {
			t.Errorf("PostID(%q) = %q, want %q", in, got, want)
		}
	}
}
