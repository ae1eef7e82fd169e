package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketmood/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONFileMissing(t *testing.T) {
	report := New(nil).JSONFile(filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "file not found")
	assert.Nil(t, report.Data)
}

func TestJSONFileMalformed(t *testing.T) {
	path := writeFile(t, "bad.json", `{"data": [truncated`)
	report := New(nil).JSONFile(path, nil)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "invalid JSON")
}

func TestJSONFileNoContentValidator(t *testing.T) {
	path := writeFile(t, "ok.json", `{"anything": ["goes", 1, null]}`)
	report := New(nil).JSONFile(path, nil)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.NotNil(t, report.Data)
}

func TestJSONFileMergesContentReport(t *testing.T) {
	v := New(nil)
	path := writeFile(t, "news.json", `{"data": [
		{"title": "Stocks rally", "published_at": "2024-01-05T10:00:00"},
		{"source": "wire"}
	]}`)

	report := v.JSONFile(path, v.NewsData)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.ArticleCount)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "missing required fields")
}

func TestJSONFileMergePropagatesInvalid(t *testing.T) {
	v := New(nil)
	path := writeFile(t, "empty.json", `{"data": [{"no": "fields"}]}`)

	report := v.JSONFile(path, v.NewsData)
	assert.False(t, report.Valid)
}

func TestJSONFileCustomValidator(t *testing.T) {
	path := writeFile(t, "custom.json", `[1, 2, 3]`)
	called := false
	report := New(nil).JSONFile(path, func(data any) models.ValidationReport {
		called = true
		r := models.NewValidationReport()
		r.AddWarning("custom warning")
		return r
	})
	assert.True(t, called)
	assert.True(t, report.Valid)
	assert.Equal(t, []string{"custom warning"}, report.Warnings)
}
