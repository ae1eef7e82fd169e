package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seenimoa/marketmood/pkg/models"
)

// ContentValidator checks a parsed JSON payload and reports on it.
type ContentValidator func(data any) models.ValidationReport

// JSONFile reads and parses the JSON file at path, then optionally applies
// a content validator to the parsed value and merges its findings into the
// file-level report. The parsed payload rides along in report.Data.
//
// Every failure mode, including a missing or unreadable file and malformed
// JSON, is captured as a report error; nothing propagates to the caller.
func (v *Validator) JSONFile(path string, fn ContentValidator) models.ValidationReport {
	report := models.NewValidationReport()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.Fail(fmt.Sprintf("file not found: %s", path))
		} else {
			report.Fail(fmt.Sprintf("error loading file %s: %v", path, err))
		}
		return report
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		report.Fail(fmt.Sprintf("invalid JSON in %s: %v", path, err))
		return report
	}
	report.Data = data

	if fn != nil {
		report.Merge(fn(data))
	}

	v.log.Infow("validated JSON file", "path", path, "valid", report.Valid)
	return report
}
