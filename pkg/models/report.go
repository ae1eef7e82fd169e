package models

// ValidationReport summarizes a validation pass over one raw collection.
// Errors and Warnings keep input order. A report is built once and not
// mutated after it is returned.
//
// Structural problems and per-element problems both land in Errors;
// Valid only drops to false when the whole collection is unusable
// (wrong shape, or zero valid elements out of non-empty input).
// Empty-but-well-formed collections produce a warning, not an error.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	// Domain counters. Only the ones relevant to the validated
	// collection are populated.
	ArticleCount   int `json:"article_count,omitempty"`
	QueryCount     int `json:"query_count,omitempty"`
	TweetCount     int `json:"tweet_count,omitempty"`
	SymbolCount    int `json:"symbol_count,omitempty"`
	DataPointCount int `json:"data_point_count,omitempty"`

	// Data carries the parsed payload for file-level validations so the
	// caller can hand it straight to the annotation step.
	Data any `json:"-"`
}

// NewValidationReport returns a report that starts out valid with no findings.
func NewValidationReport() ValidationReport {
	return ValidationReport{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// AddError records an error. Errors do not flip Valid by themselves;
// the validator decides when the collection as a whole is invalid.
func (r *ValidationReport) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a warning. Warnings never downgrade Valid.
func (r *ValidationReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Fail records an error and marks the report invalid.
func (r *ValidationReport) Fail(msg string) {
	r.Valid = false
	r.AddError(msg)
}

// Merge folds a content-level report into a file-level one: validity is
// AND-ed, errors and warnings are appended in order, and the counters are
// taken from the content report.
func (r *ValidationReport) Merge(other ValidationReport) {
	r.Valid = r.Valid && other.Valid
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.ArticleCount = other.ArticleCount
	r.QueryCount = other.QueryCount
	r.TweetCount = other.TweetCount
	r.SymbolCount = other.SymbolCount
	r.DataPointCount = other.DataPointCount
}
