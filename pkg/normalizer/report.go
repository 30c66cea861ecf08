package normalizer

import "fmt"

// Warning describes a row that was skipped or coerced.
type Warning struct {
	Table   Table  `json:"table" yaml:"table"`
	Article string `json:"article" yaml:"article"`
	Message string `json:"message" yaml:"message"`
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Table, w.Article, w.Message)
}

// Report summarizes one normalization run.
type Report struct {
	Articles              int       `json:"articles" yaml:"articles"`
	Unpublished           int       `json:"unpublished" yaml:"unpublished"`
	Products              int       `json:"products" yaml:"products"`
	Variants              int       `json:"variants" yaml:"variants"`
	DroppedCombinations   int       `json:"dropped_combinations" yaml:"dropped_combinations"`
	DuplicateCombinations int       `json:"duplicate_combinations" yaml:"duplicate_combinations"`
	MalformedNumbers      int       `json:"malformed_numbers" yaml:"malformed_numbers"`
	Warnings              []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func (r *Report) warn(table Table, article, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Table:   table,
		Article: article,
		Message: fmt.Sprintf(format, args...),
	})
}
