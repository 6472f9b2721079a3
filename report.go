package linkml

import (
	"sort"
	"strings"

	"github.com/kaptinlin/go-i18n"
)

// Severity ranks a ValidationIssue. Higher values sort first in a report.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Stable error codes emitted in ValidationIssue.Code.
const (
	CodeRequiredFieldMissing = "required_field_missing"
	CodePatternMismatch      = "pattern_mismatch"
	CodeRangeViolation       = "range_violation"
	CodeLengthViolation      = "length_violation"
	CodeEnumViolation        = "enum_violation"
	CodeTypeMismatch         = "type_mismatch"
	CodeCardinalityViolation = "cardinality_violation"
	CodeUnknownSlot          = "unknown_slot"
	CodeDuplicateIdentifier  = "duplicate_identifier"
	CodeRuleViolation        = "rule_violation"
	CodeRecursionLimit       = "recursion_limit"
	CodeCycleDetected        = "cycle_detected"
	CodeExecutionError       = "execution_error"
)

// ValidationIssue is a single constraint violation or diagnostic, addressed
// by a JSON-path-ish location ("$", "$.field", "$.field[3]").
type ValidationIssue struct {
	Severity  Severity       `json:"severity"`
	Path      string         `json:"path"`
	Message   string         `json:"message"`
	Validator string         `json:"validator"`
	Code      string         `json:"code,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// Localize renders Message through localizer using Code as the message key
// and Context as substitution variables, falling back to Message itself when
// localizer is nil or the key is unknown.
func (i ValidationIssue) Localize(localizer *i18n.Localizer) string {
	if localizer == nil || i.Code == "" {
		return i.Message
	}
	return localizer.Get(i.Code, i18n.Vars(i.Context))
}

// ValidationReport is the result of a single validate call: issues split by
// severity, plus timing and compiled/interpretive execution stats.
type ValidationReport struct {
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
	Infos    []ValidationIssue `json:"infos,omitempty"`
	Stats    ValidationStats   `json:"stats"`
}

// ValidationStats carries timing and cache-behavior counters for one
// validate call, per spec.md §6's "timing/stats" requirement.
type ValidationStats struct {
	DurationNanos    int64 `json:"durationNanos"`
	CompiledChecks   int   `json:"compiledChecks"`
	InterpretedRules int   `json:"interpretedRules"`
	CacheHit         bool  `json:"cacheHit"`
}

// Valid reports whether the report contains no Error-severity issues.
func (r *ValidationReport) Valid() bool {
	return len(r.Errors) == 0
}

// add appends issue to the correct severity bucket.
func (r *ValidationReport) add(issue ValidationIssue) {
	switch issue.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, issue)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, issue)
	default:
		r.Infos = append(r.Infos, issue)
	}
}

// All returns every issue across severities: errors, then warnings, then
// infos, each in recorded order; call Sort first to order each severity by
// (path, validator).
func (r *ValidationReport) All() []ValidationIssue {
	out := make([]ValidationIssue, 0, len(r.Errors)+len(r.Warnings)+len(r.Infos))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	out = append(out, r.Infos...)
	return out
}

// Sort orders each severity bucket by (path, validator) per spec.md §4.4's
// deterministic report-ordering rule (severity is already implied by bucket).
func (r *ValidationReport) Sort() {
	sortIssues(r.Errors)
	sortIssues(r.Warnings)
	sortIssues(r.Infos)
}

func sortIssues(issues []ValidationIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return comparePaths(issues[i].Path, issues[j].Path)
		}
		return issues[i].Validator < issues[j].Validator
	})
}

// comparePaths orders JSON-path-ish strings lexicographically, segment by
// segment, so "$.a" sorts before "$.a[2]" before "$.b".
func comparePaths(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
