package models

// DefectCategory identifies the kind of defect a detection pass found.
type DefectCategory string

const (
	CategoryMismatchedBracket DefectCategory = "mismatched_bracket"
	CategoryMismatchedParen   DefectCategory = "mismatched_paren"
	CategoryMismatchedBrace   DefectCategory = "mismatched_brace"
	CategoryMalformedControl  DefectCategory = "malformed_control"
	CategoryMissingSemicolon  DefectCategory = "missing_semicolon"
	CategoryUndefinedFunction DefectCategory = "undefined_function"
	CategoryUnusedFunction    DefectCategory = "unused_function"
	CategoryMissingBody       DefectCategory = "missing_function_body"
	CategoryBadParameter      DefectCategory = "malformed_parameter"
	CategoryMissingReturn     DefectCategory = "missing_return"
	CategoryAssignInCondition DefectCategory = "assignment_in_condition"
	CategoryUninitialized     DefectCategory = "uninitialized_variable"
	CategoryUnusedVariable    DefectCategory = "unused_variable"
	CategoryUnreachableCode   DefectCategory = "unreachable_code"
	CategoryRedundantExpr     DefectCategory = "redundant_expression"
	CategoryConstantCondition DefectCategory = "constant_condition"
	CategorySelfAssignment    DefectCategory = "self_assignment"
	CategoryDivisionByZero    DefectCategory = "division_by_zero"
	CategoryFormatString      DefectCategory = "format_string"
	CategoryArrayBounds       DefectCategory = "array_out_of_bounds"
	CategoryInfiniteLoop      DefectCategory = "infinite_loop"
)

// Severity represents the urgency of addressing a defect.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Weight returns a numeric weight for sorting, highest severity first.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

func (c DefectCategory) String() string { return string(c) }
func (s Severity) String() string       { return string(s) }

// DefectRecord is a single finding reported by a detection pass.
type DefectRecord struct {
	Category   DefectCategory `json:"category"`
	Severity   Severity       `json:"severity"`
	Line       int            `json:"line"` // 1-based
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Rationale  string         `json:"rationale,omitempty"`
}

// AnalysisSummary provides aggregate statistics over a defect list.
type AnalysisSummary struct {
	TotalDefects int            `json:"total_defects"`
	BySeverity   map[string]int `json:"by_severity"`
	ByCategory   map[string]int `json:"by_category"`
}

// NewAnalysisSummary creates an initialized summary.
func NewAnalysisSummary() AnalysisSummary {
	return AnalysisSummary{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
}

// Add updates the summary with one defect.
func (s *AnalysisSummary) Add(d DefectRecord) {
	s.TotalDefects++
	s.BySeverity[string(d.Severity)]++
	s.ByCategory[string(d.Category)]++
}

// AnalysisResult is the full output of one detection run.
type AnalysisResult struct {
	Defects []DefectRecord  `json:"defects"`
	Summary AnalysisSummary `json:"summary"`
	Lines   int             `json:"lines"`
}

// Count returns the number of defects at the given severity.
func (r *AnalysisResult) Count(sev Severity) int {
	return r.Summary.BySeverity[string(sev)]
}
