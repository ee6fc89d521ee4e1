package models

// TransformStats counts fixes applied during a refactor run. Each counter is
// incremented once per applied fix.
type TransformStats struct {
	ConstantsFolded       int `json:"constants_folded"`
	DeadCodeRemoved       int `json:"dead_code_removed"`
	ExpressionsSimplified int `json:"expressions_simplified"`
	ConditionsFixed       int `json:"conditions_fixed"`
	UnusedRemoved         int `json:"unused_removed"`
	FunctionsAdded        int `json:"functions_added"`
	VariablesRenamed      int `json:"variables_renamed"`
}

// Total returns the sum of all counters.
func (s TransformStats) Total() int {
	return s.ConstantsFolded + s.DeadCodeRemoved + s.ExpressionsSimplified +
		s.ConditionsFixed + s.UnusedRemoved + s.FunctionsAdded + s.VariablesRenamed
}

// Empty reports whether no fixes were applied.
func (s TransformStats) Empty() bool { return s.Total() == 0 }

// RefactorResult is the full output of an analyze-and-transform run.
type RefactorResult struct {
	Defects []DefectRecord  `json:"defects"`
	Summary AnalysisSummary `json:"summary"`
	Source  string          `json:"source"`
	Stats   TransformStats  `json:"stats"`
	// RemovedLines holds the 1-based input line numbers dropped by the
	// transformation, in ascending order.
	RemovedLines []int `json:"removed_lines,omitempty"`
}
