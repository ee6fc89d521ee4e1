package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
)

// DefectReport builds a Renderable report for one file's analysis result.
func DefectReport(path string, result *models.AnalysisResult, colored bool) *Report {
	title := "Analysis"
	if path != "" {
		title = fmt.Sprintf("Analysis: %s", path)
	}

	rows := make([][]string, 0, len(result.Defects))
	for _, d := range result.Defects {
		sev := string(d.Severity)
		if colored {
			sev = SeverityColor(string(d.Severity), sev)
		}
		rows = append(rows, []string{
			strconv.Itoa(d.Line),
			sev,
			string(d.Category),
			d.Message,
		})
	}

	report := &Report{
		Title: title,
		Data:  result,
	}

	if len(rows) == 0 {
		report.Sections = append(report.Sections, &Section{
			Content: "No defects found.",
		})
		return report
	}

	report.Sections = append(report.Sections,
		NewTable("Defects", []string{"Line", "Severity", "Category", "Message"}, rows, nil, result.Defects),
		summarySection(result.Summary),
	)
	return report
}

// RefactorReport builds a Renderable report for a transformation run.
func RefactorReport(path string, result *models.RefactorResult, colored bool) *Report {
	report := DefectReport(path, &models.AnalysisResult{
		Defects: result.Defects,
		Summary: result.Summary,
	}, colored)
	report.Data = result

	if !result.Stats.Empty() {
		report.Sections = append(report.Sections, statsSection(result.Stats))
	}
	if len(result.RemovedLines) > 0 {
		report.Sections = append(report.Sections, &Section{
			Title:   "Removed Lines",
			Content: joinInts(result.RemovedLines),
		})
	}
	return report
}

func summarySection(s models.AnalysisSummary) *Section {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d", s.TotalDefects)
	for _, sev := range []models.Severity{
		models.SeverityCritical, models.SeverityError,
		models.SeverityWarning, models.SeverityInfo,
	} {
		if n := s.BySeverity[string(sev)]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d", sev, n)
		}
	}
	return &Section{Title: "Summary", Content: b.String(), Data: s}
}

func statsSection(s models.TransformStats) *Section {
	lines := []string{}
	add := func(label string, n int) {
		if n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", label, n))
		}
	}
	add("Constants folded", s.ConstantsFolded)
	add("Dead code removed", s.DeadCodeRemoved)
	add("Expressions simplified", s.ExpressionsSimplified)
	add("Conditions fixed", s.ConditionsFixed)
	add("Unused removed", s.UnusedRemoved)
	add("Parameter types added", s.FunctionsAdded)
	add("Variables renamed", s.VariablesRenamed)
	return &Section{Title: "Transformation", Content: strings.Join(lines, "\n"), Data: s}
}

func joinInts(ns []int) string {
	sorted := append([]int(nil), ns...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
