package analyzer

import (
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var condHeaderRe = regexp.MustCompile(`\b(if|while)\s*\(([^)]*)\)`)

// conditionText extracts the conditional expression checked on a line: the
// parenthesized expression of an if/while header, or the middle clause of a
// for header. Returns "" when the line has neither.
func conditionText(code string) string {
	if m := condHeaderRe.FindStringSubmatch(code); m != nil {
		return m[2]
	}
	if m := forHeaderRe.FindStringSubmatch(code); m != nil {
		clauses := strings.Split(m[1], ";")
		if len(clauses) == 3 {
			return clauses[1]
		}
	}
	return ""
}

// suspiciousAssignment reports whether cond contains a single '=' that is
// not part of a comparison or compound operator.
func suspiciousAssignment(cond string) bool {
	for i := 0; i < len(cond); i++ {
		if cond[i] != '=' {
			continue
		}
		if i+1 < len(cond) && cond[i+1] == '=' {
			i++ // skip '=='
			continue
		}
		if i > 0 {
			switch cond[i-1] {
			case '=', '!', '<', '>':
				continue
			}
		}
		return true
	}
	return false
}

// checkConditions flags assignments used where a comparison was almost
// certainly intended.
func (a *Analyzer) checkConditions(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		code := source.Code(raw)
		cond := conditionText(code)
		if cond == "" || !suspiciousAssignment(cond) {
			continue
		}
		reg.Add(models.DefectRecord{
			Category:   models.CategoryAssignInCondition,
			Severity:   models.SeverityWarning,
			Line:       n,
			Message:    "assignment inside a condition; did you mean '=='?",
			Suggestion: strings.Replace(cond, "=", "==", 1),
			Rationale:  "a single '=' assigns and always evaluates the assigned value, so the branch does not test anything",
		})
	}
}
