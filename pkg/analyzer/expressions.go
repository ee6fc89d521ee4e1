package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var (
	returnWordRe = regexp.MustCompile(`\breturn\b`)

	addZeroRe  = regexp.MustCompile(`\b(` + source.IdentPattern + `)\s*([+\-])\s*0\b`)
	mulOneRe   = regexp.MustCompile(`\b(` + source.IdentPattern + `)\s*([*/])\s*1\b`)
	mulZeroRe  = regexp.MustCompile(`\b(` + source.IdentPattern + `)\s*\*\s*0\b`)
	deadCondRe = regexp.MustCompile(`\b(if|while)\s*\(\s*(0|false)\s*\)`)
	trueCondRe = regexp.MustCompile(`\bif\s*\(\s*1\s*\)`)
	divisionRe = regexp.MustCompile(`/\s*0(\.0*)?([^\w.]|$)`)
	selfAsgnRe = regexp.MustCompile(`(^\s*|[;{]\s*)(` + source.IdentPattern + `)\s*=\s*(` + source.IdentPattern + `)\s*(;|$)`)
)

// checkUnreachable flags code that follows a return statement within the
// same block. State resets whenever a closing brace is seen.
func (a *Analyzer) checkUnreachable(ctx *Context, reg *Registry) {
	afterReturn := false
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsBlank(raw) || source.IsComment(raw) {
			continue
		}
		code := source.Code(raw)
		trimmed := strings.TrimSpace(code)

		if afterReturn {
			// A leading "}" ends the block the return belongs to; this
			// covers "} else {" and the bare closer alike.
			if strings.HasPrefix(trimmed, "}") {
				afterReturn = false
			} else {
				reg.Add(models.DefectRecord{
					Category:   models.CategoryUnreachableCode,
					Severity:   models.SeverityWarning,
					Line:       n,
					Message:    "unreachable code after return",
					Suggestion: "remove the statement or move it above the return",
				})
				afterReturn = false
				continue
			}
		}
		if strings.Contains(trimmed, "}") {
			afterReturn = false
		}
		if returnWordRe.MatchString(trimmed) && !strings.HasSuffix(trimmed, "{") {
			afterReturn = true
		}
	}
}

// checkExpressions runs the independent single-line pattern checks:
// redundant arithmetic, constant conditions, literal division by zero, and
// self-assignment.
func (a *Analyzer) checkExpressions(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		code := source.Code(raw)

		if m := addZeroRe.FindStringSubmatch(code); m != nil {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryRedundantExpr,
				Severity:   models.SeverityWarning,
				Line:       n,
				Message:    fmt.Sprintf("'%s %s 0' has no effect", m[1], m[2]),
				Suggestion: m[1],
			})
		}
		if m := mulOneRe.FindStringSubmatch(code); m != nil {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryRedundantExpr,
				Severity:   models.SeverityWarning,
				Line:       n,
				Message:    fmt.Sprintf("'%s %s 1' has no effect", m[1], m[2]),
				Suggestion: m[1],
			})
		}
		if m := mulZeroRe.FindStringSubmatch(code); m != nil {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryRedundantExpr,
				Severity:   models.SeverityWarning,
				Line:       n,
				Message:    fmt.Sprintf("'%s * 0' is always zero", m[1]),
				Suggestion: "0",
			})
		}

		if m := deadCondRe.FindStringSubmatch(code); m != nil {
			reg.Add(models.DefectRecord{
				Category:  models.CategoryConstantCondition,
				Severity:  models.SeverityWarning,
				Line:      n,
				Message:   fmt.Sprintf("'%s (%s)' guards a branch that never runs", m[1], m[2]),
				Rationale: "a constant-false condition makes the whole block dead code",
			})
		} else if trueCondRe.MatchString(code) {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryConstantCondition,
				Severity:   models.SeverityInfo,
				Line:       n,
				Message:    "'if (1)' is always true",
				Suggestion: "drop the condition or use the intended expression",
			})
		}

		if a.literalDivisionByZero(code) {
			reg.Add(models.DefectRecord{
				Category:  models.CategoryDivisionByZero,
				Severity:  models.SeverityCritical,
				Line:      n,
				Message:   "division by literal zero",
				Rationale: "integer division by zero is undefined behavior",
			})
		}

		if m := selfAsgnRe.FindStringSubmatch(code); m != nil && m[2] == m[3] {
			reg.Add(models.DefectRecord{
				Category:   models.CategorySelfAssignment,
				Severity:   models.SeverityWarning,
				Line:       n,
				Message:    fmt.Sprintf("'%s = %s' assigns a variable to itself", m[2], m[2]),
				Suggestion: "remove the statement",
			})
		}
	}
}

// literalDivisionByZero reports a '/ 0' whose divisor is the literal zero,
// excluding '/ 0.5' style fractions and identifiers starting with 0.
func (a *Analyzer) literalDivisionByZero(code string) bool {
	for _, m := range divisionRe.FindAllStringSubmatch(code, -1) {
		if m[1] == "" || strings.Trim(m[1], ".0") == "" {
			return true
		}
	}
	return false
}
