package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var (
	braceForParenRe  = regexp.MustCompile(`\b(if|while)\s*\([^)}]*\}`)
	braceInCondRe    = regexp.MustCompile(`\b(if|while|for|switch)\s*\([^)]*[{}][^)]*\)`)
	bareControlRe    = regexp.MustCompile(`\b(if|while)\b`)
	forHeaderRe      = regexp.MustCompile(`\bfor\s*\(([^)]*)\)`)
	switchRe         = regexp.MustCompile(`\bswitch\b`)
	controlHeaderRe  = regexp.MustCompile(`^\s*(\}?\s*)?(if|else|for|while|do|switch)\b`)
	caseLabelRe      = regexp.MustCompile(`^\s*(case\b.*|default\s*):`)
	declStmtRe       = regexp.MustCompile(`^(int|float|char|double|long|short)\s+` + source.IdentPattern)
	assignStmtRe     = regexp.MustCompile(`^` + source.IdentPattern + `\s*(\[[^\]]*\]\s*)?[-+*/%]?=[^=].*$`)
	callStmtRe       = regexp.MustCompile(`^` + source.IdentPattern + `\s*\(.*\)\s*$`)
	returnStmtRe     = regexp.MustCompile(`^return\b`)
	jumpStmtRe       = regexp.MustCompile(`^(break|continue)\b\s*$`)
	incDecStmtRe     = regexp.MustCompile(`^(` + source.IdentPattern + `\s*(\+\+|--)|(\+\+|--)\s*` + source.IdentPattern + `)\s*$`)
)

// checkControlStructures flags malformed if/while/for/switch headers.
func (a *Analyzer) checkControlStructures(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		code := source.Code(raw)

		if braceForParenRe.MatchString(code) {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryMalformedControl,
				Severity:   models.SeverityError,
				Line:       n,
				Message:    "closing brace used where a closing parenthesis is expected",
				Suggestion: "replace '}' with ')' in the condition",
			})
		} else if braceInCondRe.MatchString(code) {
			reg.Add(models.DefectRecord{
				Category: models.CategoryMalformedControl,
				Severity: models.SeverityError,
				Line:     n,
				Message:  "brace nested inside condition parentheses",
			})
		}

		if m := bareControlRe.FindStringSubmatchIndex(code); m != nil {
			rest := code[m[1]:]
			if !strings.Contains(rest, "(") {
				kw := code[m[0]:m[1]]
				reg.Add(models.DefectRecord{
					Category:   models.CategoryMalformedControl,
					Severity:   models.SeverityError,
					Line:       n,
					Message:    fmt.Sprintf("'%s' is not followed by a parenthesized condition", kw),
					Suggestion: fmt.Sprintf("write '%s (condition)'", kw),
				})
			}
		}

		if m := forHeaderRe.FindStringSubmatch(code); m != nil {
			if strings.Count(m[1], ";") != 2 {
				reg.Add(models.DefectRecord{
					Category:   models.CategoryMalformedControl,
					Severity:   models.SeverityError,
					Line:       n,
					Message:    "'for' header must contain exactly two semicolons",
					Suggestion: "write 'for (init; condition; step)'",
				})
			}
		} else if strings.Contains(code, "for") && source.ContainsWord(raw, "for") && !strings.Contains(code, "(") {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryMalformedControl,
				Severity:   models.SeverityError,
				Line:       n,
				Message:    "'for' is not followed by a parenthesized header",
				Suggestion: "write 'for (init; condition; step)'",
			})
		}

		if switchRe.MatchString(code) && !strings.Contains(code, "(") {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryMalformedControl,
				Severity:   models.SeverityError,
				Line:       n,
				Message:    "'switch' is not followed by a parenthesized expression",
				Suggestion: "write 'switch (expression)'",
			})
		}
	}
}

// statementShape reports whether trimmed code looks like a statement that
// requires a terminator.
func statementShape(trimmed string) bool {
	return declStmtRe.MatchString(trimmed) ||
		assignStmtRe.MatchString(trimmed) ||
		callStmtRe.MatchString(trimmed) ||
		returnStmtRe.MatchString(trimmed) ||
		jumpStmtRe.MatchString(trimmed) ||
		incDecStmtRe.MatchString(trimmed)
}

// semicolonExempt reports whether a line is excluded from the missing
// terminator check.
func semicolonExempt(ctx *Context, n int, raw, trimmed string) bool {
	if trimmed == "" || source.IsComment(raw) || source.IsPreprocessor(raw) {
		return true
	}
	if strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, "}") {
		return true
	}
	if controlHeaderRe.MatchString(trimmed) || caseLabelRe.MatchString(trimmed) {
		return true
	}
	if ctx.DefLines[n] {
		return true
	}
	return false
}

// NeedsTerminator reports whether the line at n is a statement missing its
// trailing semicolon. Shared with the transformation engine.
func NeedsTerminator(ctx *Context, n int) bool {
	raw := ctx.File.Line(n)
	code := source.Code(raw)
	trimmed := strings.TrimSpace(code)
	if semicolonExempt(ctx, n, raw, trimmed) {
		return false
	}
	if strings.HasSuffix(trimmed, ";") {
		return false
	}
	return statementShape(trimmed)
}

// checkSemicolons flags statement-shaped lines lacking a terminator.
func (a *Analyzer) checkSemicolons(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		if !NeedsTerminator(ctx, n) {
			continue
		}
		trimmed := strings.TrimSpace(source.Code(ctx.File.Line(n)))
		reg.Add(models.DefectRecord{
			Category:   models.CategoryMissingSemicolon,
			Severity:   models.SeverityError,
			Line:       n,
			Message:    "statement is missing a terminating semicolon",
			Suggestion: trimmed + ";",
			Rationale:  "every declaration, assignment, call, and jump statement must end in ';'",
		})
	}
}
