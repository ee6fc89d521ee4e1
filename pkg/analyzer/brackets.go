package analyzer

import (
	"fmt"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

// delimiterKind parameterizes one stack-based matching pass.
type delimiterKind struct {
	open, close  byte
	category     models.DefectCategory
	noun         string
	trackChar    bool // toggle literal state on single quotes too
	skipComments bool // skip lines that open a block comment
}

var delimiterKinds = []delimiterKind{
	{'(', ')', models.CategoryMismatchedParen, "parenthesis", true, false},
	{'[', ']', models.CategoryMismatchedBracket, "bracket", true, true},
	// Braces commonly appear inside char literals in informal usage, so the
	// brace pass tracks only double-quoted strings.
	{'{', '}', models.CategoryMismatchedBrace, "brace", false, false},
}

type openerPos struct {
	line, col int
}

// checkDelimiters runs the three independent delimiter-matching passes.
func (a *Analyzer) checkDelimiters(ctx *Context, reg *Registry) {
	for _, kind := range delimiterKinds {
		a.matchDelimiter(ctx, reg, kind)
	}
}

func (a *Analyzer) matchDelimiter(ctx *Context, reg *Registry, kind delimiterKind) {
	var stack []openerPos

	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) {
			continue
		}
		if kind.skipComments && strings.Contains(raw, "/*") {
			continue
		}
		code, _ := source.SplitLineComment(raw)
		scan := source.MaskLiterals(code, kind.trackChar)

		for col := 0; col < len(scan); col++ {
			switch scan[col] {
			case kind.open:
				stack = append(stack, openerPos{line: n, col: col + 1})
			case kind.close:
				if len(stack) == 0 {
					reg.Add(models.DefectRecord{
						Category: kind.category,
						Severity: models.SeverityError,
						Line:     n,
						Message:  fmt.Sprintf("unmatched closing %s", kind.noun),
						Suggestion: fmt.Sprintf("remove the extra '%c' or add a matching '%c' earlier",
							kind.close, kind.open),
					})
					continue
				}
				stack = stack[:len(stack)-1]
			}
		}
	}

	for _, op := range stack {
		reg.Add(models.DefectRecord{
			Category: kind.category,
			Severity: models.SeverityError,
			Line:     op.line,
			Message:  fmt.Sprintf("unclosed opening %s at column %d", kind.noun, op.col),
			Suggestion: fmt.Sprintf("add a matching '%c' for the '%c' opened here",
				kind.close, kind.open),
		})
	}
}
