package analyzer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

// sortedVariables returns the variable table ordered by declaration line
// then name.
func sortedVariables(ctx *Context) []*VariableInfo {
	vars := make([]*VariableInfo, 0, len(ctx.Variables))
	for _, v := range ctx.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].Line != vars[j].Line {
			return vars[i].Line < vars[j].Line
		}
		return vars[i].Name < vars[j].Name
	})
	return vars
}

// assignmentRe matches "name = ..." at a statement boundary for the given
// variable, excluding "==" comparisons.
func assignmentRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[;{(\s])` + name + `\s*=([^=].*|$)`)
}

// checkVariables runs the variable-lifecycle pass: for every declared,
// uninitialized variable it finds the first assignment or the first read,
// and flags reads that happen before any initialization. It also flags
// variables whose total occurrence count is at most one (the declaration
// itself) as unused.
func (a *Analyzer) checkVariables(ctx *Context, reg *Registry) {
	for _, v := range sortedVariables(ctx) {
		if !v.Initialized {
			a.checkLifecycle(ctx, reg, v)
		}
		if source.CountOccurrences(ctx.File.Lines(), v.Name) <= 1 {
			ctx.UnusedVars[v.Name] = true
			reg.Add(models.DefectRecord{
				Category:   models.CategoryUnusedVariable,
				Severity:   models.SeverityWarning,
				Line:       v.Line,
				Message:    fmt.Sprintf("variable '%s' is declared but never used", v.Name),
				Suggestion: fmt.Sprintf("remove the declaration of '%s'", v.Name),
			})
		}
	}
}

func (a *Analyzer) checkLifecycle(ctx *Context, reg *Registry, v *VariableInfo) {
	assignRe := assignmentRe(v.Name)
	for n := v.Line + 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		code := source.Code(raw)

		if m := assignRe.FindStringSubmatch(code); m != nil {
			// Self-referencing right-hand side reads the variable before
			// this assignment can initialize it.
			if source.WordRe(v.Name).MatchString(m[2]) {
				a.flagUninitialized(ctx, reg, v, n)
			}
			return
		}
		if source.ContainsWord(raw, v.Name) {
			a.flagUninitialized(ctx, reg, v, n)
			return
		}
	}
}

func (a *Analyzer) flagUninitialized(ctx *Context, reg *Registry, v *VariableInfo, useLine int) {
	ctx.Uninitialized[v.Name] = &UninitUse{
		DeclLine:     v.Line,
		FirstUseLine: useLine,
		Type:         v.Type,
	}
	reg.Add(models.DefectRecord{
		Category: models.CategoryUninitialized,
		Severity: models.SeverityWarning,
		Line:     useLine,
		Message:  fmt.Sprintf("variable '%s' is used before it is initialized", v.Name),
		Suggestion: fmt.Sprintf("initialize it at declaration: %s %s = %s;",
			v.Type, v.Name, initializerFor(v.Type)),
		Rationale: "an uninitialized variable holds an indeterminate value",
	})
}
