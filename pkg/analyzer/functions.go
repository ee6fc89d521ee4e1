package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var paramShapeRe = regexp.MustCompile(
	`^(void|int|float|char|double|long|short)\s*\*?\s*` + source.IdentPattern + `\s*(\[\s*\d*\s*\])?$`)

// sortedFunctions returns the function table ordered by declaration line
// then name, so map iteration never leaks into output order.
func sortedFunctions(ctx *Context) []*FunctionInfo {
	fns := make([]*FunctionInfo, 0, len(ctx.Functions))
	for _, fn := range ctx.Functions {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Line != fns[j].Line {
			return fns[i].Line < fns[j].Line
		}
		return fns[i].Name < fns[j].Name
	})
	return fns
}

// checkFunctions reports undefined calls, uncalled functions, definitions
// with no body, and malformed parameters. It populates the undefined and
// unused side-collections consumed by the transformation engine.
func (a *Analyzer) checkFunctions(ctx *Context, reg *Registry) {
	a.checkUndefinedCalls(ctx, reg)
	a.checkUnusedFunctions(ctx, reg)
	a.checkFunctionBodies(ctx, reg)
	a.checkParameters(ctx, reg)
}

func (a *Analyzer) checkUndefinedCalls(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		if ctx.DefLines[n] {
			continue
		}
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		for _, name := range source.CallSites(source.Code(raw)) {
			if ctx.Functions[name] != nil || source.IsStdlib(name) {
				continue
			}
			ctx.UndefinedFuncs[name] = true
			reg.Add(models.DefectRecord{
				Category:   models.CategoryUndefinedFunction,
				Severity:   models.SeverityCritical,
				Line:       n,
				Message:    fmt.Sprintf("call to undefined function '%s'", name),
				Suggestion: fmt.Sprintf("define '%s' or remove the call", name),
			})
		}
	}
}

func (a *Analyzer) checkUnusedFunctions(ctx *Context, reg *Registry) {
	var unused []string
	for _, fn := range sortedFunctions(ctx) {
		name := fn.Name
		if name == "main" || ctx.Called[name] {
			continue
		}
		ctx.UnusedFuncs[name] = true
		unused = append(unused, name)
		reg.Add(models.DefectRecord{
			Category:   models.CategoryUnusedFunction,
			Severity:   models.SeverityWarning,
			Line:       fn.Line,
			Message:    fmt.Sprintf("function '%s' is defined but never called", name),
			Suggestion: fmt.Sprintf("remove '%s' or call it", name),
		})
	}
	if len(unused) == 0 {
		return
	}
	sort.Strings(unused)
	first := ctx.File.Len()
	for _, name := range unused {
		if l := ctx.Functions[name].Line; l < first {
			first = l
		}
	}
	reg.Add(models.DefectRecord{
		Category: models.CategoryUnusedFunction,
		Severity: models.SeverityInfo,
		Line:     first,
		Message:  fmt.Sprintf("uncalled functions: %s", strings.Join(unused, ", ")),
	})
}

func (a *Analyzer) checkFunctionBodies(ctx *Context, reg *Registry) {
	for _, fn := range sortedFunctions(ctx) {
		if fn.HasBody {
			continue
		}
		found := false
		for off := 1; off <= a.opts.BodySearchLines; off++ {
			if strings.Contains(source.Code(ctx.File.Line(fn.Line+off)), "{") {
				found = true
				break
			}
		}
		if found {
			continue
		}
		reg.Add(models.DefectRecord{
			Category:   models.CategoryMissingBody,
			Severity:   models.SeverityError,
			Line:       fn.Line,
			Message:    fmt.Sprintf("function '%s' has no body", fn.Name),
			Suggestion: "add '{ ... }' after the parameter list",
		})
	}
}

func (a *Analyzer) checkParameters(ctx *Context, reg *Registry) {
	for _, fn := range sortedFunctions(ctx) {
		if fn.RawParams == "" {
			continue
		}
		for _, param := range strings.Split(fn.RawParams, ",") {
			param = strings.TrimSpace(param)
			if param == "" || param == "void" || param == "..." {
				continue
			}
			if paramShapeRe.MatchString(param) {
				continue
			}
			reg.Add(models.DefectRecord{
				Category:   models.CategoryBadParameter,
				Severity:   models.SeverityError,
				Line:       fn.Line,
				Message:    fmt.Sprintf("parameter '%s' of '%s' is not of the form 'type name'", param, fn.Name),
				Suggestion: "declare each parameter as 'type name'",
			})
		}
	}
}

// checkReturns warns when a non-void, non-main function body contains no
// return statement.
func (a *Analyzer) checkReturns(ctx *Context, reg *Registry) {
	for _, fn := range sortedFunctions(ctx) {
		if fn.Name == "main" || fn.ReturnType == "void" || !fn.HasBody {
			continue
		}
		balance := 0
		opened := false
		hasReturn := false
		end := fn.Line
		for n := fn.Line; n <= ctx.File.Len(); n++ {
			code := source.Code(ctx.File.Line(n))
			if strings.Contains(code, "return") && source.ContainsWord(ctx.File.Line(n), "return") {
				hasReturn = true
			}
			balance += strings.Count(code, "{") - strings.Count(code, "}")
			if strings.Contains(code, "{") {
				opened = true
			}
			end = n
			if opened && balance <= 0 {
				break
			}
		}
		if !hasReturn {
			reg.Add(models.DefectRecord{
				Category:   models.CategoryMissingReturn,
				Severity:   models.SeverityWarning,
				Line:       end,
				Message:    fmt.Sprintf("function '%s' returns %s but has no return statement", fn.Name, fn.ReturnType),
				Suggestion: fmt.Sprintf("return a %s value before the closing brace", fn.ReturnType),
			})
		}
	}
}
