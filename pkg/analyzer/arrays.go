package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

// sortedArrays returns the array table ordered by declaration line then
// name.
func sortedArrays(ctx *Context) []*ArrayInfo {
	arrs := make([]*ArrayInfo, 0, len(ctx.Arrays))
	for _, a := range ctx.Arrays {
		arrs = append(arrs, a)
	}
	sort.Slice(arrs, func(i, j int) bool {
		if arrs[i].Line != arrs[j].Line {
			return arrs[i].Line < arrs[j].Line
		}
		return arrs[i].Name < arrs[j].Name
	})
	return arrs
}

func literalAccessRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + name + `\s*\[\s*(-?\d+)\s*\]`)
}

func variableAccessRe(name, loopVar string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + name + `\s*\[\s*` + loopVar + `\s*\]`)
}

// checkArrayBounds flags literal-index accesses outside an array's declared
// size, and for loops whose projected maximum index overruns an array
// accessed with the loop variable inside the body.
func (a *Analyzer) checkArrayBounds(ctx *Context, reg *Registry) {
	a.checkLiteralAccesses(ctx, reg)
	a.checkLoopAccesses(ctx, reg)
}

func (a *Analyzer) checkLiteralAccesses(ctx *Context, reg *Registry) {
	for _, arr := range sortedArrays(ctx) {
		re := literalAccessRe(arr.Name)
		for n := 1; n <= ctx.File.Len(); n++ {
			raw := ctx.File.Line(n)
			if source.IsComment(raw) || source.IsPreprocessor(raw) {
				continue
			}
			matches := re.FindAllStringSubmatch(source.Code(raw), -1)
			if n == arr.Line && len(matches) > 0 {
				// The first match on the declaration line is the
				// declarator itself.
				matches = matches[1:]
			}
			for _, m := range matches {
				idx, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				if idx >= arr.Size || idx < 0 {
					reg.Add(a.boundsDefect(arr, n, idx))
				}
			}
		}
	}
}

func (a *Analyzer) checkLoopAccesses(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		loop := ParseCountedFor(source.Code(raw))
		if loop == nil {
			continue
		}
		maxIdx := loop.MaxIndex()

		end := n + a.opts.ArrayLookahead
		if end > ctx.File.Len() {
			end = ctx.File.Len()
		}
		balance := 0
		opened := false
		for body := n; body <= end; body++ {
			code := source.Code(ctx.File.Line(body))
			if body > n {
				for _, arr := range sortedArrays(ctx) {
					if !variableAccessRe(arr.Name, loop.Var).MatchString(code) {
						continue
					}
					if maxIdx >= arr.Size || maxIdx < 0 {
						reg.Add(a.boundsDefect(arr, body, maxIdx))
					}
				}
			}
			balance += strings.Count(code, "{") - strings.Count(code, "}")
			if strings.Contains(code, "{") {
				opened = true
			}
			if opened && balance <= 0 {
				break
			}
		}
	}
}

func (a *Analyzer) boundsDefect(arr *ArrayInfo, line, idx int) models.DefectRecord {
	return models.DefectRecord{
		Category: models.CategoryArrayBounds,
		Severity: models.SeverityCritical,
		Line:     line,
		Message: fmt.Sprintf("index %d is out of bounds for '%s' (valid range 0-%d)",
			idx, arr.Name, arr.Size-1),
		Suggestion: fmt.Sprintf("keep the index below %d", arr.Size),
		Rationale:  "reading or writing past the end of an array corrupts adjacent memory",
	}
}
