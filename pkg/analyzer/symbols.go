package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rvelez/cmend/pkg/source"
)

var (
	funcDefRe = regexp.MustCompile(
		`^\s*(void|int|float|char|double|long|short)\s+(` + source.IdentPattern + `)\s*\(([^)]*)\)`)
	declRe = regexp.MustCompile(
		`\b(int|float|char|double|long|short)\s+(` + source.IdentPattern + `[^;]*)`)
	arrayDeclRe  = regexp.MustCompile(`^(` + source.IdentPattern + `)\s*\[\s*(\d+)\s*\]`)
	scalarDeclRe = regexp.MustCompile(`^(` + source.IdentPattern + `)\s*(=\s*(.*))?$`)
)

// extractSymbols builds the variable, array, and function tables plus the
// call-site set from the raw lines. Later declarations of the same name
// overwrite earlier ones.
func (a *Analyzer) extractSymbols(ctx *Context) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) || source.IsBlank(raw) {
			continue
		}
		code := source.Code(raw)

		if m := funcDefRe.FindStringSubmatch(code); m != nil && !source.IsReserved(m[2]) && !source.IsStdlib(m[2]) {
			hasBody := strings.Contains(code, "{") ||
				strings.Contains(source.Code(ctx.File.Line(n+1)), "{")
			ctx.Functions[m[2]] = &FunctionInfo{
				Name:       m[2],
				ReturnType: m[1],
				RawParams:  strings.TrimSpace(m[3]),
				Line:       n,
				HasBody:    hasBody,
			}
			ctx.DefLines[n] = true
			continue
		}

		a.extractDeclarations(ctx, n, code)

		for _, name := range source.CallSites(code) {
			ctx.Called[name] = true
		}
	}
}

// extractDeclarations records scalar and array declarations found on one
// line, handling comma-separated multi-declaration.
func (a *Analyzer) extractDeclarations(ctx *Context, n int, code string) {
	m := declRe.FindStringSubmatch(code)
	if m == nil {
		return
	}
	typ := m[1]
	rest := m[2]
	if idx := strings.Index(rest, ";"); idx >= 0 {
		rest = rest[:idx]
	}

	for _, decl := range strings.Split(rest, ",") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		if am := arrayDeclRe.FindStringSubmatch(decl); am != nil {
			size, err := strconv.Atoi(am[2])
			if err != nil || source.IsReserved(am[1]) {
				continue
			}
			ctx.Arrays[am[1]] = &ArrayInfo{Name: am[1], ElemType: typ, Size: size, Line: n}
			continue
		}
		if strings.Contains(decl, "[") {
			// Non-literal array size: not modeled, excluded from bounds
			// checking.
			continue
		}
		if sm := scalarDeclRe.FindStringSubmatch(decl); sm != nil && !source.IsReserved(sm[1]) {
			ctx.Variables[sm[1]] = &VariableInfo{
				Name:        sm[1],
				Type:        typ,
				Line:        n,
				Initialized: strings.Contains(decl, "="),
			}
		}
	}
}
