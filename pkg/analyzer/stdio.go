package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var (
	barePrintfRe = regexp.MustCompile(`\bprintf\s*\(\s*(` + source.IdentPattern + `)\s*\)`)
	scanfRe      = regexp.MustCompile(`\bscanf\s*\(\s*"([^"]*)"\s*,([^;]*)\)`)
	specifierRe  = regexp.MustCompile(`%[a-z]+`)
	bareIdentRe  = regexp.MustCompile(`^` + source.IdentPattern + `$`)
)

// isMacroName reports whether name looks like an all-caps macro constant.
func isMacroName(name string) bool {
	return name == strings.ToUpper(name) && strings.ToLower(name) != name
}

// checkFormatStrings validates the argument shape of printf and scanf
// calls: a printf whose sole argument is a bare identifier needs a format
// string; a scanf conversion other than %s needs an address-of on its
// argument.
func (a *Analyzer) checkFormatStrings(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		// Keep literal contents here: scanf format parsing needs them.
		code, _ := source.SplitLineComment(raw)

		if m := barePrintfRe.FindStringSubmatch(code); m != nil && !isMacroName(m[1]) {
			typ := "int"
			if v := ctx.Variables[m[1]]; v != nil {
				typ = v.Type
			}
			spec := formatSpecifierFor(typ)
			reg.Add(models.DefectRecord{
				Category:   models.CategoryFormatString,
				Severity:   models.SeverityError,
				Line:       n,
				Message:    fmt.Sprintf("printf called with bare identifier '%s' instead of a format string", m[1]),
				Suggestion: fmt.Sprintf(`printf("%s", %s);`, spec, m[1]),
				Rationale:  "passing a non-literal as the format string misprints the value and is unsafe",
			})
		}

		if m := scanfRe.FindStringSubmatch(code); m != nil {
			specs := specifierRe.FindAllString(m[1], -1)
			args := strings.Split(m[2], ",")
			for i, spec := range specs {
				if spec == "%s" || i >= len(args) {
					continue
				}
				arg := strings.TrimSpace(args[i])
				if !bareIdentRe.MatchString(arg) {
					continue
				}
				reg.Add(models.DefectRecord{
					Category:   models.CategoryFormatString,
					Severity:   models.SeverityError,
					Line:       n,
					Message:    fmt.Sprintf("scanf argument '%s' for '%s' is missing the address-of operator", arg, spec),
					Suggestion: fmt.Sprintf("&%s", arg),
					Rationale:  "scanf writes through a pointer; a bare value corrupts memory or crashes",
				})
			}
		}
	}
}
