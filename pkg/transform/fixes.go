package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rvelez/cmend/pkg/analyzer"
	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var (
	braceForParenFixRe = regexp.MustCompile(`(\b(?:if|while)\s*\([^)}]*)\}`)
	bareDeclFixRe      = regexp.MustCompile(`^(\s*)(int|float|char|double|long|short)\s+(` + source.IdentPattern + `)\s*;\s*$`)
	emptyBodyRe        = regexp.MustCompile(`^\s*(if|while|for)\s*\([^)]*\)\s*(;|\{\s*\})\s*$`)
	controlHeaderEndRe = regexp.MustCompile(`^\s*(if|while|for|switch)\s*\([^)]*\)\s*\{?\s*$`)
	selfAssignFixRe    = regexp.MustCompile(`(^\s*|[;{]\s*)` + `(` + source.IdentPattern + `)\s*=\s*(` + source.IdentPattern + `)\s*;`)
	ifAssignCondRe     = regexp.MustCompile(`\b(if)\s*\(([^)]*)\)`)
	bareParamRe        = regexp.MustCompile(`^` + source.IdentPattern + `$`)
	foldArithRe        = regexp.MustCompile(`\b(\d+)\s*([+*])\s*(\d+)\b`)
	plusZeroFixRe      = regexp.MustCompile(`\b(` + source.IdentPattern + `)\s*\+\s*0\b`)
	timesOneFixRe      = regexp.MustCompile(`\b(` + source.IdentPattern + `)\s*\*\s*1\b`)
	printfFixRe        = regexp.MustCompile(`\bprintf\s*\(\s*(` + source.IdentPattern + `)\s*\)`)
	scanfArgsRe        = regexp.MustCompile(`\b(scanf\s*\(\s*"([^"]*)"\s*,)([^;]*)(\))`)
	comparisonRe       = regexp.MustCompile(`==|!=|<=|>=|<|>`)
)

// editOutsideLiterals applies re on the code portion of line, with matches
// located on a literal-masked view so string and char contents never match.
// The trailing line comment is reattached untouched.
func editOutsideLiterals(line string, re *regexp.Regexp, repl func(groups []string) string) string {
	code, comment := source.SplitLineComment(line)
	masked := source.MaskLiterals(code, true)
	locs := re.FindAllStringSubmatchIndex(masked, -1)
	if locs == nil {
		return line
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(code[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for gi := range groups {
			if loc[2*gi] >= 0 {
				groups[gi] = code[loc[2*gi] : loc[2*gi+1]]
			}
		}
		b.WriteString(repl(groups))
		last = loc[1]
	}
	b.WriteString(code[last:])
	return b.String() + comment
}

// matchesOutsideLiterals reports whether re matches the literal-masked code
// portion of line.
func matchesOutsideLiterals(line string, re *regexp.Regexp) bool {
	return re.MatchString(source.Code(line))
}

// fixBraceParenConfusion replaces a closing brace used where a closing
// parenthesis belongs inside an if/while condition.
func fixBraceParenConfusion(line string, stats *models.TransformStats) string {
	if !matchesOutsideLiterals(line, braceForParenFixRe) {
		return line
	}
	stats.ConditionsFixed++
	return editOutsideLiterals(line, braceForParenFixRe, func(g []string) string {
		return g[1] + ")"
	})
}

// insertInitializer turns a bare declaration of a variable flagged
// uninitialized into an initialized one.
func insertInitializer(ctx *analyzer.Context, line string, stats *models.TransformStats) string {
	m := bareDeclFixRe.FindStringSubmatch(source.Code(line))
	if m == nil {
		return line
	}
	if _, flagged := ctx.Uninitialized[m[3]]; !flagged {
		return line
	}
	stats.ExpressionsSimplified++
	return fmt.Sprintf("%s%s %s = %s;", m[1], m[2], m[3], analyzer.InitializerFor(m[2]))
}

// isEmptyControlBody reports a single-line control statement with an empty
// body, like "if (x);" or "while (x) {}".
func isEmptyControlBody(line string) bool {
	return emptyBodyRe.MatchString(source.Code(line))
}

// isControlHeader reports a lone control-structure header line.
func isControlHeader(line string) bool {
	return controlHeaderEndRe.MatchString(source.Code(line))
}

// stripSelfAssignment removes standalone or embedded "x = x;" statements.
// The second return is true when the line had one.
func stripSelfAssignment(line string) (string, bool) {
	found := false
	out := editOutsideLiterals(line, selfAssignFixRe, func(g []string) string {
		if g[2] == g[3] {
			found = true
			return g[1]
		}
		return g[0]
	})
	if !found {
		return line, false
	}
	return out, true
}

// fixAssignmentCondition rewrites an assignment-shaped if condition that
// has no comparison operator into an equality test.
func fixAssignmentCondition(line string, stats *models.TransformStats) string {
	fixed := false
	out := editOutsideLiterals(line, ifAssignCondRe, func(g []string) string {
		cond := g[2]
		if comparisonRe.MatchString(cond) || !strings.Contains(cond, "=") {
			return g[0]
		}
		fixed = true
		return g[1] + " (" + strings.Replace(cond, "=", "==", 1) + ")"
	})
	if fixed {
		stats.ConditionsFixed++
		return out
	}
	return line
}

// appendTerminator adds the missing semicolon to a statement-shaped line.
func appendTerminator(ctx *analyzer.Context, n int, line string, stats *models.TransformStats) string {
	if !analyzer.NeedsTerminator(ctx, n) {
		return line
	}
	code, comment := source.SplitLineComment(line)
	switch trimmed := strings.TrimRight(code, " \t"); {
	case strings.HasSuffix(trimmed, ";"), strings.HasSuffix(trimmed, "{"), strings.HasSuffix(trimmed, "}"):
		return line
	}
	stats.ExpressionsSimplified++
	return strings.TrimRight(code, " \t") + ";" + comment
}

// closeBrackets appends the missing closing brackets for a line with more
// openers than closers, inserting them before a trailing terminator.
func closeBrackets(line string, stats *models.TransformStats) string {
	code, comment := source.SplitLineComment(line)
	masked := source.MaskLiterals(code, true)
	missing := strings.Count(masked, "[") - strings.Count(masked, "]")
	if missing <= 0 {
		return line
	}
	closers := strings.Repeat("]", missing)
	trimmed := strings.TrimRight(code, " \t")
	stats.ExpressionsSimplified++
	if strings.HasSuffix(trimmed, ";") {
		return trimmed[:len(trimmed)-1] + closers + ";" + comment
	}
	return trimmed + closers + comment
}

// defaultParameterTypes prefixes bare parameter names on a function
// definition line with int.
func defaultParameterTypes(ctx *analyzer.Context, n int, line string, stats *models.TransformStats) string {
	if !ctx.DefLines[n] {
		return line
	}
	code, comment := source.SplitLineComment(line)
	open := strings.Index(code, "(")
	closing := strings.Index(code, ")")
	if open < 0 || closing < open {
		return line
	}
	params := strings.Split(code[open+1:closing], ",")
	changed := false
	for i, p := range params {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || trimmed == "void" || trimmed == "..." {
			continue
		}
		if bareParamRe.MatchString(trimmed) && !source.IsReserved(trimmed) {
			params[i] = "int " + trimmed
			changed = true
		} else {
			params[i] = trimmed
		}
	}
	if !changed {
		return line
	}
	stats.FunctionsAdded++
	return code[:open+1] + strings.Join(params, ", ") + code[closing:] + comment
}

// tightenLoopBound rewrites a counted for loop's literal bound down to the
// matching array's declared size when an in-body access at the projected
// maximum index would overflow it.
func tightenLoopBound(ctx *analyzer.Context, lines []string, n int, line string, lookahead int, stats *models.TransformStats) string {
	loop := parseLoopAt(line)
	if loop == nil {
		return line
	}
	arr := overflowedArray(ctx, lines, n, loop, lookahead)
	if arr == nil {
		return line
	}

	var bound int
	switch loop.Op {
	case "<":
		bound = arr.Size
	case "<=":
		bound = arr.Size - 1
	default:
		return line
	}
	re := regexp.MustCompile(`(` + loop.Var + `\s*` + loop.Op + `\s*)` + strconv.Itoa(loop.Limit) + `\b`)
	out := editOutsideLiterals(line, re, func(g []string) string {
		return g[1] + strconv.Itoa(bound)
	})
	if out != line {
		stats.ConditionsFixed++
	}
	return out
}

// fixPrintf inserts the inferred format specifier into a bare-identifier
// printf call.
func fixPrintf(ctx *analyzer.Context, line string, stats *models.TransformStats) string {
	fixed := false
	out := editOutsideLiterals(line, printfFixRe, func(g []string) string {
		if g[1] == strings.ToUpper(g[1]) && strings.ToLower(g[1]) != g[1] {
			return g[0] // all-caps macro, leave alone
		}
		typ := "int"
		if v := ctx.Variables[g[1]]; v != nil {
			typ = v.Type
		}
		fixed = true
		return fmt.Sprintf(`printf("%s", %s)`, analyzer.FormatSpecifierFor(typ), g[1])
	})
	if fixed {
		stats.ExpressionsSimplified++
	}
	return out
}

// fixScanf inserts the address-of operator into bare-identifier scanf
// arguments for every conversion other than %s.
func fixScanf(line string, stats *models.TransformStats) string {
	code, comment := source.SplitLineComment(line)
	m := scanfArgsRe.FindStringSubmatchIndex(code)
	if m == nil {
		return line
	}
	format := code[m[4]:m[5]]
	argText := code[m[6]:m[7]]
	specs := regexp.MustCompile(`%[a-z]+`).FindAllString(format, -1)
	args := strings.Split(argText, ",")
	changed := false
	for i, arg := range args {
		trimmed := strings.TrimSpace(arg)
		if i < len(specs) && specs[i] != "%s" && bareParamRe.MatchString(trimmed) {
			args[i] = " &" + trimmed
			changed = true
		} else {
			args[i] = " " + trimmed
		}
	}
	if !changed {
		return line
	}
	stats.ExpressionsSimplified++
	return code[:m[6]] + strings.Join(args, ",") + code[m[7]:] + comment
}

// foldConstants folds literal additive and multiplicative pairs.
func foldConstants(line string, stats *models.TransformStats) string {
	folded := false
	out := editOutsideLiterals(line, foldArithRe, func(g []string) string {
		a, err1 := strconv.Atoi(g[1])
		b, err2 := strconv.Atoi(g[3])
		if err1 != nil || err2 != nil {
			return g[0]
		}
		folded = true
		if g[2] == "+" {
			return strconv.Itoa(a + b)
		}
		return strconv.Itoa(a * b)
	})
	if folded {
		stats.ConstantsFolded++
	}
	return out
}

// simplifyIdentities rewrites x+0 and x*1 to x.
func simplifyIdentities(line string, stats *models.TransformStats) string {
	simplified := false
	for _, re := range []*regexp.Regexp{plusZeroFixRe, timesOneFixRe} {
		next := editOutsideLiterals(line, re, func(g []string) string {
			simplified = true
			return g[1]
		})
		line = next
	}
	if simplified {
		stats.ExpressionsSimplified++
	}
	return line
}

// parseLoopAt wraps the analyzer's counted-for parser for a raw line.
func parseLoopAt(line string) *analyzer.CountedFor {
	return analyzer.ParseCountedFor(source.Code(line))
}

// overflowedArray finds the first array accessed with the loop variable in
// the bounded body window whose size the loop's projected maximum index
// exceeds.
func overflowedArray(ctx *analyzer.Context, lines []string, n int, loop *analyzer.CountedFor, lookahead int) *analyzer.ArrayInfo {
	maxIdx := loop.MaxIndex()
	end := n + lookahead
	if end > len(lines) {
		end = len(lines)
	}
	names := make([]string, 0, len(ctx.Arrays))
	for name := range ctx.Arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	balance := 0
	opened := false
	for i := n; i <= end; i++ {
		code := source.Code(lines[i-1])
		if i > n {
			for _, name := range names {
				arr := ctx.Arrays[name]
				re := regexp.MustCompile(`\b` + name + `\s*\[\s*` + loop.Var + `\s*\]`)
				if re.MatchString(code) && (maxIdx >= arr.Size || maxIdx < 0) {
					return arr
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
	return nil
}
