package transform

import (
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/source"
)

var (
	compoundOpRe = regexp.MustCompile(`\s*(==|!=|<=|>=|\+=|-=|\*=|/=|%=|&&|\|\|)\s*`)
	singleOpRe   = regexp.MustCompile(`\s*([=+\-*/%<>])\s*`)
	commaSpaceRe = regexp.MustCompile(`\s*,\s*`)
	semiHeaderRe = regexp.MustCompile(`;\s*`)
	includeRe    = regexp.MustCompile(`^\s*#\s*include\b`)
)

// Format re-emits lines with normalized indentation, operator spacing, and
// blank-line discipline. Lines carrying string or character literals keep
// their spacing untouched apart from indentation.
func Format(lines []string, indentWidth int) string {
	indent := strings.Repeat(" ", indentWidth)

	var out []string
	depth := 0
	blanks := 0
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)

		if trimmed == "" {
			blanks++
			if blanks > 1 || len(out) == 0 {
				continue
			}
			out = append(out, "")
			continue
		}
		blanks = 0

		level := depth
		if strings.HasPrefix(trimmed, "}") {
			level--
		}
		if level < 0 {
			level = 0
		}
		if strings.HasPrefix(trimmed, "#") {
			level = 0
		}

		body := trimmed
		if !source.IsComment(trimmed) {
			body = spaceOperators(trimmed)
		}
		out = append(out, strings.Repeat(indent, level)+body)

		code := source.Code(raw)
		depth += strings.Count(code, "{") - strings.Count(code, "}")
		if depth < 0 {
			depth = 0
		}

		if wantsBlankAfter(trimmed, lines, i, depth) {
			out = append(out, "")
			blanks = 1
		}
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}

// wantsBlankAfter separates an include block and top-level definitions with
// a single blank line.
func wantsBlankAfter(trimmed string, lines []string, i, depth int) bool {
	if i+1 >= len(lines) {
		return false
	}
	next := strings.TrimSpace(lines[i+1])
	if next == "" {
		return false
	}
	if includeRe.MatchString(trimmed) && !includeRe.MatchString(next) {
		return true
	}
	if trimmed == "}" && depth == 0 {
		return true
	}
	return false
}

// spaceOperators normalizes operator, comma, and semicolon spacing on a line
// without literals. Lines containing quotes are left alone so literal text
// never shifts.
func spaceOperators(line string) string {
	code, comment := source.SplitLineComment(line)
	if strings.ContainsAny(code, `"'`) || strings.HasPrefix(strings.TrimSpace(code), "#") {
		return line
	}

	// Protect multi-character operators with placeholders so the
	// single-operator pass cannot split them.
	compounds := []string{}
	code = compoundOpRe.ReplaceAllStringFunc(code, func(m string) string {
		compounds = append(compounds, strings.TrimSpace(m))
		return "\x00"
	})
	code = unaryGapRe.ReplaceAllString(code, "$1$2")
	code = protectedOps(code, func(s string) string {
		return singleOpRe.ReplaceAllString(s, " $1 ")
	})
	for _, op := range compounds {
		code = strings.Replace(code, "\x00", " "+op+" ", 1)
	}
	code = commaSpaceRe.ReplaceAllString(code, ", ")
	code = semiHeaderRe.ReplaceAllString(code, "; ")
	code = strings.Join(strings.Fields(code), " ")
	code = reattachUnary(code)
	code = unaryMinusRe.ReplaceAllString(code, "${1} -")
	if comment != "" {
		return code + " " + strings.TrimLeft(comment, " \t")
	}
	return code
}

// protectedOps applies f while keeping ++, --, and -> out of its reach.
func protectedOps(code string, f func(string) string) string {
	code = strings.ReplaceAll(code, "++", "\x01")
	code = strings.ReplaceAll(code, "--", "\x02")
	code = strings.ReplaceAll(code, "->", "\x03")
	code = f(code)
	code = strings.ReplaceAll(code, "\x01", "++")
	code = strings.ReplaceAll(code, "\x02", "--")
	code = strings.ReplaceAll(code, "\x03", "->")
	return code
}

var (
	unaryGapRe   = regexp.MustCompile(`(\w)\s+(\+\+|--)`)
	unaryMinusRe = regexp.MustCompile(`([=(,]) - (?:\s*)`)
)

// reattachUnary closes the gap the operator pass leaves before postfix
// increment and decrement.
func reattachUnary(code string) string {
	return unaryGapRe.ReplaceAllString(code, "$1$2")
}
