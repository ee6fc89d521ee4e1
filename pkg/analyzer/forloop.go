package analyzer

import (
	"regexp"
	"strconv"

	"github.com/rvelez/cmend/pkg/source"
)

// CountedFor is the analyzable shape of a counted for loop: literal start,
// comparison against a literal bound, and a unit step.
type CountedFor struct {
	Var   string
	Start int
	Op    string // < <= > >=
	Limit int
	Inc   bool // true for ++-style, false for ---style
}

var (
	countedForRe = regexp.MustCompile(
		`\bfor\s*\(\s*(?:(?:int|long|short)\s+)?(` + source.IdentPattern + `)\s*=\s*(-?\d+)\s*;` +
			`\s*(` + source.IdentPattern + `)\s*(<=|>=|<|>)\s*(-?\d+)\s*;\s*([^)]*)\)`)
	incStepRe = regexp.MustCompile(`(\+\+\s*` + source.IdentPattern + `|` + source.IdentPattern + `\s*\+\+)\s*$`)
	decStepRe = regexp.MustCompile(`(--\s*` + source.IdentPattern + `|` + source.IdentPattern + `\s*--)\s*$`)
)

// ParseCountedFor extracts a counted loop from the code portion of a line.
// Returns nil when the header does not have a literal start, literal bound,
// and unit increment or decrement on the same variable.
func ParseCountedFor(code string) *CountedFor {
	m := countedForRe.FindStringSubmatch(code)
	if m == nil || m[1] != m[3] {
		return nil
	}
	start, err1 := strconv.Atoi(m[2])
	limit, err2 := strconv.Atoi(m[5])
	if err1 != nil || err2 != nil {
		return nil
	}
	step := m[6]
	if !source.WordRe(m[1]).MatchString(step) {
		return nil
	}
	var inc bool
	switch {
	case incStepRe.MatchString(step):
		inc = true
	case decStepRe.MatchString(step):
		inc = false
	default:
		return nil
	}
	return &CountedFor{Var: m[1], Start: start, Op: m[4], Limit: limit, Inc: inc}
}

// MaxIndex returns the highest index the loop's bounds and step direction
// imply will be visited.
func (l *CountedFor) MaxIndex() int {
	switch l.Op {
	case "<":
		return l.Limit - 1
	case "<=":
		return l.Limit
	default: // > and >= walk downward from the start
		return l.Start
	}
}

// Contradictory reports whether the start, comparison, and step direction
// can never satisfy the exit condition: counting up while the condition
// only holds above the bound, or counting down while it only holds below.
func (l *CountedFor) Contradictory() bool {
	if l.Inc && (l.Op == ">" || l.Op == ">=") && l.Start >= l.Limit {
		return true
	}
	if !l.Inc && (l.Op == "<" || l.Op == "<=") && l.Start <= l.Limit {
		return true
	}
	return false
}
