package analyzer

import (
	"regexp"
	"strings"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

var (
	whileTrueRe  = regexp.MustCompile(`\bwhile\s*\(\s*(1|true)\s*\)`)
	foreverForRe = regexp.MustCompile(`\bfor\s*\(\s*;\s*;\s*\)`)
	whileVarRe   = regexp.MustCompile(`\bwhile\s*\(\s*(` + source.IdentPattern + `)\s*\)`)
	whileCmpRe   = regexp.MustCompile(`\bwhile\s*\(\s*(` + source.IdentPattern + `)\s*(==|!=|<=|>=|<|>)\s*-?\d+\s*\)`)
	breakWordRe  = regexp.MustCompile(`\b(break|return)\b`)
)

// LoopClassification tags a line that opens a loop the heuristics consider
// non-terminating. The transformation engine uses it to drop the block.
type LoopClassification int

const (
	LoopTerminates LoopClassification = iota
	LoopWhileTrue
	LoopForeverFor
	LoopContradictoryFor
	LoopUnchangedCondition
)

// checkInfiniteLoops runs the four loop-termination heuristics. All are
// bounded, pattern-based approximations; they both miss real infinite
// loops and flag some terminating ones.
func (a *Analyzer) checkInfiniteLoops(ctx *Context, reg *Registry) {
	for n := 1; n <= ctx.File.Len(); n++ {
		raw := ctx.File.Line(n)
		if source.IsComment(raw) || source.IsPreprocessor(raw) {
			continue
		}
		switch a.ClassifyLoop(ctx, n) {
		case LoopWhileTrue:
			reg.Add(loopDefect(n, "'while (1)' has no break or return within its body",
				"add a break, a return, or a real exit condition"))
		case LoopForeverFor:
			reg.Add(loopDefect(n, "'for (;;)' loops forever",
				"add a condition or an explicit break"))
		case LoopContradictoryFor:
			reg.Add(loopDefect(n, "loop bounds and step direction can never satisfy the exit condition",
				"flip the comparison or the step direction"))
		case LoopUnchangedCondition:
			reg.Add(loopDefect(n, "loop condition variable is never moved toward the exit condition",
				"modify the condition variable inside the body"))
		}
	}
}

func loopDefect(line int, msg, suggestion string) models.DefectRecord {
	return models.DefectRecord{
		Category:   models.CategoryInfiniteLoop,
		Severity:   models.SeverityError,
		Line:       line,
		Message:    msg,
		Suggestion: suggestion,
		Rationale:  "pattern-based check; it cannot prove non-termination, only report the shape",
	}
}

// ClassifyLoop applies the four §-style heuristics to the loop header at
// line n, returning LoopTerminates when none fires.
func (a *Analyzer) ClassifyLoop(ctx *Context, n int) LoopClassification {
	code := source.Code(ctx.File.Line(n))

	if foreverForRe.MatchString(code) {
		return LoopForeverFor
	}
	if whileTrueRe.MatchString(code) {
		if !a.bodyBreaksOut(ctx, n) {
			return LoopWhileTrue
		}
		return LoopTerminates
	}
	if loop := ParseCountedFor(code); loop != nil {
		if loop.Contradictory() && !a.bodyBreaksOut(ctx, n) {
			return LoopContradictoryFor
		}
		return LoopTerminates
	}
	if m := whileCmpRe.FindStringSubmatch(code); m != nil {
		if !a.bodyReassigns(ctx, n, m[1]) && !a.bodyBreaksOut(ctx, n) {
			return LoopUnchangedCondition
		}
		return LoopTerminates
	}
	if m := whileVarRe.FindStringSubmatch(code); m != nil && !source.IsReserved(m[1]) {
		if a.bodyOnlyIncrements(ctx, n, m[1]) && !a.bodyBreaksOut(ctx, n) {
			return LoopUnchangedCondition
		}
	}
	return LoopTerminates
}

// bodyBreaksOut searches the loop body, bounded by the lookahead window,
// for a break or return before the closing brace. On the header line only
// the text after the opening brace counts, so single-line bodies like
// "while (1) { if (x) break; }" are still seen.
func (a *Analyzer) bodyBreaksOut(ctx *Context, n int) bool {
	end := n + a.opts.LoopLookahead
	if end > ctx.File.Len() {
		end = ctx.File.Len()
	}
	balance := 0
	opened := false
	for i := n; i <= end; i++ {
		code := source.Code(ctx.File.Line(i))
		body := code
		if i == n {
			body = headerTail(code)
		}
		if breakWordRe.MatchString(body) {
			return true
		}
		balance += strings.Count(code, "{") - strings.Count(code, "}")
		if strings.Contains(code, "{") {
			opened = true
		}
		if opened && balance <= 0 {
			break
		}
	}
	return false
}

// headerTail returns the part of a loop header line after its opening
// brace, or "" when the body starts on a later line.
func headerTail(code string) string {
	if idx := strings.Index(code, "{"); idx >= 0 {
		return code[idx+1:]
	}
	return ""
}

// bodyReassigns reports whether any line of the loop body writes to name.
func (a *Analyzer) bodyReassigns(ctx *Context, n int, name string) bool {
	mutators := []*regexp.Regexp{
		regexp.MustCompile(`\b` + name + `\s*(\+\+|--|=[^=]|[-+*/%]=)`),
		regexp.MustCompile(`(\+\+|--)\s*` + name + `\b`),
	}
	return a.scanBody(ctx, n, func(code string) bool {
		for _, re := range mutators {
			if re.MatchString(code) {
				return true
			}
		}
		return false
	})
}

// bodyOnlyIncrements reports whether the body increments name and never
// zeroes or decrements it.
func (a *Analyzer) bodyOnlyIncrements(ctx *Context, n int, name string) bool {
	incRe := regexp.MustCompile(`\b` + name + `\s*(\+\+|\+=)|\+\+\s*` + name + `\b`)
	downRe := regexp.MustCompile(`\b` + name + `\s*(--|-=|=[^=])|--\s*` + name + `\b`)
	incremented := false
	lowered := false
	a.scanBody(ctx, n, func(code string) bool {
		if incRe.MatchString(code) {
			incremented = true
		}
		if downRe.MatchString(code) {
			lowered = true
		}
		return false
	})
	return incremented && !lowered
}

// scanBody walks the loop body within the lookahead window, calling fn per
// line; stops early when fn returns true or the body closes.
func (a *Analyzer) scanBody(ctx *Context, n int, fn func(code string) bool) bool {
	end := n + a.opts.LoopLookahead
	if end > ctx.File.Len() {
		end = ctx.File.Len()
	}
	balance := 0
	opened := false
	for i := n; i <= end; i++ {
		code := source.Code(ctx.File.Line(i))
		body := code
		if i == n {
			body = headerTail(code)
		}
		if fn(body) {
			return true
		}
		balance += strings.Count(code, "{") - strings.Count(code, "}")
		if strings.Contains(code, "{") {
			opened = true
		}
		if opened && balance <= 0 {
			break
		}
	}
	return false
}
