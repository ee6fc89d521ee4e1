package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rvelez/cmend/pkg/analyzer"
	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

// Options configures the transformation engine.
type Options struct {
	// Rename applies the descriptive-name substitution map.
	Rename bool
	// IndentWidth is the formatter's spaces per nesting level.
	IndentWidth int
	// LoopLookahead bounds the dead-loop body scans.
	LoopLookahead int
	// ArrayLookahead bounds the loop-bound tightening body scan.
	ArrayLookahead int
}

// DefaultOptions returns the standard transformation configuration.
func DefaultOptions() Options {
	return Options{
		Rename:         true,
		IndentWidth:    4,
		LoopLookahead:  30,
		ArrayLookahead: 20,
	}
}

// Transformer rewrites a program guided by a completed analysis context.
type Transformer struct {
	opts Options
}

// New creates a transformer with default options.
func New() *Transformer { return NewWithOptions(DefaultOptions()) }

// NewWithOptions creates a transformer with custom options.
func NewWithOptions(opts Options) *Transformer {
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = 4
	}
	if opts.LoopLookahead <= 0 {
		opts.LoopLookahead = 30
	}
	if opts.ArrayLookahead <= 0 {
		opts.ArrayLookahead = 20
	}
	return &Transformer{opts: opts}
}

// Result is the output of one transformation run.
type Result struct {
	Source  string
	Stats   models.TransformStats
	Removed *roaring.Bitmap // 1-based input line numbers dropped
}

// RemovedLines returns the dropped input line numbers in ascending order.
func (r *Result) RemovedLines() []int {
	out := make([]int, 0, r.Removed.GetCardinality())
	it := r.Removed.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// state is the transformation engine's per-line mode.
type state int

const (
	stateNormal state = iota
	stateSkipDead
	stateSkipUnused
	stateSkipNext
)

type outLine struct {
	text string
	orig int
}

var deadCondOpenRe = regexp.MustCompile(`\b(if|while)\s*\(\s*(0|false)\s*\)`)

// Apply runs the three transformation passes: the state-machine line walk,
// the unreachable-code sweep, and the formatter. An internal invariant
// violation is recovered into an error rather than crashing the caller.
func (t *Transformer) Apply(an *analyzer.Analyzer, ctx *analyzer.Context) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("transformation aborted: %v", r)
		}
	}()

	result := &Result{Removed: roaring.New()}
	renames := map[string]string{}
	if t.opts.Rename {
		renames = BuildRenameMap(ctx)
	}
	applied := make(map[string]bool)

	kept := t.walkLines(an, ctx, result, renames, applied)
	result.Stats.VariablesRenamed = len(applied)

	kept = t.sweepUnreachable(kept, result)

	texts := make([]string, len(kept))
	for i, l := range kept {
		texts[i] = l.text
	}
	result.Source = Format(texts, t.opts.IndentWidth)
	return result, nil
}

// walkLines is the priority-ordered state machine over the input lines.
func (t *Transformer) walkLines(an *analyzer.Analyzer, ctx *analyzer.Context, res *Result, renames map[string]string, applied map[string]bool) []outLine {
	lines := ctx.File.Lines()
	var out []outLine

	st := stateNormal
	balance := 0
	opened := false
	enterSkip := func(n int, next state, code string) {
		balance = strings.Count(code, "{") - strings.Count(code, "}")
		opened = strings.Contains(code, "{")
		res.Removed.Add(uint32(n))
		if opened && balance <= 0 {
			t.countSkip(res, next)
			return
		}
		st = next
	}

	for n := 1; n <= len(lines); n++ {
		raw := lines[n-1]
		code := source.Code(raw)

		switch st {
		case stateSkipNext:
			res.Removed.Add(uint32(n))
			res.Stats.DeadCodeRemoved++
			st = stateNormal
			continue
		case stateSkipDead, stateSkipUnused:
			if balance < 0 {
				panic("brace balance underflow while skipping a block")
			}
			balance += strings.Count(code, "{") - strings.Count(code, "}")
			if strings.Contains(code, "{") {
				opened = true
			}
			res.Removed.Add(uint32(n))
			if opened && balance <= 0 {
				t.countSkip(res, st)
				st = stateNormal
			}
			continue
		}

		if fn := unusedFunctionAt(ctx, n); fn != nil {
			enterSkip(n, stateSkipUnused, code)
			continue
		}

		if hasUndefinedCall(ctx, code) {
			res.Removed.Add(uint32(n))
			res.Stats.DeadCodeRemoved++
			continue
		}

		line := raw
		line = fixBraceParenConfusion(line, &res.Stats)
		line = insertInitializer(ctx, line, &res.Stats)

		if deadCondOpenRe.MatchString(source.Code(line)) && !isEmptyControlBody(line) {
			enterSkip(n, stateSkipDead, code)
			continue
		}

		if isUnusedVarDecl(ctx, line) {
			res.Removed.Add(uint32(n))
			res.Stats.UnusedRemoved++
			continue
		}

		if stripped, had := stripSelfAssignment(line); had {
			res.Stats.ExpressionsSimplified++
			if strings.TrimSpace(source.Code(stripped)) == "" {
				res.Removed.Add(uint32(n))
				continue
			}
			line = stripped
		}

		if isEmptyControlBody(line) {
			res.Removed.Add(uint32(n))
			res.Stats.DeadCodeRemoved++
			continue
		}

		if isControlHeader(line) && strings.HasSuffix(strings.TrimSpace(source.Code(line)), "{") &&
			strings.TrimSpace(source.Code(ctx.File.Line(n+1))) == "}" {
			res.Removed.Add(uint32(n))
			res.Stats.DeadCodeRemoved++
			st = stateSkipNext
			continue
		}

		if cls := an.ClassifyLoop(ctx, n); cls != analyzer.LoopTerminates {
			enterSkip(n, stateSkipDead, code)
			continue
		}

		line = appendTerminator(ctx, n, line, &res.Stats)
		line = closeBrackets(line, &res.Stats)
		line = defaultParameterTypes(ctx, n, line, &res.Stats)
		line = fixAssignmentCondition(line, &res.Stats)
		line = tightenLoopBound(ctx, lines, n, line, t.opts.ArrayLookahead, &res.Stats)
		line = fixPrintf(ctx, line, &res.Stats)
		line = fixScanf(line, &res.Stats)
		line = foldConstants(line, &res.Stats)
		line = simplifyIdentities(line, &res.Stats)
		line = applyRenames(line, renames, applied)

		out = append(out, outLine{text: line, orig: n})
	}
	return out
}

func (t *Transformer) countSkip(res *Result, st state) {
	if st == stateSkipUnused {
		res.Stats.UnusedRemoved++
	} else {
		res.Stats.DeadCodeRemoved++
	}
}

// sweepUnreachable repeats the after-return elimination over the surviving
// lines, discarding anything between a return and the next closing brace.
func (t *Transformer) sweepUnreachable(lines []outLine, res *Result) []outLine {
	var out []outLine
	afterReturn := false
	for _, l := range lines {
		code := source.Code(l.text)
		trimmed := strings.TrimSpace(code)
		if afterReturn {
			// A leading "}" closes the returning block; "} else {" must
			// survive, its arm is live.
			if strings.HasPrefix(trimmed, "}") {
				afterReturn = false
			} else if trimmed != "" && !source.IsComment(l.text) {
				res.Removed.Add(uint32(l.orig))
				res.Stats.DeadCodeRemoved++
				continue
			}
		}
		if source.WordRe("return").MatchString(code) && !strings.HasSuffix(trimmed, "{") {
			afterReturn = true
		}
		out = append(out, l)
	}
	return out
}

// unusedFunctionAt returns the unused function whose definition header is
// at line n, if any.
func unusedFunctionAt(ctx *analyzer.Context, n int) *analyzer.FunctionInfo {
	if !ctx.DefLines[n] {
		return nil
	}
	for _, fn := range ctx.Functions {
		if fn.Line == n && ctx.UnusedFuncs[fn.Name] {
			return fn
		}
	}
	return nil
}

// hasUndefinedCall reports whether any call site on the code view targets
// an undefined function. Policy: the entire line is dropped.
func hasUndefinedCall(ctx *analyzer.Context, code string) bool {
	for _, name := range source.CallSites(code) {
		if ctx.UndefinedFuncs[name] {
			return true
		}
	}
	return false
}

var unusedDeclRe = regexp.MustCompile(
	`^\s*(int|float|char|double|long|short)\s+(` + source.IdentPattern + `)\s*(=[^;]*)?;\s*$`)

// isUnusedVarDecl reports a single-variable declaration of an unused
// variable whose initializer, if any, carries no call that could have side
// effects.
func isUnusedVarDecl(ctx *analyzer.Context, line string) bool {
	m := unusedDeclRe.FindStringSubmatch(source.Code(line))
	if m == nil || !ctx.UnusedVars[m[2]] {
		return false
	}
	if m[3] != "" && len(source.CallSites(m[3])) > 0 {
		return false
	}
	return true
}

// applyRenames substitutes every mapped identifier occurrence outside
// literals, recording which entries actually fired.
func applyRenames(line string, renames map[string]string, applied map[string]bool) string {
	if len(renames) == 0 {
		return line
	}
	olds := make([]string, 0, len(renames))
	for old := range renames {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	for _, old := range olds {
		re := source.WordRe(old)
		if !re.MatchString(source.Code(line)) {
			continue
		}
		fresh := renames[old]
		line = editOutsideLiterals(line, re, func([]string) string { return fresh })
		applied[old] = true
	}
	return line
}
