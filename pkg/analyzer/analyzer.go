// Package analyzer implements the detection engine: a symbol-extraction
// pass followed by a fixed sequence of heuristic passes that share a
// mutable analysis context and append findings to a deduplicating registry.
//
// The passes are pattern-based approximations, not proofs. In particular
// the loop-termination checks will miss real infinite loops and flag
// terminating ones; this is a documented limitation, not a bug to fix with
// real termination analysis.
package analyzer

import (
	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/source"
)

// VariableInfo describes one declared scalar variable. Redeclaration
// overwrites the earlier entry; there is no scoping model.
type VariableInfo struct {
	Name        string
	Type        string
	Line        int
	Initialized bool
}

// ArrayInfo describes one declared array with a literal size. Arrays with
// non-literal sizes are not modeled.
type ArrayInfo struct {
	Name     string
	ElemType string
	Size     int
	Line     int
}

// FunctionInfo describes one function definition.
type FunctionInfo struct {
	Name       string
	ReturnType string
	RawParams  string
	Line       int
	HasBody    bool
}

// UninitUse records a variable read before any initializing assignment.
type UninitUse struct {
	DeclLine     int
	FirstUseLine int
	Type         string
}

// Context carries the symbol tables and the side-collections the passes
// communicate through. A fresh Context is built per invocation; nothing
// survives across runs.
type Context struct {
	File *source.File

	Variables map[string]*VariableInfo
	Arrays    map[string]*ArrayInfo
	Functions map[string]*FunctionInfo

	// Called is the set of syntactic call-site names.
	Called map[string]bool
	// DefLines marks lines recognized as function-definition headers.
	DefLines map[int]bool

	// Side-collections populated by passes, read by later passes and by
	// the transformation engine.
	UndefinedFuncs map[string]bool
	UnusedFuncs    map[string]bool
	UnusedVars     map[string]bool
	Uninitialized  map[string]*UninitUse
}

func newContext(f *source.File) *Context {
	return &Context{
		File:           f,
		Variables:      make(map[string]*VariableInfo),
		Arrays:         make(map[string]*ArrayInfo),
		Functions:      make(map[string]*FunctionInfo),
		Called:         make(map[string]bool),
		DefLines:       make(map[int]bool),
		UndefinedFuncs: make(map[string]bool),
		UnusedFuncs:    make(map[string]bool),
		UnusedVars:     make(map[string]bool),
		Uninitialized:  make(map[string]*UninitUse),
	}
}

// Options configures the detection passes.
type Options struct {
	// LoopLookahead bounds the break/return search below a loop header.
	LoopLookahead int
	// ArrayLookahead bounds the body scan for array accesses inside a loop.
	ArrayLookahead int
	// BodySearchLines is how far below a function header to look for its
	// opening brace.
	BodySearchLines int

	// Per-pass enables. The zero value of Options is all-off; use
	// DefaultOptions for the standard pipeline.
	Brackets       bool
	Control        bool
	Semicolons     bool
	Functions      bool
	Returns        bool
	Conditions     bool
	Variables      bool
	Unreachable    bool
	Expressions    bool
	FormatStrings  bool
	ArrayBounds    bool
	InfiniteLoops  bool
}

// DefaultOptions returns the standard configuration with every pass on.
func DefaultOptions() Options {
	return Options{
		LoopLookahead:   30,
		ArrayLookahead:  20,
		BodySearchLines: 2,
		Brackets:        true,
		Control:         true,
		Semicolons:      true,
		Functions:       true,
		Returns:         true,
		Conditions:      true,
		Variables:       true,
		Unreachable:     true,
		Expressions:     true,
		FormatStrings:   true,
		ArrayBounds:     true,
		InfiniteLoops:   true,
	}
}

// Analyzer runs the detection pipeline.
type Analyzer struct {
	opts Options
}

// New creates an analyzer with default options.
func New() *Analyzer { return NewWithOptions(DefaultOptions()) }

// NewWithOptions creates an analyzer with custom options.
func NewWithOptions(opts Options) *Analyzer {
	if opts.LoopLookahead <= 0 {
		opts.LoopLookahead = 30
	}
	if opts.ArrayLookahead <= 0 {
		opts.ArrayLookahead = 20
	}
	if opts.BodySearchLines <= 0 {
		opts.BodySearchLines = 2
	}
	return &Analyzer{opts: opts}
}

// Options returns the analyzer's effective options.
func (a *Analyzer) Options() Options { return a.opts }

// pass is one detection step. Passes run in a fixed order because later
// passes read side-collections populated by earlier ones.
type pass struct {
	name    string
	enabled func(Options) bool
	run     func(*Analyzer, *Context, *Registry)
}

var passes = []pass{
	{"brackets", func(o Options) bool { return o.Brackets }, (*Analyzer).checkDelimiters},
	{"control", func(o Options) bool { return o.Control }, (*Analyzer).checkControlStructures},
	{"semicolons", func(o Options) bool { return o.Semicolons }, (*Analyzer).checkSemicolons},
	{"functions", func(o Options) bool { return o.Functions }, (*Analyzer).checkFunctions},
	{"returns", func(o Options) bool { return o.Returns }, (*Analyzer).checkReturns},
	{"conditions", func(o Options) bool { return o.Conditions }, (*Analyzer).checkConditions},
	{"variables", func(o Options) bool { return o.Variables }, (*Analyzer).checkVariables},
	{"unreachable", func(o Options) bool { return o.Unreachable }, (*Analyzer).checkUnreachable},
	{"expressions", func(o Options) bool { return o.Expressions }, (*Analyzer).checkExpressions},
	{"format-strings", func(o Options) bool { return o.FormatStrings }, (*Analyzer).checkFormatStrings},
	{"array-bounds", func(o Options) bool { return o.ArrayBounds }, (*Analyzer).checkArrayBounds},
	{"infinite-loops", func(o Options) bool { return o.InfiniteLoops }, (*Analyzer).checkInfiniteLoops},
}

// Analyze runs detection over raw source text and returns the deduplicated,
// line-ordered defect list. It never fails: unparseable constructs simply
// match no heuristic.
func (a *Analyzer) Analyze(text string) *models.AnalysisResult {
	_, reg := a.run(text)
	return reg.Result()
}

// AnalyzeContext runs detection and additionally returns the analysis
// context for consumption by the transformation engine.
func (a *Analyzer) AnalyzeContext(text string) (*Context, *models.AnalysisResult) {
	ctx, reg := a.run(text)
	return ctx, reg.Result()
}

func (a *Analyzer) run(text string) (*Context, *Registry) {
	f := source.Split(text)
	ctx := newContext(f)
	reg := NewRegistry(f.Len())

	a.extractSymbols(ctx)
	for _, p := range passes {
		if p.enabled(a.opts) {
			p.run(a, ctx, reg)
		}
	}
	return ctx, reg
}

// PassNames returns the pipeline pass names in execution order.
func PassNames() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// initializerFor returns the default initializer literal for a declared type.
func initializerFor(typ string) string {
	switch typ {
	case "float":
		return "0.0"
	case "double":
		return "0.0"
	case "char":
		return "'\\0'"
	default:
		return "0"
	}
}

// formatSpecifierFor returns the printf/scanf conversion for a declared type.
func formatSpecifierFor(typ string) string {
	switch typ {
	case "float":
		return "%f"
	case "double":
		return "%lf"
	case "char":
		return "%c"
	case "long":
		return "%ld"
	default:
		return "%d"
	}
}

// InitializerFor exposes the per-type default initializer to the
// transformation engine.
func InitializerFor(typ string) string { return initializerFor(typ) }

// FormatSpecifierFor exposes the per-type conversion specifier to the
// transformation engine.
func FormatSpecifierFor(typ string) string { return formatSpecifierFor(typ) }
