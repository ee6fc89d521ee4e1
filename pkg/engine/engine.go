// Package engine ties the analyzer and transformer together behind a small
// facade suitable for embedding.
package engine

import (
	"fmt"

	"github.com/rvelez/cmend/pkg/analyzer"
	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/transform"
)

// Options bundles the analyzer and transformer configurations.
type Options struct {
	Analyzer  analyzer.Options
	Transform transform.Options
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		Analyzer:  analyzer.DefaultOptions(),
		Transform: transform.DefaultOptions(),
	}
}

// Engine runs analysis and transformation over single sources.
type Engine struct {
	analyzer    *analyzer.Analyzer
	transformer *transform.Transformer
}

// New creates an engine with default options.
func New() *Engine { return NewWithOptions(DefaultOptions()) }

// NewWithOptions creates an engine with custom options.
func NewWithOptions(opts Options) *Engine {
	return &Engine{
		analyzer:    analyzer.NewWithOptions(opts.Analyzer),
		transformer: transform.NewWithOptions(opts.Transform),
	}
}

// Analyze runs every enabled detection pass over source and returns the
// defect registry's snapshot.
func (e *Engine) Analyze(src string) (res *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("analysis failed: %v", r)
		}
	}()
	_, res = e.analyzer.AnalyzeContext(src)
	return res, nil
}

// AnalyzeAndTransform analyzes source and then rewrites it guided by the
// analysis context. The returned defects describe the input, not the
// rewritten output.
func (e *Engine) AnalyzeAndTransform(src string) (res *models.RefactorResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("analysis failed: %v", r)
		}
	}()
	ctx, analysis := e.analyzer.AnalyzeContext(src)

	tr, err := e.transformer.Apply(e.analyzer, ctx)
	if err != nil {
		return nil, err
	}
	return &models.RefactorResult{
		Defects:      analysis.Defects,
		Summary:      analysis.Summary,
		Source:       tr.Source,
		Stats:        tr.Stats,
		RemovedLines: tr.RemovedLines(),
	}, nil
}
