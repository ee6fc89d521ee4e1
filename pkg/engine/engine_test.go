package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvelez/cmend/pkg/models"
	"github.com/rvelez/cmend/pkg/transform"
)

func TestAnalyze(t *testing.T) {
	eng := New()
	res, err := eng.Analyze(`int main() {
    int unused;
    return 0;
}
`)
	require.NoError(t, err)
	require.Len(t, res.Defects, 1)
	assert.Equal(t, models.CategoryUnusedVariable, res.Defects[0].Category)
	assert.Equal(t, 2, res.Defects[0].Line)
	assert.Equal(t, 4, res.Lines)
}

func TestAnalyzeEmptySource(t *testing.T) {
	res, err := New().Analyze("")
	require.NoError(t, err)
	assert.Empty(t, res.Defects)
	assert.Equal(t, 1, res.Lines)
}

func TestAnalyzeAndTransform(t *testing.T) {
	eng := New()
	res, err := eng.AnalyzeAndTransform(`int main() {
    int x = 5;
    printf(x);
    return 0;
}
`)
	require.NoError(t, err)

	// Defects describe the input.
	require.Len(t, res.Defects, 1)
	assert.Equal(t, models.CategoryFormatString, res.Defects[0].Category)

	assert.Contains(t, res.Source, `printf("%d", counter);`)
	assert.Equal(t, 1, res.Stats.ExpressionsSimplified)
	assert.Equal(t, 1, res.Stats.VariablesRenamed)
	assert.Empty(t, res.RemovedLines)
}

func TestAnalyzeAndTransformRemovals(t *testing.T) {
	eng := New()
	res, err := eng.AnalyzeAndTransform(`int main() {
    if (0) {
        x = 1;
    }
    return 0;
}
`)
	require.NoError(t, err)
	assert.False(t, strings.Contains(res.Source, "if"))
	assert.Equal(t, []int{2, 3, 4}, res.RemovedLines)
	assert.Equal(t, 1, res.Stats.DeadCodeRemoved)
}

func TestAnalyzeAndTransformCleanSource(t *testing.T) {
	src := `int main() {
    return 0;
}
`
	res, err := New().AnalyzeAndTransform(src)
	require.NoError(t, err)
	assert.Equal(t, src, res.Source)
	assert.True(t, res.Stats.Empty())
}

func TestNewWithOptionsDisablesRename(t *testing.T) {
	opts := DefaultOptions()
	opts.Transform = transform.Options{Rename: false}
	eng := NewWithOptions(opts)

	res, err := eng.AnalyzeAndTransform(`int main() {
    int x = 5;
    printf(x);
    return 0;
}
`)
	require.NoError(t, err)
	assert.Contains(t, res.Source, `printf("%d", x);`)
	assert.Zero(t, res.Stats.VariablesRenamed)
}
