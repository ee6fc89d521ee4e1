package fileproc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachFile(t *testing.T) {
	files := []string{"a.c", "b.c", "c.c"}
	results := ForEachFile(files, func(path string) (string, error) {
		return path + ":ok", nil
	})

	sort.Strings(results)
	assert.Equal(t, []string{"a.c:ok", "b.c:ok", "c.c:ok"}, results)
}

func TestForEachFileEmpty(t *testing.T) {
	results := ForEachFile(nil, func(path string) (int, error) { return 0, nil })
	assert.Nil(t, results)
}

func TestForEachFileSkipsErrors(t *testing.T) {
	files := []string{"good.c", "bad.c"}
	results := ForEachFile(files, func(path string) (string, error) {
		if path == "bad.c" {
			return "", errors.New("boom")
		}
		return path, nil
	})
	assert.Equal(t, []string{"good.c"}, results)
}

func TestForEachFileWithProgress(t *testing.T) {
	var ticks atomic.Int64
	files := []string{"a.c", "b.c", "c.c", "d.c"}
	ForEachFileWithProgress(files, func(path string) (struct{}, error) {
		if path == "d.c" {
			return struct{}{}, errors.New("boom")
		}
		return struct{}{}, nil
	}, func() { ticks.Add(1) })

	// Progress ticks for failures too.
	assert.Equal(t, int64(4), ticks.Load())
}

func TestForEachFileCollectErrors(t *testing.T) {
	files := []string{"a.c", "b.c", "c.c"}
	results, errs := ForEachFileCollectErrors(files, func(path string) (string, error) {
		if path == "b.c" {
			return "", errors.New("unreadable")
		}
		return path, nil
	})

	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "b.c", errs.Errors[0].Path)
	assert.Len(t, results, 2)
	assert.Contains(t, errs.Error(), "unreadable")
}

func TestForEachFileCollectErrorsAllClean(t *testing.T) {
	results, errs := ForEachFileCollectErrors([]string{"a.c"}, func(path string) (int, error) {
		return 1, nil
	})
	assert.Nil(t, errs)
	assert.Equal(t, []int{1}, results)
}

func TestForEachFileWithContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := make([]string, 50)
	for i := range files {
		files[i] = fmt.Sprintf("%d.c", i)
	}
	results, errs := ForEachFileWithContext(ctx, files, func(path string) (string, error) {
		return path, nil
	})

	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors())
	assert.Less(t, len(results), len(files))
}

func TestProcessingErrorsMessage(t *testing.T) {
	errs := &ProcessingErrors{}
	assert.Equal(t, "no errors", errs.Error())

	errs.Add("a.c", errors.New("first"))
	assert.Equal(t, "a.c: first", errs.Error())

	errs.Add("b.c", errors.New("second"))
	assert.Contains(t, errs.Error(), "2 files failed")
}
