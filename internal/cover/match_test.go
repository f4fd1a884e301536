package cover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/v8cov/internal/js"
	"github.com/zjy-dev/v8cov/internal/v8"
)

func TestRangeCount_InnermostRangeWins(t *testing.T) {
	// Outer-to-inner reported order: the whole-function range first,
	// then a nested range with a different count.
	ranges := []v8.RangeCov{
		{StartOffset: 0, EndOffset: 100, Count: 1},
		{StartOffset: 10, EndOffset: 20, Count: 5},
	}

	count, err := rangeCount(ranges, js.Span{Start: 12, End: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	// A span outside the nested range falls back to the outer count.
	count, err = rangeCount(ranges, js.Span{Start: 30, End: 40})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRangeCount_NotFound(t *testing.T) {
	ranges := []v8.RangeCov{
		{StartOffset: 10, EndOffset: 20, Count: 5},
	}

	_, err := rangeCount(ranges, js.Span{Start: 0, End: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCountNotFound)

	// Partial overlap is not enclosure.
	_, err = rangeCount(ranges, js.Span{Start: 15, End: 25})
	assert.ErrorIs(t, err, ErrCountNotFound)
}

func TestMatchFunctions_ExactSpanOnly(t *testing.T) {
	roots := []js.FunctionInfo{
		{Span: js.Span{Start: 10, End: 50}},
	}

	// An entry that merely encloses the root must not match it.
	enclosing := []v8.FunctionCov{
		{Ranges: []v8.RangeCov{{StartOffset: 0, EndOffset: 100, Count: 1}}},
	}
	assert.Empty(t, matchFunctions(roots, enclosing))

	exact := []v8.FunctionCov{
		{FunctionName: "f", Ranges: []v8.RangeCov{{StartOffset: 10, EndOffset: 50, Count: 3}}},
	}
	matched := matchFunctions(roots, exact)
	require.Len(t, matched, 1)
	assert.Equal(t, "f", matched[0].FunctionName)
}

func TestMatchFunctions_ConsumeOnce(t *testing.T) {
	// Two roots with the same span and two entries with the same span:
	// the first root takes the last-listed entry, the second root takes
	// the remaining one.
	roots := []js.FunctionInfo{
		{Span: js.Span{Start: 0, End: 10}},
		{Span: js.Span{Start: 0, End: 10}},
	}
	funcs := []v8.FunctionCov{
		{Ranges: []v8.RangeCov{{StartOffset: 0, EndOffset: 10, Count: 1}}},
		{Ranges: []v8.RangeCov{{StartOffset: 0, EndOffset: 10, Count: 2}}},
	}

	matched := matchFunctions(roots, funcs)
	require.Len(t, matched, 2)
	assert.Equal(t, int64(2), matched[0].Ranges[0].Count)
	assert.Equal(t, int64(1), matched[1].Ranges[0].Count)
}

func TestMatchFunctions_SkipsEmptyAndLeftovers(t *testing.T) {
	roots := []js.FunctionInfo{
		{Span: js.Span{Start: 0, End: 10}},
	}
	funcs := []v8.FunctionCov{
		{FunctionName: "empty"},
		{FunctionName: "other", Ranges: []v8.RangeCov{{StartOffset: 20, EndOffset: 30, Count: 4}}},
		{FunctionName: "f", Ranges: []v8.RangeCov{{StartOffset: 0, EndOffset: 10, Count: 1}}},
	}

	// The empty entry and the unmatched "other" entry are discarded
	// without error.
	matched := matchFunctions(roots, funcs)
	require.Len(t, matched, 1)
	assert.Equal(t, "f", matched[0].FunctionName)
}
