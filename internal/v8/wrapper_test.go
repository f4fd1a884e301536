package v8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap_RebasesOffsets(t *testing.T) {
	// 12-byte prefix, 2-byte suffix around an 11-byte body.
	source := "(function(){var a = 1;\n})"
	cov := ScriptCov{
		ScriptID: "1",
		URL:      "file:///tmp/a.js",
		Functions: []FunctionCov{
			{
				FunctionName: "",
				Ranges: []RangeCov{
					{StartOffset: 0, EndOffset: 25, Count: 1},
					{StartOffset: 12, EndOffset: 23, Count: 2},
				},
			},
		},
	}

	unwrapped, out := Unwrap(source, cov, 12, 2)
	assert.Equal(t, "var a = 1;\n", unwrapped)

	require.Len(t, out.Functions, 1)
	ranges := out.Functions[0].Ranges

	// The wrapper-spanning range clamps to the body.
	assert.Equal(t, RangeCov{StartOffset: 0, EndOffset: 11, Count: 1}, ranges[0])
	// The body range shifts by the prefix length.
	assert.Equal(t, RangeCov{StartOffset: 0, EndOffset: 11, Count: 2}, ranges[1])

	// Inputs stay untouched.
	assert.Equal(t, uint32(12), cov.Functions[0].Ranges[1].StartOffset)
}

func TestUnwrapSource(t *testing.T) {
	assert.Equal(t, "var a = 1;\n", UnwrapSource("(function(){var a = 1;\n})", 12, 2))
	assert.Equal(t, "x;\n", UnwrapSource("x;\n", 10, 10))
	assert.Equal(t, "x;\n", UnwrapSource("x;\n", -1, -1))

	// Unwrap rebases onto exactly this text.
	unwrapped, _ := Unwrap("(function(){var a = 1;\n})", ScriptCov{}, 12, 2)
	assert.Equal(t, UnwrapSource("(function(){var a = 1;\n})", 12, 2), unwrapped)
}

func TestUnwrap_WrapperLargerThanSource(t *testing.T) {
	cov := ScriptCov{Functions: []FunctionCov{
		{Ranges: []RangeCov{{StartOffset: 0, EndOffset: 3, Count: 1}}},
	}}

	unwrapped, out := Unwrap("x;\n", cov, 10, 10)
	assert.Equal(t, "x;\n", unwrapped)
	assert.Equal(t, cov, out)
}

func TestUnwrap_NegativeLengthsIgnored(t *testing.T) {
	cov := ScriptCov{Functions: []FunctionCov{
		{Ranges: []RangeCov{{StartOffset: 0, EndOffset: 3, Count: 1}}},
	}}

	unwrapped, out := Unwrap("x;\n", cov, -1, -1)
	assert.Equal(t, "x;\n", unwrapped)
	assert.Equal(t, cov.Functions[0].Ranges, out.Functions[0].Ranges)
}
