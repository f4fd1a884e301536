// Package v8 models coverage snapshots produced by the V8 profiler
// (Profiler.takePreciseCoverage / NODE_V8_COVERAGE files) and provides
// loading, filtering and merging utilities for them.
package v8

// RangeCov is a single offset range with its hit count.
// The span [StartOffset, EndOffset) is half-open.
type RangeCov struct {
	StartOffset uint32 `json:"startOffset"`
	EndOffset   uint32 `json:"endOffset"`
	Count       int64  `json:"count"`
}

// FunctionCov is the coverage entry for one function-shaped unit.
// Ranges is never empty; Ranges[0] always spans the whole function and
// carries the function's own invocation count.
type FunctionCov struct {
	FunctionName    string     `json:"functionName"`
	Ranges          []RangeCov `json:"ranges"`
	IsBlockCoverage bool       `json:"isBlockCoverage"`
}

// ScriptCov is one complete coverage sample for a single script.
type ScriptCov struct {
	ScriptID  string        `json:"scriptId"`
	URL       string        `json:"url"`
	Functions []FunctionCov `json:"functions"`
}

// ProcessCov is the envelope V8 writes around a set of script snapshots.
type ProcessCov struct {
	Result []ScriptCov `json:"result"`
}
