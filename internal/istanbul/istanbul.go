// Package istanbul defines the source-location-keyed coverage report
// format consumed by downstream coverage tooling, plus helpers for
// serializing and summarizing report documents.
package istanbul

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjy-dev/v8cov/internal/js"
)

// FnDesc describes one function entry of a report.
type FnDesc struct {
	Name string `json:"name"`
	Decl js.Loc `json:"decl"`
	Loc  js.Loc `json:"loc"`
	Line int    `json:"line"`
}

// FileCoverage is the per-file report: statement, function and branch
// hit counts keyed by synthetic ids (s0…, f0…, b0…) with the matching
// location maps. Branch maps are always present but empty: branch
// extraction is not implemented, only the output shape is reserved.
type FileCoverage struct {
	Path         string              `json:"path"`
	StatementMap map[string]js.Loc   `json:"statementMap"`
	S            map[string]int64    `json:"s"`
	FnMap        map[string]FnDesc   `json:"fnMap"`
	F            map[string]int64    `json:"f"`
	BranchMap    map[string]struct{} `json:"branchMap"`
	B            map[string][]int64  `json:"b"`
}

// NewFileCoverage returns an empty report with all maps allocated.
func NewFileCoverage(path string) *FileCoverage {
	return &FileCoverage{
		Path:         path,
		StatementMap: make(map[string]js.Loc),
		S:            make(map[string]int64),
		FnMap:        make(map[string]FnDesc),
		F:            make(map[string]int64),
		BranchMap:    make(map[string]struct{}),
		B:            make(map[string][]int64),
	}
}

// CoverageMap is a whole-run report document, keyed by file path.
type CoverageMap map[string]*FileCoverage

// WriteFile writes the document as indented JSON.
func (cm CoverageMap) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(cm, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal coverage map: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write coverage map: %w", err)
	}
	return nil
}

// LoadFile reads a report document written by WriteFile (or any
// compatible producer).
func LoadFile(path string) (CoverageMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage map: %w", err)
	}
	var cm CoverageMap
	if err := json.Unmarshal(data, &cm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coverage map %s: %w", path, err)
	}
	return cm, nil
}
