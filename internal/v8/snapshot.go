package v8

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadFile reads a coverage snapshot file. Both layouts V8 emits are
// accepted: a bare JSON array of script entries, or the
// {"result": [...]} envelope written by NODE_V8_COVERAGE and the
// inspector protocol.
func LoadFile(path string) ([]ScriptCov, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var scripts []ScriptCov
		if err := json.Unmarshal(data, &scripts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal coverage array %s: %w", path, err)
		}
		return scripts, nil
	}

	var proc ProcessCov
	if err := json.Unmarshal(data, &proc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coverage file %s: %w", path, err)
	}
	return proc.Result, nil
}

// LoadDir loads every *.json snapshot file in a directory, sorted by
// file name so repeated runs merge in a stable order.
func LoadDir(dir string) ([]ScriptCov, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list coverage dir: %w", err)
	}
	sort.Strings(paths)

	var all []ScriptCov
	for _, p := range paths {
		scripts, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, scripts...)
	}
	return all, nil
}

// IsFileScript reports whether a snapshot describes an on-disk script.
// Dynamically evaluated code and engine internals carry URLs that cannot
// be resolved to source text, so they are excluded from conversion.
func IsFileScript(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if strings.HasPrefix(rawURL, "node:") || strings.HasPrefix(rawURL, "evalmachine.") {
		return false
	}
	if strings.Contains(rawURL, "://") {
		return strings.HasPrefix(rawURL, "file://")
	}
	return true
}

// URLToPath resolves a script URL to a filesystem path. Plain paths are
// returned as-is; file:// URLs are decoded.
func URLToPath(rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "file://") {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse script url %q: %w", rawURL, err)
	}
	return u.Path, nil
}

// MergeScriptCov folds b into a copy of a, producing the synthetic
// snapshot equivalent to observing both runs. Functions are matched by
// the span of ranges[0]; within a matched pair, counts of identical
// range spans are summed and ranges unique to either side are kept.
// Functions of b with no counterpart in a are appended.
func MergeScriptCov(a, b ScriptCov) ScriptCov {
	merged := ScriptCov{
		ScriptID:  a.ScriptID,
		URL:       a.URL,
		Functions: make([]FunctionCov, len(a.Functions)),
	}
	for i, fn := range a.Functions {
		merged.Functions[i] = cloneFunctionCov(fn)
	}

	for _, bfn := range b.Functions {
		if len(bfn.Ranges) == 0 {
			continue
		}
		idx := -1
		for i, afn := range merged.Functions {
			if len(afn.Ranges) == 0 {
				continue
			}
			if afn.Ranges[0].StartOffset == bfn.Ranges[0].StartOffset &&
				afn.Ranges[0].EndOffset == bfn.Ranges[0].EndOffset {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged.Functions = append(merged.Functions, cloneFunctionCov(bfn))
			continue
		}
		merged.Functions[idx] = mergeFunctionCov(merged.Functions[idx], bfn)
	}
	return merged
}

// MergeProcessCov merges any number of snapshot sets into one, grouping
// scripts by URL. Script order follows first appearance.
func MergeProcessCov(covs ...[]ScriptCov) []ScriptCov {
	var order []string
	byURL := make(map[string]ScriptCov)

	for _, scripts := range covs {
		for _, sc := range scripts {
			prev, ok := byURL[sc.URL]
			if !ok {
				order = append(order, sc.URL)
				clone := ScriptCov{ScriptID: sc.ScriptID, URL: sc.URL}
				for _, fn := range sc.Functions {
					clone.Functions = append(clone.Functions, cloneFunctionCov(fn))
				}
				byURL[sc.URL] = clone
				continue
			}
			byURL[sc.URL] = MergeScriptCov(prev, sc)
		}
	}

	merged := make([]ScriptCov, 0, len(order))
	for _, u := range order {
		merged = append(merged, byURL[u])
	}
	return merged
}

func cloneFunctionCov(fn FunctionCov) FunctionCov {
	out := fn
	out.Ranges = make([]RangeCov, len(fn.Ranges))
	copy(out.Ranges, fn.Ranges)
	return out
}

func mergeFunctionCov(a, b FunctionCov) FunctionCov {
	out := cloneFunctionCov(a)
	if out.FunctionName == "" {
		out.FunctionName = b.FunctionName
	}
	out.IsBlockCoverage = out.IsBlockCoverage || b.IsBlockCoverage

	for _, br := range b.Ranges {
		found := false
		for i, ar := range out.Ranges {
			if ar.StartOffset == br.StartOffset && ar.EndOffset == br.EndOffset {
				out.Ranges[i].Count += br.Count
				found = true
				break
			}
		}
		if !found {
			out.Ranges = append(out.Ranges, br)
		}
	}
	return out
}
