// Package cover is the matching-and-aggregation core: it maps the flat
// offset ranges of engine coverage snapshots onto syntax-tree roots and
// statements, and accumulates hit counts across any number of merged
// runs of the same script.
package cover

import (
	"context"
	"fmt"

	"github.com/zjy-dev/v8cov/internal/istanbul"
	"github.com/zjy-dev/v8cov/internal/js"
	"github.com/zjy-dev/v8cov/internal/v8"
)

// ScriptCoverage accumulates coverage for a single parsed source text.
// Construct once per (source, source type) pair, call Add once per
// collected snapshot of that script, then read the report. Instances
// are independent of each other but a single instance is not safe for
// concurrent Add calls.
type ScriptCoverage struct {
	roots []js.FunctionInfo
	stmts []js.StatementInfo

	// Aggregated state, keyed by indices into roots/stmts. Every key
	// registered at construction stays forever; counts never decrease.
	fnCounts   []int64
	fnNames    []string
	registered []bool
	stmtCounts []int64

	path string
}

// New parses the source text and pre-registers every function root and
// every countable statement with a zero count. Registration order is
// the parse traversal order and fixes the report's id assignment for
// the lifetime of the accumulator.
func New(ctx context.Context, source []byte, sourceType js.SourceType) (*ScriptCoverage, error) {
	prog, err := js.Parse(ctx, source, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	sc := &ScriptCoverage{
		roots:      prog.Roots,
		fnCounts:   make([]int64, len(prog.Roots)),
		fnNames:    make([]string, len(prog.Roots)),
		registered: make([]bool, len(prog.Roots)),
	}
	for i, root := range prog.Roots {
		sc.registered[i] = !root.IsProgram
	}

	// Statements with no enclosing root are dropped here and never
	// contribute to output.
	for _, st := range prog.Statements {
		if st.Root < 0 {
			continue
		}
		sc.stmts = append(sc.stmts, st)
	}
	sc.stmtCounts = make([]int64, len(sc.stmts))

	return sc, nil
}

// Add merges one engine snapshot into the accumulated counts. The call
// is all-or-nothing: every match and range lookup completes into a
// pending delta before any state is touched, so a failing Add leaves
// the accumulator exactly as it was.
func (sc *ScriptCoverage) Add(cov v8.ScriptCov) error {
	matched := matchFunctions(sc.roots, cov.Functions)

	fnDelta := make(map[int]int64, len(matched))
	fnName := make(map[int]string, len(matched))
	for ri, fn := range matched {
		if sc.roots[ri].IsProgram {
			continue
		}
		if !sc.registered[ri] {
			return fmt.Errorf("%w: root span [%d,%d)", ErrUnknownNode,
				sc.roots[ri].Span.Start, sc.roots[ri].Span.End)
		}
		fnDelta[ri] = fn.Ranges[0].Count
		fnName[ri] = fn.FunctionName
	}

	// A statement whose root has no match this snapshot keeps its
	// running total: no match means no information this run, not an
	// observed zero.
	stmtDelta := make([]int64, len(sc.stmts))
	for si, st := range sc.stmts {
		fn, ok := matched[st.Root]
		if !ok {
			continue
		}
		count, err := rangeCount(fn.Ranges, st.Span)
		if err != nil {
			return err
		}
		stmtDelta[si] = count
	}

	sc.path = cov.URL
	for ri, delta := range fnDelta {
		sc.fnCounts[ri] += delta
		sc.fnNames[ri] = fnName[ri]
	}
	for si, delta := range stmtDelta {
		sc.stmtCounts[si] += delta
	}
	return nil
}

// Path returns the script URL recorded by the most recent successful
// Add, or the empty string if Add was never called.
func (sc *ScriptCoverage) Path() string {
	return sc.path
}

// ToIstanbul renders the accumulated state as a per-file report.
// Synthetic ids follow the registration order fixed at construction,
// so repeated calls (and repeated constructions from the same source)
// produce identical id sequences. The call does not mutate state and
// is idempotent.
func (sc *ScriptCoverage) ToIstanbul() *istanbul.FileCoverage {
	fc := istanbul.NewFileCoverage(sc.path)

	for si, st := range sc.stmts {
		id := fmt.Sprintf("s%d", si)
		fc.StatementMap[id] = st.Loc
		fc.S[id] = sc.stmtCounts[si]
	}

	fnIdx := 0
	for ri, root := range sc.roots {
		if root.IsProgram {
			continue
		}
		id := fmt.Sprintf("f%d", fnIdx)
		fnIdx++
		fc.FnMap[id] = istanbul.FnDesc{
			Name: sc.fnNames[ri],
			Decl: root.Loc,
			Loc:  root.Loc,
			Line: root.Loc.Start.Line,
		}
		fc.F[id] = sc.fnCounts[ri]
	}

	return fc
}
