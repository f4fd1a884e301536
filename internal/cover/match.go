package cover

import (
	"fmt"

	"github.com/zjy-dev/v8cov/internal/js"
	"github.com/zjy-dev/v8cov/internal/v8"
)

// rangeCount resolves the hit count for a node span from a function's
// range list. Ranges are scanned in reverse of reported order: the
// engine lists overlapping ranges outer-to-inner, so the first
// enclosing range found from the back is the innermost one and carries
// the correct nested count.
func rangeCount(ranges []v8.RangeCov, span js.Span) (int64, error) {
	for i := len(ranges) - 1; i >= 0; i-- {
		r := ranges[i]
		if r.StartOffset <= span.Start && span.End <= r.EndOffset {
			return r.Count, nil
		}
	}
	return 0, fmt.Errorf("%w: span [%d,%d)", ErrCountNotFound, span.Start, span.End)
}

// matchFunctions pairs syntactic roots with engine function entries.
// Roots are visited in traversal order; for each, the remaining
// unconsumed engine entries are scanned last-to-first for one whose
// ranges[0] span equals the root's span exactly. Enclosure is not
// enough: an entry that merely overlaps a root must never match it.
//
// Roots without an exact match are simply absent from the result (never
// executed, or the synthetic program root claimed by the whole-script
// entry). Engine entries left unmatched are discarded.
func matchFunctions(roots []js.FunctionInfo, funcs []v8.FunctionCov) map[int]v8.FunctionCov {
	matched := make(map[int]v8.FunctionCov, len(roots))
	consumed := make([]bool, len(funcs))

	for ri, root := range roots {
		for fi := len(funcs) - 1; fi >= 0; fi-- {
			if consumed[fi] || len(funcs[fi].Ranges) == 0 {
				continue
			}
			r0 := funcs[fi].Ranges[0]
			if r0.StartOffset == root.Span.Start && r0.EndOffset == root.Span.End {
				consumed[fi] = true
				matched[ri] = funcs[fi]
				break
			}
		}
	}
	return matched
}
