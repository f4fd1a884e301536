package istanbul

// FileTotals holds covered/total counters for one file.
type FileTotals struct {
	Statements        int
	CoveredStatements int
	Functions         int
	CoveredFunctions  int
}

// StatementPct returns statement coverage as a percentage (0-100).
// An empty denominator counts as fully covered.
func (t FileTotals) StatementPct() float64 {
	return pct(t.CoveredStatements, t.Statements)
}

// FunctionPct returns function coverage as a percentage (0-100).
func (t FileTotals) FunctionPct() float64 {
	return pct(t.CoveredFunctions, t.Functions)
}

func pct(covered, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return float64(covered) / float64(total) * 100.0
}

// Totals computes per-file counters; an entry is covered when its
// accumulated count is positive.
func Totals(fc *FileCoverage) FileTotals {
	var t FileTotals
	for _, count := range fc.S {
		t.Statements++
		if count > 0 {
			t.CoveredStatements++
		}
	}
	for _, count := range fc.F {
		t.Functions++
		if count > 0 {
			t.CoveredFunctions++
		}
	}
	return t
}

// Sum folds a set of per-file totals into a grand total.
func Sum(totals ...FileTotals) FileTotals {
	var out FileTotals
	for _, t := range totals {
		out.Statements += t.Statements
		out.CoveredStatements += t.CoveredStatements
		out.Functions += t.Functions
		out.CoveredFunctions += t.CoveredFunctions
	}
	return out
}
