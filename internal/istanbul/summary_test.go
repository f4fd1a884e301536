package istanbul

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotals(t *testing.T) {
	fc := sampleFileCoverage("/tmp/f.js")

	totals := Totals(fc)
	assert.Equal(t, 2, totals.Statements)
	assert.Equal(t, 1, totals.CoveredStatements)
	assert.Equal(t, 1, totals.Functions)
	assert.Equal(t, 1, totals.CoveredFunctions)
	assert.InDelta(t, 50.0, totals.StatementPct(), 0.001)
	assert.InDelta(t, 100.0, totals.FunctionPct(), 0.001)
}

func TestTotals_EmptyFileIsFullyCovered(t *testing.T) {
	totals := Totals(NewFileCoverage("/tmp/empty.js"))
	assert.Equal(t, 0, totals.Statements)
	assert.InDelta(t, 100.0, totals.StatementPct(), 0.001)
	assert.InDelta(t, 100.0, totals.FunctionPct(), 0.001)
}

func TestSum(t *testing.T) {
	grand := Sum(
		FileTotals{Statements: 4, CoveredStatements: 1, Functions: 2, CoveredFunctions: 1},
		FileTotals{Statements: 6, CoveredStatements: 4, Functions: 3, CoveredFunctions: 2},
	)
	assert.Equal(t, FileTotals{
		Statements:        10,
		CoveredStatements: 5,
		Functions:         5,
		CoveredFunctions:  3,
	}, grand)
	assert.InDelta(t, 50.0, grand.StatementPct(), 0.001)
	assert.InDelta(t, 60.0, grand.FunctionPct(), 0.001)
}
