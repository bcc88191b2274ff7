package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/cutlist/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(0.125, 0.15)

	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current", scenarios[0].Name)
	assert.Equal(t, 0.125, scenarios[0].KerfWidth)
	assert.Equal(t, "Half kerf (0.063\")", scenarios[1].Name)
	assert.Equal(t, 0.0625, scenarios[1].KerfWidth)
	assert.Equal(t, "Zero kerf", scenarios[2].Name)
	assert.Equal(t, "No overage", scenarios[3].Name)
	assert.Equal(t, 0.0, scenarios[3].OverageFactor)
	assert.Equal(t, 0.125, scenarios[3].KerfWidth)
}

func TestBuildDefaultScenarios_NoVariants(t *testing.T) {
	scenarios := BuildDefaultScenarios(0, 0)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "Current", scenarios[0].Name)
}

func TestCompareScenarios(t *testing.T) {
	parts := []model.Part{part("a", 48, 12, "s1"), part("b", 48, 12, "s1")}
	stocks := []model.Stock{boardStock("s1", 96, 12)}

	results := testOptimizer().CompareScenarios(BuildDefaultScenarios(0.125, 0.5), parts, stocks, "")

	require.Len(t, results, 4)
	current, zero, noOverage := results[0], results[2], results[3]

	assert.Equal(t, 2, current.BoardsUsed)
	assert.Equal(t, 3, current.BoardsNeeded)
	assert.Equal(t, 0, current.SkippedCount)

	assert.Equal(t, 1, zero.BoardsUsed, "without kerf both halves fit one board")
	assert.Less(t, zero.EstimatedCost, current.EstimatedCost)
	assert.InDelta(t, 0, zero.WastePercent, 1e-9)

	assert.Equal(t, 2, noOverage.BoardsNeeded)
	assert.Equal(t, 0.125, noOverage.CutList.KerfWidth)
}
