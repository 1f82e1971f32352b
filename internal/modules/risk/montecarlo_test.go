package risk

import (
	"testing"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_Shape(t *testing.T) {
	stream := makeStream(120)

	ensemble, err := SimulateSeeded(DefaultSeed, stream, 1000)
	require.NoError(t, err)

	assert.Len(t, ensemble.Paths, 1000)
	for _, p := range ensemble.Paths {
		require.Len(t, p, Horizon)
	}
	assert.Equal(t, DefaultSeed, ensemble.Seed)
	assert.Equal(t, StressMultiplier, ensemble.StressedBy)
	assert.InDelta(t, formulas.Mean(stream.Values()), ensemble.Mu, 1e-15)
	assert.InDelta(t, 3*formulas.StdDev(stream.Values()), ensemble.Sigma, 1e-15)
}

func TestSimulate_Deterministic(t *testing.T) {
	stream := makeStream(120)

	a, err := SimulateSeeded(42, stream, 200)
	require.NoError(t, err)
	b, err := SimulateSeeded(42, stream, 200)
	require.NoError(t, err)
	c, err := SimulateSeeded(43, stream, 200)
	require.NoError(t, err)

	assert.Equal(t, a.Paths, b.Paths)
	assert.NotEqual(t, a.Paths, c.Paths)
}

func TestSimulate_UsesOnlyCallerSource(t *testing.T) {
	stream := makeStream(50)

	a, err := Simulate(formulas.NewSource(9), stream, 5)
	require.NoError(t, err)
	b, err := Simulate(formulas.NewSource(9), stream, 5)
	require.NoError(t, err)

	assert.Equal(t, a.Paths, b.Paths)
}

func TestSimulate_InsufficientHistory(t *testing.T) {
	_, err := SimulateSeeded(1, makeStream(1), 100)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)

	_, err = SimulateSeeded(1, makeStream(10), 0)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	ensemble, err := SimulateSeeded(DefaultSeed, makeStream(120), 1000)
	require.NoError(t, err)

	summary := Summarize(ensemble, SamplePathLimit)

	assert.Equal(t, 1000, summary.PathCount)
	assert.Len(t, summary.Bands, Horizon)
	assert.Len(t, summary.SamplePaths, SamplePathLimit)
	assert.Equal(t, ensemble.Paths[0], summary.SamplePaths[0])

	for _, band := range summary.Bands {
		assert.LessOrEqual(t, band.P05, band.P50)
		assert.LessOrEqual(t, band.P50, band.P95)
	}
	assert.Equal(t, 1, summary.Bands[0].Step)
	assert.Equal(t, summary.Bands[Horizon-1].P50, summary.FinalP50)
}

func TestSummarize_SamplePathsDetached(t *testing.T) {
	ensemble, err := SimulateSeeded(DefaultSeed, makeStream(120), 5000)
	require.NoError(t, err)

	summary := Summarize(ensemble, SamplePathLimit)

	require.Len(t, summary.SamplePaths, SamplePathLimit)
	// no slack past the sample, so the remaining paths are not reachable
	assert.Equal(t, len(summary.SamplePaths), cap(summary.SamplePaths))

	summary.SamplePaths[0] = nil
	assert.NotNil(t, ensemble.Paths[0])
}

func TestSummarize_FewPaths(t *testing.T) {
	ensemble, err := SimulateSeeded(DefaultSeed, makeStream(30), 3)
	require.NoError(t, err)

	summary := Summarize(ensemble, SamplePathLimit)
	assert.Len(t, summary.SamplePaths, 3)

	empty := Summarize(&domain.MonteCarloEnsemble{Steps: Horizon}, SamplePathLimit)
	assert.Empty(t, empty.Bands)
	assert.Empty(t, empty.SamplePaths)
}
