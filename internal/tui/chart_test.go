package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRenderChartEmpty(t *testing.T) {
	assert.Equal(t, "Sem dados para exibir", renderChart(nil, nil, 40, 10))
	assert.Equal(t, "Sem dados para exibir", renderChart([]string{"01/05/2024"}, nil, 40, 10))
}

func TestRenderChartPlotsPoints(t *testing.T) {
	out := renderChart([]string{"01/05/2024", "02/05/2024", "03/05/2024"}, []float64{5, 0, 2.5}, 21, 11)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 13)

	assert.True(t, strings.HasPrefix(lines[0], " 5.0 ┤●"), lines[0])
	assert.True(t, strings.HasPrefix(lines[10], " 0.0 ┤"), lines[10])
	assert.Equal(t, '●', []rune(strings.TrimPrefix(lines[10], " 0.0 ┤"))[10])
	assert.True(t, strings.HasPrefix(lines[5], " 2.5 ┤"), lines[5])
	assert.True(t, strings.HasSuffix(lines[5], "●"), lines[5])
	assert.Contains(t, lines[11], "└")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[12]), "01/05/2024"))
	assert.True(t, strings.HasSuffix(lines[12], "03/05/2024"))
}

func TestRenderChartSinglePoint(t *testing.T) {
	out := renderChart([]string{"01/05/2024"}, []float64{4}, 30, 6)
	assert.Equal(t, 1, strings.Count(out, "●"))
	assert.Contains(t, out, "01/05/2024")
}

func TestRenderChartClampsOutOfRange(t *testing.T) {
	out := renderChart([]string{"a", "b"}, []float64{9, -3}, 20, 5)
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[0], "●")
	assert.Contains(t, lines[4], "●")
}

func TestRenderChartOnePointPerPair(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		values := rapid.SliceOfN(rapid.Float64Range(0, 5), n, n).Draw(t, "values")
		dates := make([]string, n+rapid.IntRange(0, 3).Draw(t, "extra"))
		for i := range dates {
			dates[i] = "d"
		}
		out := renderChart(dates, values, 40, 11)

		// points sharing a cell overlap, so count is bounded by n
		got := strings.Count(out, "●")
		if got < 1 || got > n {
			t.Fatalf("got %d points for %d values", got, n)
		}
		if lines := strings.Split(out, "\n"); len(lines) != 13 {
			t.Fatalf("got %d lines", len(lines))
		}
	})
}
