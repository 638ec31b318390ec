package tui

import (
	"fmt"
	"math"
	"strings"
)

// chartMax is the top of the rating scale plotted on the y axis
const chartMax = 5.0

// renderChart draws values as an ASCII line chart with a 0..5 y axis. dates
// label the first and last points on the x axis.
func renderChart(dates []string, values []float64, width, height int) string {
	n := len(values)
	if len(dates) < n {
		n = len(dates)
	}
	if n == 0 {
		return "Sem dados para exibir"
	}
	if width < 10 {
		width = 10
	}
	if height < 3 {
		height = 3
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	col := func(i int) int {
		if n == 1 {
			return 0
		}
		return i * (width - 1) / (n - 1)
	}
	row := func(v float64) int {
		v = math.Max(0, math.Min(chartMax, v))
		return int(math.Round((chartMax - v) / chartMax * float64(height-1)))
	}

	for i := 0; i+1 < n; i++ {
		x0, x1 := col(i), col(i+1)
		for x := x0 + 1; x < x1; x++ {
			t := float64(x-x0) / float64(x1-x0)
			v := values[i] + (values[i+1]-values[i])*t
			grid[row(v)][x] = '·'
		}
	}
	for i := 0; i < n; i++ {
		grid[row(values[i])][col(i)] = '●'
	}

	var b strings.Builder
	for r, line := range grid {
		label := "     "
		switch r {
		case 0:
			label = fmt.Sprintf("%4.1f ", chartMax)
		case height - 1:
			label = fmt.Sprintf("%4.1f ", 0.0)
		case (height - 1) / 2:
			label = fmt.Sprintf("%4.1f ", chartMax/2)
		}
		b.WriteString(label)
		b.WriteString("┤")
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteString("\n")
	}
	b.WriteString("     └")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")

	first, last := dates[0], dates[n-1]
	gap := width - len([]rune(first)) - len([]rune(last))
	b.WriteString("      ")
	b.WriteString(first)
	if n > 1 && gap > 0 {
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(last)
	}
	return b.String()
}
