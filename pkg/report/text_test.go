package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
	"github.com/Sumatoshi-tech/guilt/pkg/report"
)

func lineDelta(author string, since, until int) guilt.Delta {
	return guilt.Delta{Author: author, Since: since, Until: until, Kind: guilt.KindLine}
}

func byteDelta(author string, since, until int) guilt.Delta {
	return guilt.Delta{Author: author, Since: since, Until: until, Kind: guilt.KindByte}
}

func render(t *testing.T, lines, bytesDeltas []guilt.Delta, opts report.TextOptions) string {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, report.NewBarChart(lines, bytesDeltas, opts).Write(&buf))

	return buf.String()
}

func TestBarChart_UnscaledBars(t *testing.T) {
	t.Parallel()

	out := render(t, []guilt.Delta{
		lineDelta("short", 30, 45),
		lineDelta("Very Long Name", 10, 7),
	}, nil, report.TextOptions{Width: 80})

	assert.Equal(t,
		" short          | 15 +++++++++++++++\n"+
			" Very Long Name | -3 ---\n",
		out)
}

func TestBarChart_BinaryRows(t *testing.T) {
	t.Parallel()

	out := render(t, nil, []guilt.Delta{
		byteDelta("short", 30, 45),
		byteDelta("Very Long Name", 10, 7),
	}, report.TextOptions{Width: 80})

	assert.Equal(t,
		" short          | Bin 30 -> 45 bytes\n"+
			" Very Long Name | Bin 10 -> 7 bytes\n",
		out)
}

func TestBarChart_MixedKindsAreSeparated(t *testing.T) {
	t.Parallel()

	out := render(t,
		[]guilt.Delta{lineDelta("Alice", 0, 120), lineDelta("Bob", 4, 0)},
		[]guilt.Delta{byteDelta("Carol", 100, 2048)},
		report.TextOptions{Width: 80})

	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, rows, 4)

	assert.Equal(t, "---", rows[2])
	assert.Equal(t, " Carol | Bin 100 -> 2048 bytes", rows[3])
	assert.Equal(t, " Alice | 120 "+strings.Repeat("+", 67), rows[0])
	assert.Equal(t, " Bob   |  -4 ---", rows[1])
}

func TestBarChart_NoSeparatorWithoutLines(t *testing.T) {
	t.Parallel()

	out := render(t,
		[]guilt.Delta{lineDelta("Zero", 5, 5)},
		[]guilt.Delta{byteDelta("Carol", 1, 2)},
		report.TextOptions{Width: 80})

	assert.Equal(t, " Carol | Bin 1 -> 2 bytes\n", out)
}

func TestBarChart_SuppressesZeroCounts(t *testing.T) {
	t.Parallel()

	out := render(t,
		[]guilt.Delta{lineDelta("Mover", 1, 3), lineDelta("Stayer", 9, 9)},
		[]guilt.Delta{byteDelta("Same", 4, 4)},
		report.TextOptions{Width: 80})

	assert.NotContains(t, out, "Stayer")
	assert.NotContains(t, out, "Same")
	assert.NotContains(t, out, "---\n")
}

func TestBarChart_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, render(t, nil, nil, report.TextOptions{}))
}

func TestBarChart_ScalesLongBars(t *testing.T) {
	t.Parallel()

	deltas := []guilt.Delta{
		lineDelta("big", 0, 1000),
		lineDelta("mid", 0, 500),
		lineDelta("tiny", 1, 0),
	}
	chart := report.NewBarChart(deltas, nil, report.TextOptions{Width: 40})

	// 40 - (5 + len("tiny") + len("1000"))
	require.Equal(t, 27, chart.BarBudget())
	assert.Equal(t, 27, chart.ScaleBar(1000))
	assert.Equal(t, 14, chart.ScaleBar(500))
	assert.Equal(t, 1, chart.ScaleBar(1))
	assert.Zero(t, chart.ScaleBar(0))

	for _, d := range deltas {
		row := chart.FormatDelta(d)
		assert.LessOrEqual(t, len(row), 40, row)
	}
}

func TestBarChart_NarrowTerminalKeepsOneColumn(t *testing.T) {
	t.Parallel()

	chart := report.NewBarChart([]guilt.Delta{lineDelta("someone", 0, 50)}, nil, report.TextOptions{Width: 5})

	assert.Equal(t, 1, chart.BarBudget())
	assert.Equal(t, 1, chart.ScaleBar(50))
}

func TestBarChart_WideCharactersAlign(t *testing.T) {
	t.Parallel()

	out := render(t, []guilt.Delta{
		lineDelta("山田", 0, 2),
		lineDelta("Bob", 0, 1),
	}, nil, report.TextOptions{Width: 80})

	assert.Equal(t,
		" 山田 | 2 ++\n"+
			" Bob  | 1 +\n",
		out)
}

func TestBarChart_Colors(t *testing.T) {
	t.Parallel()

	chart := report.NewBarChart(
		[]guilt.Delta{lineDelta("a", 0, 2), lineDelta("b", 1, 0)},
		[]guilt.Delta{byteDelta("c", 5, 9), byteDelta("d", 9, 5)},
		report.TextOptions{Width: 80, Color: true})

	assert.Equal(t, " a |  2 \x1b[32m++\x1b[0m", chart.FormatDelta(lineDelta("a", 0, 2)))
	assert.Equal(t, " b | -1 \x1b[31m-\x1b[0m", chart.FormatDelta(lineDelta("b", 1, 0)))
	assert.Equal(t, " c | Bin \x1b[31m5\x1b[0m -> \x1b[32m9\x1b[0m bytes", chart.FormatDelta(byteDelta("c", 5, 9)))
	assert.Equal(t, " d | Bin \x1b[32m9\x1b[0m -> \x1b[31m5\x1b[0m bytes", chart.FormatDelta(byteDelta("d", 9, 5)))
	assert.Equal(t, " c | Bin 7 -> 7 bytes", chart.FormatDelta(byteDelta("c", 7, 7)))
}

func TestBarChart_HumanBytes(t *testing.T) {
	t.Parallel()

	out := render(t, nil, []guilt.Delta{byteDelta("img", 1500, 2_000_000)},
		report.TextOptions{Width: 80, HumanBytes: true})

	assert.Equal(t, " img | Bin 1.5 kB -> 2.0 MB\n", out)
}
