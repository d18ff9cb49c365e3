package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/guilt/pkg/guilt"
	"github.com/Sumatoshi-tech/guilt/pkg/terminal"
)

const (
	// rowOverhead is the fixed decoration of a row: " ", " | ", " ".
	rowOverhead = 5

	binaryMarker = "Bin"
	separator    = "---"
)

// TextOptions configure the bar-chart formatter.
type TextOptions struct {
	// Width is the column budget of a row.
	Width int
	// Color enables green gains and red losses.
	Color bool
	// HumanBytes prints byte counts in SI units.
	HumanBytes bool
}

// BarChart renders line deltas as proportional bars and byte deltas as
// before/after sizes.
type BarChart struct {
	lines []guilt.Delta
	bytes []guilt.Delta

	width      int
	palette    terminal.Palette
	humanBytes bool

	longestName  int
	longestCount int
	longestBar   int
}

// NewBarChart measures both delta lists. Column widths are shared by the
// line and byte sections so they align when printed together.
func NewBarChart(lines, bytes []guilt.Delta, opts TextOptions) *BarChart {
	width := opts.Width
	if width <= 0 {
		width = terminal.DefaultWidth
	}

	chart := &BarChart{
		lines:      lines,
		bytes:      bytes,
		width:      width,
		palette:    terminal.NewPalette(opts.Color),
		humanBytes: opts.HumanBytes,
	}

	for _, d := range lines {
		chart.longestName = max(chart.longestName, terminal.DisplayWidth(d.Author))
		chart.longestCount = max(chart.longestCount, len(strconv.Itoa(d.Count())))
		chart.longestBar = max(chart.longestBar, abs(d.Count()))
	}

	for _, d := range bytes {
		chart.longestName = max(chart.longestName, terminal.DisplayWidth(d.Author))
	}

	return chart
}

// BarBudget is the number of columns left for the longest bar. It is never
// below one, so the longest bar stays visible on very narrow terminals.
func (c *BarChart) BarBudget() int {
	return max(1, c.width-(rowOverhead+c.longestName+c.longestCount))
}

// ScaleBar maps an absolute count to a bar length. Bars are drawn one column
// per unit when the longest one fits, and compressed linearly otherwise so
// the longest bar fills the budget exactly.
func (c *BarChart) ScaleBar(n int) int {
	if n == 0 {
		return 0
	}

	budget := c.BarBudget()
	if c.longestBar <= budget {
		return n
	}

	return 1 + n*(budget-1)/c.longestBar
}

// FormatDelta renders a single row.
func (c *BarChart) FormatDelta(d guilt.Delta) string {
	if d.Kind == guilt.KindByte {
		return c.formatBytes(d)
	}

	return c.formatLines(d)
}

func (c *BarChart) formatLines(d guilt.Delta) string {
	count := d.Count()
	length := c.ScaleBar(abs(count))

	var bar string

	switch {
	case count > 0:
		bar = c.palette.Gain(strings.Repeat("+", length))
	case count < 0:
		bar = c.palette.Loss(strings.Repeat("-", length))
	}

	return fmt.Sprintf(" %s | %s %s",
		terminal.PadRight(d.Author, c.longestName),
		terminal.PadLeft(strconv.Itoa(count), c.longestCount),
		bar)
}

func (c *BarChart) formatBytes(d guilt.Delta) string {
	since, until := c.byteCount(d.Since), c.byteCount(d.Until)

	switch {
	case d.Since < d.Until:
		since, until = c.palette.Loss(since), c.palette.Gain(until)
	case d.Until < d.Since:
		since, until = c.palette.Gain(since), c.palette.Loss(until)
	}

	unit := " bytes"
	if c.humanBytes {
		unit = ""
	}

	return fmt.Sprintf(" %s | %s %s -> %s%s",
		terminal.PadRight(d.Author, c.longestName),
		terminal.PadLeft(binaryMarker, c.longestCount),
		since, until, unit)
}

func (c *BarChart) byteCount(n int) string {
	if c.humanBytes && n >= 0 {
		return humanize.Bytes(uint64(n))
	}

	return strconv.Itoa(n)
}

// Write prints every non-zero line delta, then, if any byte delta is
// printed, a separator when lines preceded it and the byte rows.
func (c *BarChart) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	printedLines := c.writeRows(bw, c.lines)

	if hasNonZero(c.bytes) {
		if printedLines {
			fmt.Fprintln(bw, separator)
		}

		c.writeRows(bw, c.bytes)
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	return nil
}

func (c *BarChart) writeRows(w io.Writer, deltas []guilt.Delta) bool {
	printed := false

	for _, d := range deltas {
		if d.Count() == 0 {
			continue
		}

		fmt.Fprintln(w, c.FormatDelta(d))

		printed = true
	}

	return printed
}

func hasNonZero(deltas []guilt.Delta) bool {
	for _, d := range deltas {
		if d.Count() != 0 {
			return true
		}
	}

	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
