package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "100%"
	chartHeight = "480px"

	gainColor = "#2e7d32"
	lossColor = "#c62828"
)

// WriteHTML renders one bar chart per non-empty kind on a single page.
func WriteHTML(w io.Writer, doc Document) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("guilt %s..%s", doc.Since, doc.Until)

	if len(doc.Lines) > 0 {
		page.AddCharts(deltaChart("Line ownership", doc.Since, doc.Until, "lines", doc.Lines))
	}

	if len(doc.Bytes) > 0 {
		page.AddCharts(deltaChart("Byte ownership", doc.Since, doc.Until, "bytes", doc.Bytes))
	}

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return nil
}

func deltaChart(title, since, until, unit string, entries []Entry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: since + " -> " + until}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
	)

	authors := make([]string, 0, len(entries))
	data := make([]opts.BarData, 0, len(entries))

	for _, e := range entries {
		color := gainColor
		if e.Delta < 0 {
			color = lossColor
		}

		authors = append(authors, e.Author)
		data = append(data, opts.BarData{
			Name:      e.Author,
			Value:     e.Delta,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar.SetXAxis(authors).AddSeries("delta", data)

	return bar
}
