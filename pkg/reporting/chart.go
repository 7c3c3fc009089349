package reporting

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sapmachine/vitals/pkg/vitals"
)

// WriteChart renders the selected window as an HTML page with one line chart
// per column category. Invalid readings become gaps in the series.
func WriteChart(w io.Writer, src Source, o PrintOptions) error {
	o = o.Normalized()
	if o.SampleNow {
		src.SampleNow(false)
	}
	window := src.Window(o.MaxSamples)
	if len(window) == 0 {
		return fmt.Errorf("no samples to chart")
	}
	cols := src.Registry().Columns()

	xLabels := make([]string, len(window))
	for i, s := range window {
		xLabels[i] = s.Timestamp().Format("15:04:05")
	}

	page := components.NewPage()
	page.PageTitle = "vitals"

	for _, group := range groupByCategory(cols) {
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title: group.category,
			}),
			charts.WithTooltipOpts(opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			}),
			charts.WithXAxisOpts(opts.XAxis{
				Name: "time",
				Type: "category",
			}),
			charts.WithYAxisOpts(opts.YAxis{
				Type: "value",
			}),
			charts.WithDataZoomOpts(opts.DataZoom{
				Type:  "slider",
				Start: 0,
				End:   100,
			}),
			charts.WithInitializationOpts(opts.Initialization{
				Width:  "100%",
				Height: "400px",
			}),
		)
		line.SetXAxis(xLabels)

		for _, c := range group.columns {
			data := make([]opts.LineData, len(window))
			for i, s := range window {
				v := s.Value(c.Index())
				if vitals.IsValid(v) {
					data[i] = opts.LineData{Value: float64(v)}
				} else {
					data[i] = opts.LineData{Value: nil}
				}
			}
			line.AddSeries(c.Name, data, charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
			}))
		}
		page.AddCharts(line)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering chart page: %w", err)
	}
	return nil
}

type columnGroup struct {
	category string
	columns  []*vitals.Column
}

func groupByCategory(cols []*vitals.Column) []columnGroup {
	var groups []columnGroup
	for _, c := range cols {
		if n := len(groups); n > 0 && groups[n-1].category == c.Category {
			groups[n-1].columns = append(groups[n-1].columns, c)
			continue
		}
		groups = append(groups, columnGroup{category: c.Category, columns: []*vitals.Column{c}})
	}
	return groups
}
