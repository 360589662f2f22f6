// Package charts renders growth curves as standalone HTML line charts.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/giygas/pedcalc-api/classifier"
	"github.com/giygas/pedcalc-api/reference/entities"
	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrNoCurves is returned when the standard has no curves for the measure
// and sex.
var ErrNoCurves = errors.New("no growth curves for measure and sex")

// missing is the ECharts placeholder for a gap in a series.
const missing = "-"

var measureUnits = map[string]string{
	entities.MeasureWeight: "kg",
	entities.MeasureLength: "cm",
	entities.MeasureHC:     "cm",
}

// GrowthRequest selects the curves to draw. A positive Value is plotted at
// the tabulated age nearest to Age.
type GrowthRequest struct {
	Standard *entities.GrowthStandard
	Measure  string
	Sex      string
	Age      float64
	Value    float64
}

// RenderGrowth writes the chart as an HTML page. When the request carries a
// measurement, the classification used for the overlay is returned too.
func RenderGrowth(w io.Writer, req GrowthRequest) (*classifier.GrowthClassification, error) {
	curves := req.Standard.Curves(req.Measure, req.Sex)
	if len(curves) == 0 {
		return nil, ErrNoCurves
	}

	var result *classifier.GrowthClassification
	if req.Value > 0 {
		result = classifier.ClassifyGrowth(req.Standard, req.Measure, req.Sex, req.Age, req.Value)
	}

	line := buildGrowthChart(req, curves, result)
	if err := line.Render(w); err != nil {
		return nil, fmt.Errorf("failed to render growth chart: %w", err)
	}
	return result, nil
}

func buildGrowthChart(req GrowthRequest, curves []entities.Curve, result *classifier.GrowthClassification) *echarts.Line {
	std := req.Standard
	n := len(curves[0].Values)

	ages := make([]string, n)
	for i := range ages {
		ages[i] = strconv.Itoa(i + std.AgeOffset)
	}

	minY, maxY := curves[0].Values[0], curves[0].Values[0]
	for _, c := range curves {
		for _, v := range c.Values {
			minY = min(minY, v)
			maxY = max(maxY, v)
		}
	}
	if result != nil {
		minY = min(minY, req.Value)
		maxY = max(maxY, req.Value)
	}

	title := std.Title
	if title == "" {
		title = std.Name
	}
	subtitle := req.Sex + " " + req.Measure
	if result != nil {
		subtitle += ": " + result.Band + " percentile"
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		echarts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		echarts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name: "Age (" + std.AgeUnit + ")",
		}),
		echarts.WithYAxisOpts(opts.YAxis{
			Name: measureUnits[req.Measure],
			Min:  floorTo(minY),
			Max:  ceilTo(maxY),
		}),
	)

	line.SetXAxis(ages)
	for _, c := range curves {
		data := make([]opts.LineData, n)
		for i, v := range c.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries("P"+strconv.FormatFloat(c.Percentile, 'f', -1, 64), data,
			echarts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(false),
			}),
		)
	}

	if result != nil {
		data := make([]opts.LineData, n)
		for i := range data {
			data[i] = opts.LineData{Value: missing}
		}
		data[result.Index] = opts.LineData{Value: req.Value, Name: result.Band, SymbolSize: 10}

		line.AddSeries("Patient", data,
			echarts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(true),
			}),
			func(s *echarts.SingleSeries) {
				s.MarkLines = &opts.MarkLines{
					Data: []interface{}{
						opts.MarkLineNameYAxisItem{Name: "Patient", YAxis: req.Value},
					},
					MarkLineStyle: opts.MarkLineStyle{
						Symbol: []string{"none", "none"},
						LineStyle: &opts.LineStyle{
							Color: "rgba(200, 40, 40, 0.6)",
							Type:  "dashed",
							Width: 1.5,
						},
					},
				}
			},
		)
	}

	return line
}

// Axis bounds are rounded outwards to whole units.
func floorTo(v float64) float64 {
	return float64(int(v))
}

func ceilTo(v float64) float64 {
	f := float64(int(v))
	if f < v {
		f++
	}
	return f
}
