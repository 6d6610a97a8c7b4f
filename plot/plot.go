// Package plot renders landscapes and experiment summaries as PNG charts.
package plot

import (
	"errors"
	"io"

	vesn "github.com/drexrichards/virtual-es-niche"
	"github.com/drexrichards/virtual-es-niche/experiment"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrEmpty = errors.New("nothing to plot")

// Scatter returns the patches of l as points in (e1, e2) rank space, coloured
// by their surface probability.
func Scatter(l vesn.Landscape) chart.ContinuousSeries {
	xs, ys := make([]float64, len(l)), make([]float64, len(l))
	for i, p := range l {
		xs[i], ys[i] = p.E1, p.E2
	}
	return chart.ContinuousSeries{
		Name: "patches",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    4,
			DotColorProvider: func(_, _ chart.Range, i int, _, _ float64) drawing.Color {
				return chart.Viridis(l[i].Probability, 0., 1.)
			},
		},
		XValues: xs,
		YValues: ys,
	}
}

// Landscape writes a scatter plot of l to w.
func Landscape(w io.Writer, l vesn.Landscape, title string) error {
	if len(l) == 0 {
		return ErrEmpty
	}
	unit := func() *chart.ContinuousRange { return &chart.ContinuousRange{Min: 0., Max: 1.} }
	g := chart.Chart{
		Title:  title,
		Width:  640,
		Height: 640,
		XAxis:  chart.XAxis{Name: "e1", Range: unit()},
		YAxis:  chart.YAxis{Name: "e2", Range: unit()},
		Series: []chart.Series{Scatter(l)},
	}
	return g.Render(chart.PNG, w)
}

// Bars returns one bar per scenario holding its mean total service.
func Bars(sums []experiment.Summary) []chart.Value {
	o := make([]chart.Value, len(sums))
	for i, s := range sums {
		o[i] = chart.Value{Label: s.Scenario, Value: s.MeanTotal}
	}
	return o
}

// Experiment writes a bar chart of mean total service per scenario to w.
func Experiment(w io.Writer, sums []experiment.Summary) error {
	if len(sums) == 0 {
		return ErrEmpty
	}
	bars := Bars(sums)
	mx := 0.
	for _, b := range bars {
		if b.Value > mx {
			mx = b.Value
		}
	}
	if mx <= 0. {
		mx = 1.
	}
	g := chart.BarChart{
		Title:    "mean total service",
		Width:    160 * (len(bars) + 1),
		Height:   480,
		BarWidth: 60,
		YAxis:    chart.YAxis{Range: &chart.ContinuousRange{Min: 0., Max: 1.1 * mx}},
		Bars:     bars,
	}
	return g.Render(chart.PNG, w)
}
