// Package chart draws efficient frontiers as PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	charts "github.com/vicanso/go-charts/v2"
)

// PNG is a markowitz.Plotter that writes a line chart of return against
// volatility to its writer.
type PNG struct {
	w      io.Writer
	title  string
	width  int
	height int
}

// NewPNG returns a Plotter writing to w.
func NewPNG(w io.Writer, title string) *PNG {
	return &PNG{w: w, title: title, width: 900, height: 600}
}

// Plot draws one point per frontier point, in the given order. Volatilities
// label the horizontal axis.
func (p *PNG) Plot(volatility, returns []float64) error {
	if len(volatility) != len(returns) {
		return fmt.Errorf("%d volatilities for %d returns", len(volatility), len(returns))
	}
	if len(returns) == 0 {
		return errors.New("nothing to plot")
	}

	labels := make([]string, len(volatility))
	for i, v := range volatility {
		labels[i] = fmt.Sprintf("%.1f%%", v*100)
	}
	y := make([]float64, len(returns))
	for i, r := range returns {
		y[i] = r * 100
	}
	lo, hi := slices.Min(y), slices.Max(y)
	margin := max((hi-lo)*0.05, 0.1)
	yMin, yMax := math.Floor(lo-margin), math.Ceil(hi+margin)

	painter, err := charts.LineRender([][]float64{y},
		charts.TitleTextOptionFunc(p.title, "return (%) by volatility"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: min(len(labels), 10)}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(p.width),
		charts.HeightOptionFunc(p.height),
	)
	if err != nil {
		return fmt.Errorf("render frontier: %w", err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return fmt.Errorf("encode frontier: %w", err)
	}
	_, err = p.w.Write(buf)
	return err
}
