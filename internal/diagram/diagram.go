// Package diagram renders a computed titration curve as an SVG or PNG
// chart. The worldview is fixed: the y axis always spans pH 0 to 14 with
// a grid line per unit, the x axis spans the titrant volume rounded up to
// the next 5 mL step.
package diagram

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/aaronsalm/kurve/internal/curve"
)

const (
	frameWidth  = 800
	frameHeight = 600
	// maxPH is the upper end of the y axis.
	maxPH = 14
	// volumeStep is the x grid spacing in mL.
	volumeStep = 5
)

// ErrEmptyCurve is returned when there is nothing to draw.
var ErrEmptyCurve = errors.New("diagram: curve has no points")

// Options select the visual theme.
type Options struct {
	// Dark renders light-on-dark.
	Dark bool
	// Colored tints the plot area with a pH-indicator color.
	Colored bool
}

type palette struct {
	background drawing.Color
	canvas     drawing.Color
	text       drawing.Color
	grid       drawing.Color
	line       drawing.Color
	dot        drawing.Color
}

func (o Options) palette() palette {
	p := palette{
		background: drawing.ColorFromHex("ffffff"),
		canvas:     drawing.ColorFromHex("ffffff"),
		text:       drawing.ColorFromHex("333333"),
		grid:       drawing.ColorFromHex("d9d9d9"),
		line:       drawing.ColorFromHex("2f6fb7"),
		dot:        drawing.ColorFromHex("1d4a7d"),
	}
	if o.Dark {
		p.background = drawing.ColorFromHex("1e1e1e")
		p.canvas = drawing.ColorFromHex("1e1e1e")
		p.text = drawing.ColorFromHex("d4d4d4")
		p.grid = drawing.ColorFromHex("3c3c3c")
		p.line = drawing.ColorFromHex("6aa5e3")
		p.dot = drawing.ColorFromHex("a8ccf0")
	}
	if o.Colored {
		// Stand-in for the indicator gradient: a pale tint of its
		// midpoint.
		p.canvas = drawing.ColorFromHex("f4f0c8")
		if o.Dark {
			p.canvas = drawing.ColorFromHex("3a3828")
		}
	}
	return p
}

// RenderSVG writes the curve as an SVG document.
func RenderSVG(opts Options, out *curve.Output, w io.Writer) error {
	graph, err := build(opts, out)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("diagram: render svg: %w", err)
	}
	return nil
}

// RenderPNG writes the curve as a PNG image.
func RenderPNG(opts Options, out *curve.Output, w io.Writer) error {
	graph, err := build(opts, out)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("diagram: render png: %w", err)
	}
	return nil
}

func build(opts Options, out *curve.Output) (chart.Chart, error) {
	if out == nil || len(out.Points) == 0 {
		return chart.Chart{}, ErrEmptyCurve
	}
	xs := make([]float64, 0, len(out.Points)+1)
	ys := make([]float64, 0, len(out.Points)+1)
	for _, p := range out.Points {
		xs = append(xs, p.Volume)
		ys = append(ys, clampPH(p.PH))
	}
	// The chart renderer needs a non-degenerate series; a lone
	// measurement is drawn as a single dot.
	if len(xs) == 1 {
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}

	pal := opts.palette()
	xTicks, xMax := volumeTicks(out.MaxVolume())
	grid := chart.Style{StrokeColor: pal.grid, StrokeWidth: 1}
	axis := chart.Style{FontColor: pal.text, StrokeColor: pal.text, StrokeWidth: 1}

	graph := chart.Chart{
		Width:      frameWidth,
		Height:     frameHeight,
		Background: chart.Style{FillColor: pal.background},
		Canvas:     chart.Style{FillColor: pal.canvas},
		XAxis: chart.XAxis{
			Name:           "Volumen (mL)",
			NameStyle:      chart.Style{FontColor: pal.text},
			Style:          axis,
			Ticks:          xTicks,
			Range:          &chart.ContinuousRange{Min: 0, Max: xMax},
			GridLines:      volumeGridLines(xMax),
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "pH",
			NameStyle:      chart.Style{FontColor: pal.text},
			Style:          axis,
			Ticks:          phTicks(),
			Range:          &chart.ContinuousRange{Min: 0, Max: maxPH},
			GridLines:      phGridLines(),
			GridMajorStyle: grid,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: pal.line,
					StrokeWidth: 2,
					DotColor:    pal.dot,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph, nil
}

// volumeTicks builds x-axis ticks in 5 mL steps covering max. The axis
// always shows at least one step.
func volumeTicks(max float64) ([]chart.Tick, float64) {
	steps := int(math.Ceil(max / volumeStep))
	if steps < 1 {
		steps = 1
	}
	ticks := make([]chart.Tick, 0, steps+1)
	for i := 0; i <= steps; i++ {
		v := float64(i * volumeStep)
		ticks = append(ticks, chart.Tick{Value: v, Label: formatVolume(v)})
	}
	return ticks, float64(steps * volumeStep)
}

func volumeGridLines(max float64) []chart.GridLine {
	var lines []chart.GridLine
	for v := float64(volumeStep); v < max; v += volumeStep {
		lines = append(lines, chart.GridLine{Value: v})
	}
	return lines
}

func phTicks() []chart.Tick {
	ticks := make([]chart.Tick, 0, maxPH+1)
	for ph := 0; ph <= maxPH; ph++ {
		ticks = append(ticks, chart.Tick{Value: float64(ph), Label: fmt.Sprintf("%d", ph)})
	}
	return ticks
}

func phGridLines() []chart.GridLine {
	var lines []chart.GridLine
	for ph := 1; ph < maxPH; ph++ {
		lines = append(lines, chart.GridLine{Value: float64(ph)})
	}
	return lines
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%g", v)
}

// clampPH limits a value to the drawable axis range. Display only; the
// underlying curve data is never clamped.
func clampPH(ph float64) float64 {
	return math.Max(0, math.Min(maxPH, ph))
}
