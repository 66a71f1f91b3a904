package leaderboardservice

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours the progress chart.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultPalette is fairway green on white.
var DefaultPalette = ChartPalette{
	Background:  drawing.ColorFromHex("ffffff"),
	PrimaryLine: drawing.ColorFromHex("2d6a4f"),
	AccentLine:  drawing.ColorFromHex("d4a017"),
	TextColor:   drawing.ColorFromHex("1b1b1b"),
}

// GenerateProgressChart produces a PNG line chart of a player's running total,
// one point per played hole.
func GenerateProgressChart(p *Progress, palette ChartPalette) ([]byte, error) {
	if p == nil || len(p.Points) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	// Every series starts from an empty card at x=0.
	xValues := make([]float64, 1, len(p.Points)+1)
	yValues := make([]float64, 1, len(p.Points)+1)
	minY, maxY := 0.0, 0.0
	var ticks []chart.Tick
	lastDay := -1
	for i, pt := range p.Points {
		x, y := float64(i+1), float64(pt.Total)
		xValues = append(xValues, x)
		yValues = append(yValues, y)
		minY, maxY = min(minY, y), max(maxY, y)
		if pt.Day != lastDay {
			ticks = append(ticks, chart.Tick{Value: x, Label: fmt.Sprintf("Day %d", pt.Day)})
			lastDay = pt.Day
		}
	}

	series := chart.ContinuousSeries{
		Name:    p.Name,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    3,
			DotColor:    palette.AccentLine,
		},
	}

	yAxis := chart.YAxis{
		Name: p.Metric,
		Style: chart.Style{
			FontColor: palette.TextColor,
		},
	}
	// Lower is better for to-par metrics. A flat line still needs a non-zero range.
	yRange := &chart.ContinuousRange{Descending: p.Metric != MetricStableford}
	if minY == maxY {
		yRange.Min, yRange.Max = minY-1, maxY+1
	}
	yAxis.Range = yRange

	graph := chart.Chart{
		Title:  p.Name,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Holes played",
			Ticks: ticks,
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis:  yAxis,
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render progress chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws the message straight onto a blank canvas;
// chart.Chart refuses to render without a series.
func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No holes played yet"
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
