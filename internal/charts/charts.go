// Package charts renders spending charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/budget/internal/model"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("charts: no data to plot")

// minSharePercent hides pie slices too thin to label.
const minSharePercent = 1.0

// palette mirrors the terminal theme so PNGs and the TUI agree.
var palette = []drawing.Color{
	drawing.ColorFromHex("3AA99F"),
	drawing.ColorFromHex("DA702C"),
	drawing.ColorFromHex("4385BE"),
	drawing.ColorFromHex("879A39"),
	drawing.ColorFromHex("8B7EC8"),
	drawing.ColorFromHex("D0A215"),
	drawing.ColorFromHex("D14D41"),
	drawing.ColorFromHex("CE5D97"),
	drawing.ColorFromHex("6F6E69"),
	drawing.ColorFromHex("24837B"),
}

var background = chart.Style{
	Padding: chart.Box{
		Top:    50,
		Left:   50,
		Right:  50,
		Bottom: 50,
	},
	FillColor: chart.ColorWhite,
}

// CategoryPie renders the month's spend split by category.
func CategoryPie(s model.MonthlySummary) ([]byte, error) {
	values := pieValues(s.Categories, s.TotalExpenses)
	if len(values) == 0 {
		return nil, ErrNoData
	}

	pie := chart.PieChart{
		Title:      "Spending by category",
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}

	buf := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("rendering category pie: %w", err)
	}
	return buf.Bytes(), nil
}

func pieValues(categories []model.CategoryTotal, total float64) []chart.Value {
	if total <= 0 {
		return nil
	}
	var values []chart.Value
	for i, c := range categories {
		pct := c.Amount / total * 100
		if pct <= minSharePercent {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.0f (%.1f%%)", label(c.Category), c.Amount, pct),
			Value: c.Amount,
			Style: chart.Style{
				FillColor: palette[i%len(palette)],
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	return values
}

// DailyBars renders one bar per day, oldest on the left. days is newest
// first and gap-filled, as returned by pipeline.AggregateDays.
func DailyBars(days []model.PeriodStats) ([]byte, error) {
	bars := dayBars(days)
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Title:      "Daily spending",
		TitleStyle: chart.Style{FontSize: 14, FontColor: chart.ColorBlack},
		Width:      1200,
		Height:     600,
		BarWidth:   max(8, 900/len(bars)),
		Background: background,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{FontSize: 12, FontColor: chart.ColorBlack},
		},
		Bars: bars,
	}

	buf := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("rendering daily bars: %w", err)
	}
	return buf.Bytes(), nil
}

func dayBars(days []model.PeriodStats) []chart.Value {
	var (
		bars    []chart.Value
		nonZero bool
	)
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Amount > 0 {
			nonZero = true
		}
		bars = append(bars, chart.Value{
			Label: d.Start.Format("02"),
			Value: d.Amount,
			Style: chart.Style{
				StrokeColor: palette[0],
				FillColor:   palette[0],
			},
		})
	}
	// go-chart cannot scale an all-zero range.
	if !nonZero {
		return nil
	}
	return bars
}

func label(name string) string {
	if c, err := model.ParseCategory(name); err == nil {
		return c.DisplayName()
	}
	return name
}
