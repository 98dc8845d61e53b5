package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budget/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders one column per value, height rows tall, with a y-axis
// labelled in compact money units. Values wider than the chart are
// sampled evenly.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := maxOf(values)
	step := tickStep(peak, height/2)
	ceiling := math.Ceil(peak/step) * step

	axisW := len(compactLabel(ceiling)) + 1
	plotW := max(5, width-axisW-1)

	values, labels = sample(values, labels, (plotW+1)/2)
	n := len(values)
	barW := max(1, min(4, (plotW-(n-1))/n))

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = compactLabel(ceiling)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(blocks)-1))
				b.WriteString(bar.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + n - 1
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		line := []rune(strings.Repeat(" ", axisLen))
		first, last := []rune(labels[0]), []rune(labels[n-1])
		copy(line, first)
		if start := axisLen - len(last); start > len(first) {
			copy(line[start:], last)
		}
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", axisW+1) + string(line)))
	}
	return b.String()
}

// HBar renders a single horizontal bar scaled to maxValue.
func HBar(value, maxValue float64, width int, color lipgloss.Color) string {
	t := theme.Active
	filled := 0
	if maxValue > 0 {
		filled = int(value / maxValue * float64(width))
	}
	filled = max(0, min(filled, width))
	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(strings.Repeat("░", width-filled))
}

func maxOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		return 1
	}
	return peak
}

// sample keeps at most limit values, evenly spaced and always keeping the
// first and last.
func sample(values []float64, labels []string, limit int) ([]float64, []string) {
	n := len(values)
	if n <= limit || limit < 2 {
		return values, labels
	}
	outV := make([]float64, limit)
	var outL []string
	if len(labels) == n {
		outL = make([]string, limit)
	}
	for i := range outV {
		src := i * (n - 1) / (limit - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// tickStep picks a 1/2/5 step so peak spans at most maxTicks steps.
func tickStep(peak float64, maxTicks int) float64 {
	maxTicks = max(2, maxTicks)
	base := math.Pow(10, math.Floor(math.Log10(peak/float64(maxTicks))))
	for _, m := range []float64{1, 2, 5, 10} {
		if peak/(base*m) <= float64(maxTicks) {
			return base * m
		}
	}
	return base * 10
}

// compactLabel formats axis values in Indian units.
func compactLabel(v float64) string {
	switch {
	case v >= 1e7:
		return trimZero(v/1e7) + "Cr"
	case v >= 1e5:
		return trimZero(v/1e5) + "L"
	case v >= 1e3:
		return trimZero(v/1e3) + "K"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func trimZero(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
