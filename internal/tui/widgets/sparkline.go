// ABOUTME: Sparkline of recent values drawn with block characters

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the block characters from lowest to highest
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values (oldest first) scaled from zero to the largest
// value. More values than width are sampled down; fewer are drawn as is.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	sampled := sampleValues(values, width)

	top := 0.0
	for _, v := range sampled {
		top = max(top, v)
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = blockFor(v, top)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

func sampleValues(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	ratio := float64(len(values)) / float64(width)
	for i := range out {
		out[i] = values[min(len(values)-1, int(float64(i)*ratio))]
	}
	return out
}

func blockFor(v, top float64) rune {
	if top <= 0 || v <= 0 {
		return SparklineBlocks[0]
	}
	idx := int(v / top * float64(len(SparklineBlocks)-1))
	return SparklineBlocks[min(max(idx, 0), len(SparklineBlocks)-1)]
}
