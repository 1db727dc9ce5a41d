package styles

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"
)

// ApplyForegroundGrad colors each grapheme of input along a horizontal
// gradient from c1 to c2. Lines are colored independently.
func ApplyForegroundGrad(input string, c1, c2 color.Color) string {
	if input == "" {
		return ""
	}

	lines := strings.Split(input, "\n")
	width := 0
	clusters := make([][]string, len(lines))
	for i, line := range lines {
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			clusters[i] = append(clusters[i], g.Str())
		}
		width = max(width, len(clusters[i]))
	}

	ramp := blendRamp(c1, c2, width)
	var sb strings.Builder
	for i, line := range clusters {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, cluster := range line {
			if strings.TrimSpace(cluster) == "" {
				sb.WriteString(cluster)
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(ramp[j]).Render(cluster))
		}
	}
	return sb.String()
}

func blendRamp(c1, c2 color.Color, n int) []color.Color {
	ramp := make([]color.Color, n)
	for i := range n {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		ramp[i] = Blend(c1, c2, t)
	}
	return ramp
}
