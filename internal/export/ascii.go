package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rocketsim/internal/sim"
)

// TrajectoryASCII draws Y against X as a framed scatter plot. Early, middle
// and late thirds of the flight use '.', 'o' and '●'.
func TrajectoryASCII(recs []sim.Record, width, height int) string {
	if len(recs) == 0 || width < 2 || height < 2 {
		return ""
	}

	xMin, xMax := recs[0].State.X, recs[0].State.X
	yMin, yMax := recs[0].State.Y, recs[0].State.Y
	for _, r := range recs {
		xMin, xMax = min(xMin, r.State.X), max(xMax, r.State.X)
		yMin, yMax = min(yMin, r.State.Y), max(yMax, r.State.Y)
	}

	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	n := len(recs)
	for i, r := range recs {
		px := int(float64(width-1) * (r.State.X - xMin) / xRange)
		py := height - 1 - int(float64(height-1)*(r.State.Y-yMin)/yRange)
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}
		switch {
		case i < n/3:
			canvas[py][px] = '.'
		case i < 2*n/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%12.2f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i, row := range canvas {
		if i == height/2 {
			fmt.Fprintf(&sb, "%12.2f │", (yMax+yMin)/2)
		} else {
			sb.WriteString(strings.Repeat(" ", 13) + "│")
		}
		sb.WriteString(string(row))
		sb.WriteString("│\n")
	}
	fmt.Fprintf(&sb, "%12.2f └%s┘\n", yMin, strings.Repeat("─", width))

	left := fmt.Sprintf("%.2f", xMin)
	right := fmt.Sprintf("%.2f", xMax)
	pad := max(width-len(left)-len(right), 1)
	fmt.Fprintf(&sb, "%s%s%s%s\n", strings.Repeat(" ", 14), left, strings.Repeat(" ", pad), right)
	return sb.String()
}
