package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/rocketsim/internal/sim"
)

type SVGOptions struct {
	Width, Height int
	Stroke        string
	Background    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Height: 600, Stroke: "#00ff88", Background: "#0a0a0a"}
}

// TrajectorySVG draws Y against X for recs, with a dashed line at ground
// level when it falls inside the plotted range.
func TrajectorySVG(recs []sim.Record, opt SVGOptions) string {
	if len(recs) < 2 {
		return ""
	}

	minX, maxX := recs[0].State.X, recs[0].State.X
	minY, maxY := recs[0].State.Y, recs[0].State.Y
	for _, r := range recs {
		minX, maxX = min(minX, r.State.X), max(maxX, r.State.X)
		minY, maxY = min(minY, r.State.Y), max(maxY, r.State.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	w, h := float64(opt.Width), float64(opt.Height)
	project := func(x, y float64) (float64, float64) {
		return (x - minX) / rangeX * w, h - (y-minY)/rangeY*h
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opt.Width, opt.Height, opt.Width, opt.Height, opt.Background)

	if minY <= 0 && maxY >= 0 {
		_, gy := project(0, 0)
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#666688" stroke-dasharray="4 4"/>
`, gy, opt.Width, gy)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, opt.Stroke)
	for i, r := range recs {
		x, y := project(r.State.X, r.State.Y)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func WriteTrajectorySVG(w io.Writer, recs []sim.Record, opt SVGOptions) error {
	svg := TrajectorySVG(recs, opt)
	if svg == "" {
		return fmt.Errorf("need at least 2 records to draw, got %d", len(recs))
	}
	_, err := io.WriteString(w, svg)
	return err
}
