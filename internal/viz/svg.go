package viz

import (
	"fmt"
	"strings"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// SVG draws every set dot of the canvas as a circle, scale pixels apart.
func (c *Canvas) SVG(scale int, fill string) string {
	w, h := c.Width*2*scale, c.Height*4*scale
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, w, h, w, h)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)

	r := float64(scale) * 0.4
	for row := range c.Grid {
		for col, cell := range c.Grid[row] {
			pattern := cell - brailleBlank
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := float64((col*2+dx)*scale) + float64(scale)/2
					cy := float64((row*4+dy)*scale) + float64(scale)/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
				}
			}
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// TrackSVG draws the path (xs[i], zs[i]) as one polyline with depth
// growing down the image. Fewer than two finite points give an empty
// string.
func TrackSVG(xs, zs []float64, width, height int, stroke string) string {
	n := min(len(xs), len(zs))
	pts := make([][2]float64, 0, n)
	for i := 0; i < n; i++ {
		if finite(xs[i]) && finite(zs[i]) {
			pts = append(pts, [2]float64{xs[i], zs[i]})
		}
	}
	if len(pts) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	xlo, xhi := bounds(xs[:n])
	zlo, zhi := bounds(zs[:n])
	// 5% margin on each side
	padX, padZ := (xhi-xlo)*0.05, (zhi-zlo)*0.05
	xlo, xhi = xlo-padX, xhi+padX
	zlo, zhi = zlo-padZ, zhi+padZ

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", stroke)
	for i, p := range pts {
		x := (p[0] - xlo) / (xhi - xlo) * float64(width)
		y := (p[1] - zlo) / (zhi - zlo) * float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
