package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// fillPath rasterizes whatever path adds into img with a solid color.
func fillPath(img *image.RGBA, clr color.Color, path func(p rasterx.Adder)) {
	if img == nil {
		return
	}
	b := img.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), img, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(clr)
	path(filler)
	filler.Draw()
}

func fillRoundedRect(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	r := float64(radius)
	if half := float64(min(rect.Dx(), rect.Dy())) / 2; r > half {
		r = half
	}
	fillPath(img, clr, func(p rasterx.Adder) {
		rasterx.AddRoundRect(float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Max.X), float64(rect.Max.Y), r, r, 0, rasterx.RoundGap, p)
	})
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, clr color.Color) {
	fillPath(img, clr, func(p rasterx.Adder) {
		rasterx.AddCircle(cx, cy, radius, p)
	})
}

func fillPolygon(img *image.RGBA, clr color.Color, pts ...[2]float64) {
	if len(pts) < 3 {
		return
	}
	fillPath(img, clr, func(p rasterx.Adder) {
		p.Start(rasterx.ToFixedP(pts[0][0], pts[0][1]))
		for _, pt := range pts[1:] {
			p.Line(rasterx.ToFixedP(pt[0], pt[1]))
		}
		p.Stop(true)
	})
}

// drawArrow draws a shaft and head between two square centers.
func drawArrow(img *image.RGBA, from, to image.Point, squareSize int, clr color.Color) {
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length
	px, py := -uy, ux

	size := float64(squareSize)
	shaft := length - size*0.45
	if shaft < size*0.35 {
		shaft = length * 0.6
	}
	half := size * 0.12
	head := size * 0.3

	sx, sy := float64(from.X), float64(from.Y)
	bx, by := sx+ux*shaft, sy+uy*shaft

	fillPolygon(img, clr,
		[2]float64{sx - px*half, sy - py*half},
		[2]float64{sx + px*half, sy + py*half},
		[2]float64{bx + px*half, by + py*half},
		[2]float64{bx - px*half, by - py*half},
	)
	fillPolygon(img, clr,
		[2]float64{float64(to.X), float64(to.Y)},
		[2]float64{bx - px*head, by - py*head},
		[2]float64{bx + px*head, by + py*head},
	)
}

func drawCenteredString(d *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	text = strings.TrimSpace(text)
	if d == nil || text == "" {
		return
	}
	m := d.Face.Metrics()
	width := d.MeasureString(text).Round()
	x := max(rect.Min.X+(rect.Dx()-width)/2, rect.Min.X)
	baseline := rect.Min.Y + (rect.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Src = image.NewUniform(clr)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	text = strings.TrimSpace(text)
	if text == "" || maxWidth <= 0 || face == nil {
		return text
	}
	d := font.Drawer{Face: face}
	if d.MeasureString(text).Round() <= maxWidth {
		return text
	}
	const ellipsis = "..."
	if d.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if c := string(runes) + ellipsis; d.MeasureString(c).Round() <= maxWidth {
			return c
		}
	}
	return ellipsis
}

// asciiOnly replaces runes the bundled fonts cannot draw.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}
