package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lisacrebassa/pals-analysis/engine"
)

var (
	heatLow  = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	heatMid  = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	heatHigh = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	heatNaN  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	inkColor = color.RGBA{A: 255}
)

// heatmapPNG draws an annotated square matrix: labels on the left and
// bottom, one colored cell per value with the value printed in it.
func heatmapPNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	hm := cfg.Heatmap
	if hm == nil || len(hm.Labels) == 0 {
		return ErrNoData
	}
	n := len(hm.Labels)
	face := basicfont.Face7x13

	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	labelW := 0
	dr := &font.Drawer{Face: face}
	for _, l := range hm.Labels {
		if lw := dr.MeasureString(l).Ceil(); lw > labelW {
			labelW = lw
		}
	}

	const top, pad = 36, 10
	left := labelW + 2*pad
	bottom := face.Metrics().Height.Ceil() + 2*pad
	grid := min(size.Width-left-pad, size.Height-top-bottom)
	if grid < n {
		return errors.Errorf("heatmap of %d columns does not fit in %dx%d", n, size.Width, size.Height)
	}
	cell := grid / n

	drawText(img, cfg.Title, (size.Width-textWidth(cfg.Title))/2, top-pad-4)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := math.NaN()
			if i < len(hm.Values) && j < len(hm.Values[i]) {
				v = float64(hm.Values[i][j])
			}
			x0, y0 := left+j*cell, top+i*cell
			rect := image.Rect(x0, y0, x0+cell-1, y0+cell-1)
			draw.Draw(img, rect, image.NewUniform(heatColor(v, hm.Min, hm.Max)), image.Point{}, draw.Src)

			label := "nan"
			if !math.IsNaN(v) {
				label = engine.FormatNumber(engine.RoundTo2(v))
			}
			tx := x0 + (cell-textWidth(label))/2
			ty := y0 + cell/2 + face.Metrics().Ascent.Ceil()/2
			drawText(img, label, tx, ty)
		}

		// row label, right-aligned against the grid
		ly := top + i*cell + cell/2 + face.Metrics().Ascent.Ceil()/2
		drawText(img, hm.Labels[i], left-pad-textWidth(hm.Labels[i]), ly)

		// column label, centered under the grid; truncated to the cell width
		col := fitText(hm.Labels[i], cell)
		drawText(img, col, left+i*cell+(cell-textWidth(col))/2, top+n*cell+pad+face.Metrics().Ascent.Ceil())
	}

	return errors.Wrap(png.Encode(w, img), "encode heatmap")
}

// heatColor maps v in [lo, hi] onto a blue-grey-red diverging scale.
func heatColor(v, lo, hi float64) color.RGBA {
	if math.IsNaN(v) || hi <= lo {
		return heatNaN
	}
	t := (v - lo) / (hi - lo)
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return lerp(heatLow, heatMid, t*2)
	}
	return lerp(heatMid, heatHigh, (t-0.5)*2)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func drawText(dst draw.Image, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(inkColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func textWidth(text string) int {
	return (&font.Drawer{Face: basicfont.Face7x13}).MeasureString(text).Ceil()
}

func fitText(text string, width int) string {
	r := []rune(text)
	for len(r) > 1 && textWidth(string(r)) > width-4 {
		r = r[:len(r)-1]
	}
	return string(r)
}

