package hardware

import (
	"image"
	"image/color"
	"math"
)

// HeatMapWidth is the width of the image returned by HeatMap()
const HeatMapWidth = 256

// maximum height of the image returned by HeatMap(). RAM larger than
// HeatMapWidth*heatMapMaxHeight is compressed
const heatMapMaxHeight = 256

// HeatMap draws the largest RAM area of the data space. Every pixel is one or
// more bytes of RAM. Reads are drawn in green, writes in red and the value of
// the byte in blue
func (m *Machine) HeatMap() *image.RGBA {
	rams := m.Data.RAMs()
	if len(rams) == 0 {
		return image.NewRGBA(image.Rect(0, 0, HeatMapWidth, 1))
	}
	r := rams[0]
	for _, rr := range rams[1:] {
		if rr.Size() > r.Size() {
			r = rr
		}
	}

	size := r.Size()
	height := max(1, min(heatMapMaxHeight, ceilDiv(size, HeatMapWidth)))
	perPixel := max(1, ceilDiv(size, HeatMapWidth*height))
	height = ceilDiv(size, HeatMapWidth*perPixel)

	img := image.NewRGBA(image.Rect(0, 0, HeatMapWidth, height))

	scale := func(v int) uint8 {
		if v == 0 {
			return 0
		}
		return uint8(min(255, 64+int(math.Log2(float64(v))*16)))
	}

	for y := range height {
		for x := range HeatMapWidth {
			base := (y*HeatMapWidth + x) * perPixel
			if base >= size {
				continue // for loop
			}

			var reads, writes, value int
			for i := range min(perPixel, size-base) {
				idx := uint32(base + i)
				rd, wr := r.Heat(idx)
				reads += rd
				writes += wr
				v, _ := r.Peek(idx)
				value = max(value, int(v))
			}

			img.SetRGBA(x, y, color.RGBA{
				R: scale(writes),
				G: scale(reads),
				B: uint8(value >> 2),
				A: 255,
			})
		}
	}

	return img
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
