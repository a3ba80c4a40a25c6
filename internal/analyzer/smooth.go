package analyzer

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// gaussianKernel returns a normalized 1-D kernel with radius ceil(4σ).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(4 * sigma))
	kernel := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		kernel[i+radius] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// Smooth blurs the attention map in place with a separable Gaussian.
// Pixels outside the image count as zero. sigma <= 0 leaves the map untouched.
func Smooth(att *Attention, sigma float64) {
	if sigma <= 0 {
		return
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	w, h := att.Width, att.Height
	tmp := make([]float64, len(att.Pix))

	// Horizontal pass
	for y := 0; y < h; y++ {
		row := att.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				xx := x + k
				if xx < 0 || xx >= w {
					continue
				}
				sum += row[xx] * kernel[k+radius]
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				yy := y + k
				if yy < 0 || yy >= h {
					continue
				}
				sum += tmp[yy*w+x] * kernel[k+radius]
			}
			att.Pix[y*w+x] = sum
		}
	}
}
