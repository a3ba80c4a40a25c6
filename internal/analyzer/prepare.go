package analyzer

import "github.com/lucasb-eyer/go-colorful"

// labScale compresses CIE Lab into roughly [-0.5, 0.5]. The threshold sweep is calibrated
// against this constant; changing it changes the output.
const labScale = 255.0

// Prepare converts an RGB image into L*a*b* (D65) divided by labScale.
func Prepare(img *RGB) *Prepared {
	n := img.Width * img.Height
	out := &Prepared{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]float64, n*3),
	}

	for i := 0; i < n; i++ {
		off := i * img.Channels
		c := colorful.Color{
			R: img.Pix[off] / 255.0,
			G: img.Pix[off+1] / 255.0,
			B: img.Pix[off+2] / 255.0,
		}
		// go-colorful reports L in [0,1] and a, b divided by 100
		l, a, b := c.Lab()
		out.Pix[i*3] = l * 100 / labScale
		out.Pix[i*3+1] = a * 100 / labScale
		out.Pix[i*3+2] = b * 100 / labScale
	}

	return out
}
