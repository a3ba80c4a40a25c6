package analyzer

import (
	"image"

	"gonum.org/v1/gonum/floats"
)

// Normalize divides the attention map by its L2 norm, rescales the maximum to 255
// and truncates to 8 bits. A zero norm or zero peak skips the respective division,
// so an all-zero map stays all-zero.
func Normalize(att *Attention) *image.Gray {
	v := make([]float64, len(att.Pix))
	copy(v, att.Pix)

	if norm := floats.Norm(v, 2); norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
	if peak := floats.Max(v) / 255; peak > 0 {
		for i := range v {
			v[i] /= peak
		}
	}

	out := image.NewGray(image.Rect(0, 0, att.Width, att.Height))
	for i, x := range v {
		out.Pix[i] = uint8(max(0, min(255, x)))
	}
	return out
}
