package analyzer

import (
	"fmt"
	"image"
	"image/color"
)

// RGB is an interleaved Height×Width×Channels sample array with values in [0, 255].
type RGB struct {
	Width, Height int
	Channels      int
	Pix           []float64
}

// NewRGB allocates a black three-channel image.
func NewRGB(width, height int) *RGB {
	return &RGB{
		Width:    width,
		Height:   height,
		Channels: 3,
		Pix:      make([]float64, width*height*3),
	}
}

// Set stores the color of pixel (x, y).
func (m *RGB) Set(x, y int, r, g, b float64) {
	off := (y*m.Width + x) * m.Channels
	m.Pix[off] = r
	m.Pix[off+1] = g
	m.Pix[off+2] = b
}

// FromImage converts any image.Image into a three-channel RGB array.
// Gray images are replicated across channels and alpha is dropped.
func FromImage(img image.Image) *RGB {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := NewRGB(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, float64(c.R), float64(c.G), float64(c.B))
		}
	}

	return out
}

func (m *RGB) validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	if m.Channels != 3 {
		return fmt.Errorf("%w: got %d, want 3", ErrInvalidChannelCount, m.Channels)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height*m.Channels {
		return fmt.Errorf("%w: %d samples for %dx%dx%d", ErrInvalidDimensions, len(m.Pix), m.Width, m.Height, m.Channels)
	}
	return nil
}

// Prepared holds interleaved L, a, b planes scaled by 1/255.
type Prepared struct {
	Width, Height int
	Pix           []float64
}

// At returns the value of channel c at pixel index i.
func (p *Prepared) At(i, c int) float64 {
	return p.Pix[i*3+c]
}

// ChannelRange returns the minimum and maximum of one channel.
func (p *Prepared) ChannelRange(c int) (lo, hi float64) {
	n := p.Width * p.Height
	if n == 0 {
		return 0, 0
	}
	lo, hi = p.At(0, c), p.At(0, c)
	for i := 1; i < n; i++ {
		v := p.At(i, c)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// BoolMap is a binary image. It stores both boolean maps and activations.
type BoolMap struct {
	Width, Height int
	Pix           []bool
}

// NewBoolMap allocates an all-false map.
func NewBoolMap(width, height int) *BoolMap {
	return &BoolMap{Width: width, Height: height, Pix: make([]bool, width*height)}
}

func (m *BoolMap) At(x, y int) bool {
	return m.Pix[y*m.Width+x]
}

func (m *BoolMap) Set(x, y int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// Count returns the number of true pixels.
func (m *BoolMap) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Attention is the floating point accumulator of activations.
type Attention struct {
	Width, Height int
	Pix           []float64
}

func NewAttention(width, height int) *Attention {
	return &Attention{Width: width, Height: height, Pix: make([]float64, width*height)}
}
