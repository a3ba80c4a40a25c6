package analyzer

// Activator reduces a boolean map to an activation map of the same size.
// Implementations must not modify the input.
type Activator interface {
	Activate(m *BoolMap) *BoolMap
}

// BorderFloodFill clears every 4-connected true region that touches the image border.
type BorderFloodFill struct{}

// Activate keeps only the true pixels unreachable from the border.
func (BorderFloodFill) Activate(m *BoolMap) *BoolMap {
	reached := borderConnected(m, true)
	out := NewBoolMap(m.Width, m.Height)
	for i, v := range m.Pix {
		out.Pix[i] = v && !reached[i]
	}
	return out
}

// HoleFill fills the false regions that cannot be reached from the border
// through false pixels. True pixels are kept as they are.
type HoleFill struct{}

// Activate returns the map with its holes filled.
func (HoleFill) Activate(m *BoolMap) *BoolMap {
	reached := borderConnected(m, false)
	out := NewBoolMap(m.Width, m.Height)
	for i, v := range m.Pix {
		out.Pix[i] = v || !reached[i]
	}
	return out
}

// borderConnected marks every pixel equal to want that is 4-connected to the border
// through pixels equal to want. All border pixels seed one shared flood fill.
func borderConnected(m *BoolMap, want bool) []bool {
	w, h := m.Width, m.Height
	reached := make([]bool, len(m.Pix))
	if w == 0 || h == 0 {
		return reached
	}

	stack := make([]int, 0, 2*(w+h))
	push := func(i int) {
		if !reached[i] && m.Pix[i] == want {
			reached[i] = true
			stack = append(stack, i)
		}
	}

	// Seed with the top and bottom rows, then the left and right columns
	for x := 0; x < w; x++ {
		push(x)
		push((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		push(y * w)
		push(y*w + w - 1)
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := i%w, i/w
		if x > 0 {
			push(i - 1)
		}
		if x < w-1 {
			push(i + 1)
		}
		if y > 0 {
			push(i - w)
		}
		if y < h-1 {
			push(i + w)
		}
	}

	return reached
}
