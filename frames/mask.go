package frames

import (
	"slices"
)

// Mask holds per component visibility for one frame.
type Mask struct {
	Width      int
	Height     int
	Components int
	Visible    []bool
}

func NewMask(width, height, components int, visible bool) Mask {
	m := Mask{
		Width:      width,
		Height:     height,
		Components: components,
		Visible:    make([]bool, width*height*components),
	}
	if visible {
		for i := range m.Visible {
			m.Visible[i] = true
		}
	}
	return m
}

// MaskFor returns a fully visible mask matching f.
func MaskFor(f Frame) Mask {
	return NewMask(f.Width, f.Height, f.Components, true)
}

func (m Mask) Clone() Mask {
	c := m
	c.Visible = slices.Clone(m.Visible)
	return c
}

func (m Mask) Offset(x, y int) int {
	return (y*m.Width + x) * m.Components
}

func (m Mask) Matches(f Frame) bool {
	return m.Width == f.Width && m.Height == f.Height && m.Components == f.Components
}

func (m Mask) Equal(o Mask) bool {
	return m.Width == o.Width && m.Height == o.Height && m.Components == o.Components && slices.Equal(m.Visible, o.Visible)
}

// Paste copies src into m with its top left corner at (x, y). Parts outside m are dropped.
func (m Mask) Paste(src Mask, x, y int) {
	r := clipRect(m.Width, m.Height, src.Width, src.Height, x, y)
	if r.empty() {
		return
	}
	n := (r.x1 - r.x0) * m.Components
	for row := r.y0; row < r.y1; row++ {
		d := m.Offset(r.x0, row)
		s := src.Offset(r.x0-x, row-y)
		copy(m.Visible[d:d+n], src.Visible[s:s+n])
	}
}

// Select returns a frame taking over where mask is visible and under everywhere else.
func Select(mask Mask, over, under Frame) Frame {
	out := under.Clone()
	for i, v := range mask.Visible {
		if v {
			out.Pix[i] = over.Pix[i]
		}
	}
	return out
}

// MaskFromAlpha marks a pixel visible when its alpha component is non zero.
func MaskFromAlpha(f Frame, alpha int) Mask {
	m := NewMask(f.Width, f.Height, f.Components, false)
	for p := 0; p < f.Width*f.Height; p++ {
		if f.Pix[p*f.Components+alpha] == 0 {
			continue
		}
		for c := 0; c < f.Components; c++ {
			m.Visible[p*f.Components+c] = true
		}
	}
	return m
}

// Overlay writes src into f at (x, y) wherever mask is visible. The mask has
// the shape of src. It is the same as selecting between f and src broadcast
// onto a blank canvas, without allocating the canvas.
func (f Frame) Overlay(src Frame, mask Mask, x, y int) {
	r := clipRect(f.Width, f.Height, src.Width, src.Height, x, y)
	if r.empty() {
		return
	}
	n := (r.x1 - r.x0) * f.Components
	for row := r.y0; row < r.y1; row++ {
		d := f.Offset(r.x0, row)
		s := src.Offset(r.x0-x, row-y)
		for i := 0; i < n; i++ {
			if mask.Visible[s+i] {
				f.Pix[d+i] = src.Pix[s+i]
			}
		}
	}
}
