package frames

import (
	"bytes"

	"github.com/bcc-code/bcc-media-clips/common"
)

// Frame is one packed picture: Height rows of Width pixels, Components bytes per pixel.
type Frame struct {
	Width      int
	Height     int
	Components int
	Pix        []uint8
}

func New(width, height, components int) Frame {
	return Frame{
		Width:      width,
		Height:     height,
		Components: components,
		Pix:        make([]uint8, width*height*components),
	}
}

// Filled returns a frame where every pixel is color. The component count follows len(color).
func Filled(width, height int, color []uint8) Frame {
	f := New(width, height, len(color))
	if len(color) == 0 {
		return f
	}
	for i := 0; i < len(f.Pix); i += len(color) {
		copy(f.Pix[i:], color)
	}
	return f
}

func (f Frame) Clone() Frame {
	c := f
	c.Pix = bytes.Clone(f.Pix)
	return c
}

func (f Frame) Stride() int {
	return f.Width * f.Components
}

func (f Frame) Offset(x, y int) int {
	return y*f.Stride() + x*f.Components
}

// At returns the components of one pixel. The slice aliases the frame.
func (f Frame) At(x, y int) []uint8 {
	o := f.Offset(x, y)
	return f.Pix[o : o+f.Components]
}

func (f Frame) SameShape(o Frame) bool {
	return f.Width == o.Width && f.Height == o.Height && f.Components == o.Components
}

func (f Frame) Equal(o Frame) bool {
	return f.SameShape(o) && bytes.Equal(f.Pix, o.Pix)
}

// Paste copies src into f with its top left corner at (x, y). Parts outside f are dropped.
func (f Frame) Paste(src Frame, x, y int) {
	r := clipRect(f.Width, f.Height, src.Width, src.Height, x, y)
	if r.empty() {
		return
	}
	n := (r.x1 - r.x0) * f.Components
	for row := r.y0; row < r.y1; row++ {
		d := f.Offset(r.x0, row)
		s := src.Offset(r.x0-x, row-y)
		copy(f.Pix[d:d+n], src.Pix[s:s+n])
	}
}

// SubFrame copies the rectangle [x0,x1) x [y0,y1) into a new frame.
func (f Frame) SubFrame(x0, y0, x1, y1 int) Frame {
	out := New(x1-x0, y1-y0, f.Components)
	n := out.Stride()
	for row := y0; row < y1; row++ {
		s := f.Offset(x0, row)
		copy(out.Pix[(row-y0)*n:], f.Pix[s:s+n])
	}
	return out
}

// Split cuts a raw decoded stream into frames. Trailing partial frames are an error.
func Split(raw []byte, width, height, components int) ([]Frame, error) {
	size := width * height * components
	if size <= 0 {
		return nil, common.Configurationf("invalid frame shape %dx%dx%d", width, height, components)
	}
	if len(raw)%size != 0 {
		return nil, common.Configurationf("%d bytes do not hold whole %dx%dx%d frames", len(raw), width, height, components)
	}
	out := make([]Frame, 0, len(raw)/size)
	for i := 0; i < len(raw); i += size {
		out = append(out, Frame{
			Width:      width,
			Height:     height,
			Components: components,
			Pix:        raw[i : i+size : i+size],
		})
	}
	return out, nil
}

// Join concatenates frames into one raw stream.
func Join(frames []Frame) []byte {
	total := 0
	for _, f := range frames {
		total += len(f.Pix)
	}
	out := make([]byte, 0, total)
	for _, f := range frames {
		out = append(out, f.Pix...)
	}
	return out
}

type rect struct {
	x0, y0, x1, y1 int
}

func (r rect) empty() bool {
	return r.x0 >= r.x1 || r.y0 >= r.y1
}

// clipRect is the part of a w*h source placed at (x, y) that lands on a cw*ch canvas, in canvas coordinates.
func clipRect(cw, ch, w, h, x, y int) rect {
	return rect{
		x0: max(x, 0),
		y0: max(y, 0),
		x1: min(x+w, cw),
		y1: min(y+h, ch),
	}
}
