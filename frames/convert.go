package frames

import (
	"image"
	"image/color"

	"github.com/bcc-code/bcc-media-clips/common"
)

// Roles of the components of a packed pixel.
const (
	ChannelRed = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
	ChannelGray
)

var channelOrder = map[common.PixelFormat][]int{
	common.RGB24: {ChannelRed, ChannelGreen, ChannelBlue},
	common.BGR24: {ChannelBlue, ChannelGreen, ChannelRed},
	common.RGBA:  {ChannelRed, ChannelGreen, ChannelBlue, ChannelAlpha},
	common.BGRA:  {ChannelBlue, ChannelGreen, ChannelRed, ChannelAlpha},
	common.ARGB:  {ChannelAlpha, ChannelRed, ChannelGreen, ChannelBlue},
	common.ABGR:  {ChannelAlpha, ChannelBlue, ChannelGreen, ChannelRed},
	common.Gray:  {ChannelGray},
}

func order(pf common.PixelFormat) ([]int, error) {
	o, ok := channelOrder[pf]
	if !ok {
		return nil, common.Configurationf("pixel format %s cannot back a frame buffer", pf)
	}
	return o, nil
}

// Channels returns the role of each component of pf, in memory order.
func Channels(pf common.PixelFormat) ([]int, error) {
	return order(pf)
}

// AlphaIndex returns the component holding alpha, or -1.
func AlphaIndex(pf common.PixelFormat) int {
	for i, c := range channelOrder[pf] {
		if c == ChannelAlpha {
			return i
		}
	}
	return -1
}

func luma(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000)
}

func toNRGBA(o []int, px []uint8) color.NRGBA {
	c := color.NRGBA{A: 255}
	for i, ch := range o {
		switch ch {
		case ChannelRed:
			c.R = px[i]
		case ChannelGreen:
			c.G = px[i]
		case ChannelBlue:
			c.B = px[i]
		case ChannelAlpha:
			c.A = px[i]
		case ChannelGray:
			c.R, c.G, c.B = px[i], px[i], px[i]
		}
	}
	return c
}

func fromNRGBA(o []int, c color.NRGBA, dst []uint8) {
	for i, ch := range o {
		switch ch {
		case ChannelRed:
			dst[i] = c.R
		case ChannelGreen:
			dst[i] = c.G
		case ChannelBlue:
			dst[i] = c.B
		case ChannelAlpha:
			dst[i] = c.A
		case ChannelGray:
			dst[i] = luma(c.R, c.G, c.B)
		}
	}
}

// Color converts an RGBA value into the component layout of pf.
func Color(pf common.PixelFormat, c color.NRGBA) ([]uint8, error) {
	o, err := order(pf)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(o))
	fromNRGBA(o, c, out)
	return out, nil
}

// Convert re-packs f from one pixel format into another. Added alpha is opaque.
func Convert(f Frame, from, to common.PixelFormat) (Frame, error) {
	if from == to {
		return f.Clone(), nil
	}
	src, err := order(from)
	if err != nil {
		return Frame{}, err
	}
	dst, err := order(to)
	if err != nil {
		return Frame{}, err
	}

	out := New(f.Width, f.Height, len(dst))
	for p := 0; p < f.Width*f.Height; p++ {
		c := toNRGBA(src, f.Pix[p*len(src):])
		fromNRGBA(dst, c, out.Pix[p*len(dst):])
	}
	return out, nil
}

// ConvertMask re-shapes a mask for another pixel format. A pixel stays visible
// in every component if any of its components was visible.
func ConvertMask(m Mask, from, to common.PixelFormat) (Mask, error) {
	if from == to {
		return m.Clone(), nil
	}
	if _, err := order(from); err != nil {
		return Mask{}, err
	}
	dst, err := order(to)
	if err != nil {
		return Mask{}, err
	}

	out := NewMask(m.Width, m.Height, len(dst), false)
	for p := 0; p < m.Width*m.Height; p++ {
		visible := false
		for c := 0; c < m.Components; c++ {
			visible = visible || m.Visible[p*m.Components+c]
		}
		for c := 0; c < len(dst); c++ {
			out.Visible[p*len(dst)+c] = visible
		}
	}
	return out, nil
}

// ToImage returns f as an image the raster libraries can work on.
func ToImage(f Frame, pf common.PixelFormat) (*image.NRGBA, error) {
	o, err := order(pf)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for p := 0; p < f.Width*f.Height; p++ {
		c := toNRGBA(o, f.Pix[p*len(o):])
		img.Pix[p*4], img.Pix[p*4+1], img.Pix[p*4+2], img.Pix[p*4+3] = c.R, c.G, c.B, c.A
	}
	return img, nil
}

// FromImage packs any image into a frame of pixel format pf.
func FromImage(img image.Image, pf common.PixelFormat) (Frame, error) {
	o, err := order(pf)
	if err != nil {
		return Frame{}, err
	}
	b := img.Bounds()
	out := New(b.Dx(), b.Dy(), len(o))
	nrgba, isNRGBA := img.(*image.NRGBA)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			var c color.NRGBA
			if isNRGBA {
				c = nrgba.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			} else {
				c = color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			}
			fromNRGBA(o, c, out.Pix[out.Offset(x, y):])
		}
	}
	return out, nil
}
