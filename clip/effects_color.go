package clip

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"golang.org/x/image/draw"
)

// mapFrames replaces every frame with fn(frame). fn must not modify its input.
func (c *Clip) mapFrames(ctx context.Context, fn func(frames.Frame) (frames.Frame, error)) error {
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}
	out := make([]frames.Frame, len(fs))
	for i, f := range fs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if out[i], err = fn(f); err != nil {
			return err
		}
	}
	return c.SetFrames(ctx, out)
}

// mapImages runs fn on every frame as an image.
func (c *Clip) mapImages(ctx context.Context, fn func(*image.NRGBA) image.Image) error {
	pf := c.pixelFormat
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		img, err := frames.ToImage(f, pf)
		if err != nil {
			return frames.Frame{}, err
		}
		return frames.FromImage(fn(img), pf)
	})
}

// channelTable maps each component value through a per channel lookup table.
// Alpha is left untouched.
type channelTable [frames.ChannelGray + 1][256]uint8

func newChannelTable(fn func(channel int, v float64) float64) *channelTable {
	t := &channelTable{}
	for ch := range t {
		for v := 0; v < 256; v++ {
			if ch == frames.ChannelAlpha {
				t[ch][v] = uint8(v)
				continue
			}
			t[ch][v] = clamp8(fn(ch, float64(v)))
		}
	}
	return t
}

func clamp8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func (c *Clip) applyTable(ctx context.Context, t *channelTable) error {
	roles, err := frames.Channels(c.pixelFormat)
	if err != nil {
		return err
	}
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		out := frames.New(f.Width, f.Height, f.Components)
		for i, v := range f.Pix {
			out.Pix[i] = t[roles[i%f.Components]][v]
		}
		return out, nil
	})
}

// pick returns the value of an RGB triple for one channel. Gray takes the mean.
func pick(channel int, r, g, b float64) float64 {
	switch channel {
	case frames.ChannelRed:
		return r
	case frames.ChannelGreen:
		return g
	case frames.ChannelBlue:
		return b
	}
	return (r + g + b) / 3
}

// AddColors adds to each colour channel, then adds luminance to all of them. Results saturate.
func (c *Clip) AddColors(ctx context.Context, red, green, blue, luminance int) error {
	if red == 0 && green == 0 && blue == 0 && luminance == 0 {
		c.log.Warn().Msg("all addends are 0, nothing to do")
		return nil
	}
	return c.applyTable(ctx, newChannelTable(func(ch int, v float64) float64 {
		return v + pick(ch, float64(red), float64(green), float64(blue)) + float64(luminance)
	}))
}

// MultiplyColors scales each colour channel, then scales all of them by luminance.
func (c *Clip) MultiplyColors(ctx context.Context, red, green, blue, luminance float64) error {
	if red == 1 && green == 1 && blue == 1 && luminance == 1 {
		c.log.Warn().Msg("all multipliers are 1, nothing to do")
		return nil
	}
	return c.applyTable(ctx, newChannelTable(func(ch int, v float64) float64 {
		return v * pick(ch, red, green, blue) * luminance
	}))
}

func (c *Clip) DivideColors(ctx context.Context, red, green, blue, luminance float64) error {
	if red == 1 && green == 1 && blue == 1 && luminance == 1 {
		c.log.Warn().Msg("all divisors are 1, nothing to do")
		return nil
	}
	if red == 0 || green == 0 || blue == 0 || luminance == 0 {
		return common.Configurationf("divisors cannot be zero")
	}
	return c.applyTable(ctx, newChannelTable(func(ch int, v float64) float64 {
		return v / pick(ch, red, green, blue) / luminance
	}))
}

func (c *Clip) InvertColors(ctx context.Context) error {
	return c.applyTable(ctx, newChannelTable(func(_ int, v float64) float64 {
		return 255 - v
	}))
}

// GammaCorrection maps every colour value v to 255*(v/255)^gamma.
func (c *Clip) GammaCorrection(ctx context.Context, gamma float64) error {
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return common.Configurationf("gamma must be positive, got %v", gamma)
	}
	if gamma == 1 {
		c.log.Warn().Msg("gamma is 1, nothing to do")
		return nil
	}
	return c.applyTable(ctx, newChannelTable(func(_ int, v float64) float64 {
		return 255 * math.Pow(v/255, gamma)
	}))
}

// Grayscale replaces the colour of every pixel with its luma. The pixel format is kept.
func (c *Clip) Grayscale(ctx context.Context) error {
	if c.pixelFormat == common.Gray {
		c.log.Warn().Msg("clip is already gray")
		return nil
	}
	return c.mapImages(ctx, func(img *image.NRGBA) image.Image {
		out := image.NewNRGBA(img.Bounds())
		for i := 0; i < len(img.Pix); i += 4 {
			y := color.GrayModel.Convert(color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 255}).(color.Gray).Y
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = y, y, y, img.Pix[i+3]
		}
		return out
	})
}

var bilevelPalette = color.Palette{color.Black, color.White}

// Bilevel dithers every frame to pure black and white.
func (c *Clip) Bilevel(ctx context.Context) error {
	return c.mapImages(ctx, func(img *image.NRGBA) image.Image {
		opaque := image.NewNRGBA(img.Bounds())
		for i := 0; i < len(img.Pix); i += 4 {
			copy(opaque.Pix[i:i+3], img.Pix[i:i+3])
			opaque.Pix[i+3] = 255
		}
		dithered := image.NewPaletted(img.Bounds(), bilevelPalette)
		draw.FloydSteinberg.Draw(dithered, dithered.Bounds(), opaque, image.Point{})

		out := image.NewNRGBA(img.Bounds())
		for p, idx := range dithered.Pix {
			v := uint8(0)
			if idx == 1 {
				v = 255
			}
			out.Pix[4*p], out.Pix[4*p+1], out.Pix[4*p+2], out.Pix[4*p+3] = v, v, v, img.Pix[4*p+3]
		}
		return out
	})
}

// SetPixelFormat converts frames and masks into pf.
func (c *Clip) SetPixelFormat(ctx context.Context, pf common.PixelFormat) error {
	if !pf.Packed() {
		return common.Configurationf("pixel format %q cannot back a frame buffer", pf.Value)
	}
	if pf == c.pixelFormat {
		c.log.Warn().Str("pixel_format", pf.Value).Msg("clip already uses this pixel format")
		return nil
	}

	fs, err := c.framesIn(ctx, pf)
	if err != nil {
		return err
	}
	ms, err := c.masksIn(ctx, pf)
	if err != nil {
		return err
	}

	fromAlpha := c.maskFromAlpha && frames.AlphaIndex(pf) >= 0
	c.pixelFormat = pf
	if err := c.SetFrames(ctx, fs); err != nil {
		return err
	}
	c.maskFromAlpha = fromAlpha
	if fromAlpha {
		c.maskSource = nil
	} else {
		c.maskSource = ms
	}
	return nil
}
