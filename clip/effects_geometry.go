package clip

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/utils"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var scalers = map[common.Resampling]draw.Interpolator{
	common.ResampleNearest:        draw.NearestNeighbor,
	common.ResampleApproxBilinear: draw.ApproxBiLinear,
	common.ResampleBilinear:       draw.BiLinear,
	common.ResampleBicubic:        draw.CatmullRom,
}

func interpolator(r common.Resampling, fallback common.Resampling) draw.Interpolator {
	if s, ok := scalers[r]; ok {
		return s
	}
	return scalers[fallback]
}

// MirrorX flips every frame left to right.
func (c *Clip) MirrorX(ctx context.Context) error {
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		out := frames.New(f.Width, f.Height, f.Components)
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				copy(out.At(f.Width-1-x, y), f.At(x, y))
			}
		}
		return out, nil
	})
}

// MirrorY flips every frame top to bottom.
func (c *Clip) MirrorY(ctx context.Context) error {
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		out := frames.New(f.Width, f.Height, f.Components)
		stride := f.Stride()
		for y := 0; y < f.Height; y++ {
			copy(out.Pix[(f.Height-1-y)*stride:(f.Height-y)*stride], f.Pix[y*stride:(y+1)*stride])
		}
		return out, nil
	})
}

// Rotate turns every frame counter clockwise about its centre. The frame
// size is kept; corners that leave the frame are lost and uncovered pixels are zero.
func (c *Clip) Rotate(ctx context.Context, degrees float64, resampling common.Resampling) error {
	if math.Mod(degrees, 360) == 0 {
		c.log.Warn().Float64("degrees", degrees).Msg("rotation is a full turn, nothing to do")
		return nil
	}
	scaler := interpolator(resampling, common.ResampleNearest)

	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	cx, cy := float64(c.width)/2, float64(c.height)/2
	m := f64.Aff3{
		cos, sin, cx - cos*cx - sin*cy,
		-sin, cos, cy + sin*cx - cos*cy,
	}

	return c.mapImages(ctx, func(img *image.NRGBA) image.Image {
		out := image.NewNRGBA(img.Bounds())
		scaler.Transform(out, m, img, img.Bounds(), draw.Src, nil)
		return out
	})
}

type ResizeOptions struct {
	// Multiplier scales both sides. When zero, Width and Height are used.
	Multiplier float64
	Width      int
	Height     int
	// Fit keeps the aspect ratio, resizing to the largest size inside Width x Height.
	Fit        bool
	Resampling common.Resampling
}

func (c *Clip) Resize(ctx context.Context, opts ResizeOptions) error {
	current := utils.Resolution{Width: c.width, Height: c.height}

	var target utils.Resolution
	switch {
	case opts.Multiplier < 0:
		return common.Configurationf("resize multiplier %v is negative", opts.Multiplier)
	case opts.Multiplier > 0:
		target = current.Scaled(opts.Multiplier)
	case opts.Width > 0 && opts.Height > 0:
		target = utils.Resolution{Width: opts.Width, Height: opts.Height}
		if opts.Fit {
			target = current.ResizedToFit(target)
		}
	default:
		return common.Configurationf("resize needs a multiplier or a positive width and height")
	}
	if target == current {
		c.log.Warn().Str("size", target.FFMpegString()).Msg("clip already has this size")
		return nil
	}

	scaler := interpolator(opts.Resampling, common.ResampleBicubic)
	return c.mapImages(ctx, func(img *image.NRGBA) image.Image {
		out := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
		scaler.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
		return out
	})
}

// Pixelate shrinks every frame to size x size pixels and blows it back up without smoothing.
func (c *Clip) Pixelate(ctx context.Context, size int) error {
	if size <= 0 {
		return common.Configurationf("pixel size must be positive, got %d", size)
	}
	return c.mapImages(ctx, func(img *image.NRGBA) image.Image {
		small := image.NewNRGBA(image.Rect(0, 0, size, size))
		draw.BiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)
		out := image.NewNRGBA(img.Bounds())
		draw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), draw.Src, nil)
		return out
	})
}

// CropOptions selects the kept rectangle [X1, X2) x [Y1, Y2). A zero X2 or Y2
// means the frame edge. Width and Height override a missing corner, or
// together with a centre, both corners.
type CropOptions struct {
	X1      int
	Y1      int
	X2      int
	Y2      int
	CenterX *int
	CenterY *int
	Width   int
	Height  int
}

func cropSpan(start, end int, center *int, length, limit int) (int, int) {
	switch {
	case length > 0 && center != nil:
		start, end = *center-length/2, *center-length/2+length
	case length > 0 && start == 0 && end > 0:
		start = end - length
	case length > 0:
		end = start + length
	}
	if end == 0 {
		end = limit
	}
	return start, end
}

func (c *Clip) Crop(ctx context.Context, opts CropOptions) error {
	x1, x2 := cropSpan(opts.X1, opts.X2, opts.CenterX, opts.Width, c.width)
	y1, y2 := cropSpan(opts.Y1, opts.Y2, opts.CenterY, opts.Height, c.height)
	if x1 < 0 || y1 < 0 || x2 > c.width || y2 > c.height || x1 >= x2 || y1 >= y2 {
		return common.Configurationf("crop (%d,%d)-(%d,%d) does not fit in %s", x1, y1, x2, y2, c.Resolution())
	}
	if x1 == 0 && y1 == 0 && x2 == c.width && y2 == c.height {
		c.log.Warn().Msg("crop keeps the whole frame, nothing to do")
		return nil
	}

	c.log.Debug().Ints("from", []int{x1, y1}).Ints("to", []int{x2, y2}).Msg("cropping")
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		return f.SubFrame(x1, y1, x2, y2), nil
	})
}

var DefaultBorderColor = color.NRGBA{R: 255, G: 255, A: 255}

// BorderOptions adds All to every side on top of the per side values.
type BorderOptions struct {
	All    int
	Left   int
	Right  int
	Top    int
	Bottom int
	Color  *color.NRGBA
}

func (c *Clip) Border(ctx context.Context, opts BorderOptions) error {
	left, right := opts.All+opts.Left, opts.All+opts.Right
	top, bottom := opts.All+opts.Top, opts.All+opts.Bottom
	if left < 0 || right < 0 || top < 0 || bottom < 0 {
		return common.Configurationf("border sizes cannot be negative")
	}
	if left+right+top+bottom == 0 {
		c.log.Warn().Msg("all borders are 0, nothing to do")
		return nil
	}

	fill := DefaultBorderColor
	if opts.Color != nil {
		fill = *opts.Color
	}
	px, err := frames.Color(c.pixelFormat, fill)
	if err != nil {
		return err
	}
	background := frames.Filled(c.width+left+right, c.height+top+bottom, px)

	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		out := background.Clone()
		out.Paste(f, left, top)
		return out, nil
	})
}

// EvenDimensions drops the last row and column as needed so both sides are even.
func (c *Clip) EvenDimensions(ctx context.Context) error {
	current := utils.Resolution{Width: c.width, Height: c.height}
	even := current.EvenDimensions()
	if even == current {
		c.log.Warn().Str("size", current.FFMpegString()).Msg("dimensions are already even")
		return nil
	}
	return c.mapFrames(ctx, func(f frames.Frame) (frames.Frame, error) {
		return f.SubFrame(0, 0, even.Width, even.Height), nil
	})
}
