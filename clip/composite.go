package clip

import (
	"context"
	"image/color"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/samber/lo"
)

type CompositeOptions struct {
	Options
	// Background fills pixels no child covers. Defaults to zero in the canvas format.
	Background *color.NRGBA
}

// CompositeClip layers its children back to front. Children are read once,
// at construction; later changes to them are not seen.
type CompositeClip struct {
	*Clip
	Children []*Clip
}

// canvasFormat is rgba when any input carries alpha as rgba, rgb24 otherwise.
func canvasFormat(clips []*Clip) common.PixelFormat {
	if lo.SomeBy(clips, func(c *Clip) bool { return c.pixelFormat == common.RGBA }) {
		return common.RGBA
	}
	return common.RGB24
}

// canvasDefaults fills size and frame rate from the largest input when not set.
func canvasDefaults(opts *Options, clips []*Clip) {
	if opts.Width == 0 {
		opts.Width = lo.MaxBy(clips, func(a, b *Clip) bool { return a.width > b.width }).width
	}
	if opts.Height == 0 {
		opts.Height = lo.MaxBy(clips, func(a, b *Clip) bool { return a.height > b.height }).height
	}
	if opts.FPS == 0 {
		opts.FPS = lo.MaxBy(clips, func(a, b *Clip) bool { return a.fps > b.fps }).fps
	}
	if opts.PixelFormat == (common.PixelFormat{}) {
		opts.PixelFormat = canvasFormat(clips)
	}
}

func checkChildren(kind string, clips []*Clip, minimum int) error {
	if len(clips) < minimum {
		return common.Configurationf("%s needs at least %d clips, got %d", kind, minimum, len(clips))
	}
	for i, c := range clips {
		if c == nil {
			return common.Configurationf("%s: clip %d is nil", kind, i)
		}
	}
	return nil
}

func blankFrame(c *Clip, background *color.NRGBA) (frames.Frame, error) {
	if background == nil {
		return frames.New(c.width, c.height, c.pixelFormat.Components()), nil
	}
	px, err := frames.Color(c.pixelFormat, *background)
	if err != nil {
		return frames.Frame{}, err
	}
	return frames.Filled(c.width, c.height, px), nil
}

// setCanvasFrames installs frames built by an engine, then any supplied masks.
func (c *Clip) setCanvasFrames(ctx context.Context, out []frames.Frame, masks []frames.Mask) error {
	if err := c.SetFrames(ctx, out); err != nil {
		return err
	}
	c.source = staticSource(out)
	if len(masks) > 0 {
		return c.SetMask(masks)
	}
	return nil
}

type layer struct {
	frames []frames.Frame
	masks  []frames.Mask
	x, y   int
}

func readLayers(ctx context.Context, clips []*Clip, pf common.PixelFormat) ([]layer, error) {
	layers := make([]layer, len(clips))
	for i, child := range clips {
		fs, err := child.framesIn(ctx, pf)
		if err != nil {
			return nil, err
		}
		ms, err := child.masksIn(ctx, pf)
		if err != nil {
			return nil, err
		}
		layers[i] = layer{frames: fs, masks: ms, x: child.x, y: child.y}
	}
	return layers, nil
}

// NewComposite paints the children in order onto a shared canvas. Where
// masks overlap, the later child wins. A child with fewer frames than the
// longest one stops contributing once it runs out.
func NewComposite(ctx context.Context, tools *ffmpeg.Toolkit, clips []*Clip, opts CompositeOptions) (*CompositeClip, error) {
	if err := checkChildren("CompositeClip", clips, 2); err != nil {
		return nil, err
	}
	canvasDefaults(&opts.Options, clips)

	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "CompositeClip",
		pixelFormat: common.RGB24,
		behavior:    common.EnforceLimit,
	})
	if err != nil {
		return nil, err
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, common.Configurationf("CompositeClip: size %dx%d must be positive", c.width, c.height)
	}

	blank, err := blankFrame(c, opts.Background)
	if err != nil {
		return nil, err
	}
	layers, err := readLayers(ctx, clips, c.pixelFormat)
	if err != nil {
		return nil, err
	}

	count := lo.Max(lo.Map(layers, func(l layer, _ int) int { return len(l.frames) }))
	out := make([]frames.Frame, count)
	for f := range out {
		acc := blank.Clone()
		for _, l := range layers {
			if f >= len(l.frames) || f >= len(l.masks) {
				continue
			}
			acc.Overlay(l.frames[f], l.masks[f], l.x, l.y)
		}
		out[f] = acc
	}

	if err := c.setCanvasFrames(ctx, out, opts.Masks); err != nil {
		return nil, err
	}
	c.log.Debug().Int("children", len(clips)).Int("frames", count).Str("canvas", c.Resolution()).Msg("composited")

	return &CompositeClip{Clip: c, Children: clips}, nil
}
