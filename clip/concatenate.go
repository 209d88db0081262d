package clip

import (
	"context"
	"image/color"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/samber/lo"
)

type ConcatenateOptions struct {
	Options
	Background *color.NRGBA
}

// ConcatenateClip plays its children back to back.
type ConcatenateClip struct {
	*Clip
	Children []*Clip
}

// NewConcatenate places every frame at the origin of a canvas as large as the
// largest child. Audio is joined when every child has audio in the same layout.
func NewConcatenate(ctx context.Context, tools *ffmpeg.Toolkit, clips []*Clip, opts ConcatenateOptions) (*ConcatenateClip, error) {
	if err := checkChildren("Concatenate", clips, 1); err != nil {
		return nil, err
	}
	canvasDefaults(&opts.Options, clips)

	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "Concatenate",
		pixelFormat: common.RGB24,
		behavior:    common.EnforceLimit,
	})
	if err != nil {
		return nil, err
	}
	if c.width <= 0 || c.height <= 0 {
		return nil, common.Configurationf("Concatenate: size %dx%d must be positive", c.width, c.height)
	}

	blank, err := blankFrame(c, opts.Background)
	if err != nil {
		return nil, err
	}
	layers, err := readLayers(ctx, clips, c.pixelFormat)
	if err != nil {
		return nil, err
	}

	var out []frames.Frame
	for _, l := range layers {
		for i, f := range l.frames {
			canvas := blank.Clone()
			canvas.Overlay(f, l.masks[i], 0, 0)
			out = append(out, canvas)
		}
	}
	if err := c.setCanvasFrames(ctx, out, opts.Masks); err != nil {
		return nil, err
	}

	if err := c.joinAudio(ctx, clips); err != nil {
		return nil, err
	}
	return &ConcatenateClip{Clip: c, Children: clips}, nil
}

func (c *Clip) joinAudio(ctx context.Context, clips []*Clip) error {
	if !lo.EveryBy(clips, func(child *Clip) bool { return child.HasAudio() }) {
		if lo.SomeBy(clips, func(child *Clip) bool { return child.HasAudio() }) {
			c.log.Warn().Msg("not every clip has audio, the concatenation is silent")
		}
		return nil
	}

	var joined frames.Audio
	for i, child := range clips {
		a, err := child.AudioSamples(ctx)
		if err != nil {
			return err
		}
		if i == 0 {
			joined = frames.Audio{Channels: a.Channels, SampleRate: a.SampleRate}
		} else if !a.SameLayout(joined) {
			c.log.Warn().Int("clip", i).Msg("audio layouts differ, the concatenation is silent")
			return nil
		}
		joined.Samples = append(joined.Samples, a.Samples...)
	}
	return c.SetAudio(joined)
}
