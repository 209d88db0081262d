package clip

import (
	"image/color"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
)

// DefaultFillColor is the neon green a ColorClip gets when no colour is given.
var DefaultFillColor = color.NRGBA{R: 57, G: 255, B: 20, A: 255}

// ColorOptions always starts at zero and lasts Duration seconds.
// StartTime and EndTime must be left unset.
type ColorOptions struct {
	Options
	Color    *color.NRGBA
	Duration float64
}

// ColorClip shows a single colour for its whole duration.
type ColorClip struct {
	*Clip
	Color color.NRGBA
}

func NewColor(tools *ffmpeg.Toolkit, opts ColorOptions) (*ColorClip, error) {
	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "ColorClip",
		pixelFormat: common.RGB24,
		behavior:    common.LoopFrames,
	})
	if err != nil {
		return nil, err
	}

	fill := DefaultFillColor
	if opts.Color != nil {
		fill = *opts.Color
	}
	if opts.StartTime != 0 || opts.EndTime != 0 {
		return nil, common.Configurationf("ColorClip: start and end times are not supported, set duration instead")
	}
	if opts.Duration <= 0 {
		return nil, common.Configurationf("ColorClip: duration must be positive, got %v", opts.Duration)
	}
	c.startTime = 0
	c.endTime = opts.Duration
	if err := c.validateTiming(); err != nil {
		return nil, err
	}

	px, err := frames.Color(c.pixelFormat, fill)
	if err != nil {
		return nil, err
	}
	c.source = staticSource{frames.Filled(c.width, c.height, px)}

	return &ColorClip{Clip: c, Color: fill}, nil
}
