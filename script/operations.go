package script

import (
	"context"
	"slices"

	"github.com/bcc-code/bcc-media-clips/clip"
	"github.com/samber/lo"
)

// operation applies one child element of a clip tag.
type operation func(ctx context.Context, c *clip.Clip, a *args) error

// simple adapts an operation without attributes.
func simple(fn func(c *clip.Clip, ctx context.Context) error) operation {
	return func(ctx context.Context, c *clip.Clip, _ *args) error {
		return fn(c, ctx)
	}
}

// checked runs fn only when every attribute parsed.
func checked(a *args, fn func() error) error {
	if err := a.Err(); err != nil {
		return err
	}
	return fn()
}

var operations = map[string]operation{
	// colour
	"add_colors": func(ctx context.Context, c *clip.Clip, a *args) error {
		r, g, b, l := a.Int("red", 0), a.Int("green", 0), a.Int("blue", 0), a.Int("luminance", 0)
		return checked(a, func() error { return c.AddColors(ctx, r, g, b, l) })
	},
	"multiply_colors": func(ctx context.Context, c *clip.Clip, a *args) error {
		r, g, b, l := a.Float("red", 1), a.Float("green", 1), a.Float("blue", 1), a.Float("luminance", 1)
		return checked(a, func() error { return c.MultiplyColors(ctx, r, g, b, l) })
	},
	"divide_colors": func(ctx context.Context, c *clip.Clip, a *args) error {
		r, g, b, l := a.Float("red", 1), a.Float("green", 1), a.Float("blue", 1), a.Float("luminance", 1)
		return checked(a, func() error { return c.DivideColors(ctx, r, g, b, l) })
	},
	"invert_colors": simple((*clip.Clip).InvertColors),
	"gamma_correction": func(ctx context.Context, c *clip.Clip, a *args) error {
		gamma := a.Float("gamma", 1)
		return checked(a, func() error { return c.GammaCorrection(ctx, gamma) })
	},
	"grayscale": simple((*clip.Clip).Grayscale),
	"bilevel":   simple((*clip.Clip).Bilevel),
	"set_pixel_format": func(ctx context.Context, c *clip.Clip, a *args) error {
		a.Required("pixel_format")
		pf := a.PixelFormat("pixel_format")
		return checked(a, func() error { return c.SetPixelFormat(ctx, pf) })
	},

	// geometry
	"mirror_x": simple((*clip.Clip).MirrorX),
	"mirror_y": simple((*clip.Clip).MirrorY),
	"rotate": func(ctx context.Context, c *clip.Clip, a *args) error {
		degrees, resampling := a.Float("degrees", 0), a.Resampling("resampling")
		return checked(a, func() error { return c.Rotate(ctx, degrees, resampling) })
	},
	"resize": func(ctx context.Context, c *clip.Clip, a *args) error {
		opts := clip.ResizeOptions{
			Multiplier: a.Float("multiplier", 0),
			Width:      a.Int("width", 0),
			Height:     a.Int("height", 0),
			Fit:        a.Bool("fit"),
			Resampling: a.Resampling("resampling"),
		}
		return checked(a, func() error { return c.Resize(ctx, opts) })
	},
	"pixelate": func(ctx context.Context, c *clip.Clip, a *args) error {
		size := a.Int("size", 0)
		return checked(a, func() error { return c.Pixelate(ctx, size) })
	},
	"crop": func(ctx context.Context, c *clip.Clip, a *args) error {
		opts := clip.CropOptions{
			X1:      a.Int("x1", 0),
			Y1:      a.Int("y1", 0),
			X2:      a.Int("x2", 0),
			Y2:      a.Int("y2", 0),
			CenterX: a.IntPtr("center_x"),
			CenterY: a.IntPtr("center_y"),
			Width:   a.Int("width", 0),
			Height:  a.Int("height", 0),
		}
		return checked(a, func() error { return c.Crop(ctx, opts) })
	},
	"border": func(ctx context.Context, c *clip.Clip, a *args) error {
		opts := clip.BorderOptions{
			All:    a.Int("all", 0),
			Left:   a.Int("left", 0),
			Right:  a.Int("right", 0),
			Top:    a.Int("top", 0),
			Bottom: a.Int("bottom", 0),
			Color:  a.Color("color"),
		}
		return checked(a, func() error { return c.Border(ctx, opts) })
	},
	"even_dimensions": simple((*clip.Clip).EvenDimensions),

	// time
	"cut": func(ctx context.Context, c *clip.Clip, a *args) error {
		start, end := a.Time("start", 0), a.Time("end", 0)
		return checked(a, func() error { return c.Cut(ctx, start, end) })
	},
	"trim": func(ctx context.Context, c *clip.Clip, a *args) error {
		start, end := a.Time("start", 0), a.Time("end", 0)
		return checked(a, func() error { return c.Trim(ctx, start, end) })
	},
	"reverse_time": simple((*clip.Clip).ReverseTime),
	"freeze": func(ctx context.Context, c *clip.Clip, a *args) error {
		at, duration := a.Time("time", 0), a.Time("duration", 0)
		return checked(a, func() error { return c.Freeze(ctx, at, duration) })
	},
	"freeze_region": func(ctx context.Context, c *clip.Clip, a *args) error {
		opts := clip.FreezeRegionOptions{
			Time:     a.Time("time", 0),
			Duration: a.Time("duration", 0),
			Inside:   a.Rect("inside"),
			Outside:  a.Rect("outside"),
		}
		return checked(a, func() error { return c.FreezeRegion(ctx, opts) })
	},
	"blink": func(ctx context.Context, c *clip.Clip, a *args) error {
		opts := clip.BlinkOptions{
			On:         a.Time("on", 0),
			Off:        a.Time("off", 0),
			StartFrame: a.IntPtr("start_frame"),
			StartTime:  a.TimePtr("start_time"),
			EndFrame:   a.IntPtr("end_frame"),
			EndTime:    a.TimePtr("end_time"),
		}
		return checked(a, func() error { return c.Blink(ctx, opts) })
	},
	"fade_in": func(ctx context.Context, c *clip.Clip, a *args) error {
		duration, fill := a.Time("duration", 0), a.Color("color")
		return checked(a, func() error { return c.FadeIn(ctx, duration, fill) })
	},
	"fade_out": func(ctx context.Context, c *clip.Clip, a *args) error {
		duration, fill := a.Time("duration", 0), a.Color("color")
		return checked(a, func() error { return c.FadeOut(ctx, duration, fill) })
	},

	// audio
	"audio_initialize": func(ctx context.Context, c *clip.Clip, a *args) error {
		channels, rate := a.Int("channels", 0), a.Int("sample_rate", 0)
		return checked(a, func() error { return c.AudioInitialize(ctx, channels, rate) })
	},
	"audio_volume": func(ctx context.Context, c *clip.Clip, a *args) error {
		multiplier := a.Float("multiplier", 1)
		return checked(a, func() error { return c.AudioVolume(ctx, multiplier) })
	},
	"audio_stereo_volume": func(ctx context.Context, c *clip.Clip, a *args) error {
		left, right := a.Float("left", 1), a.Float("right", 1)
		return checked(a, func() error { return c.AudioStereoVolume(ctx, left, right) })
	},
	"add_sound": func(ctx context.Context, c *clip.Clip, a *args) error {
		at, path := a.Time("time", 0), a.RequiredPath("path")
		return checked(a, func() error { return c.AddSound(ctx, at, clip.AddSoundOptions{Path: path}) })
	},
	"audio_fade_in": func(ctx context.Context, c *clip.Clip, a *args) error {
		duration := a.Time("duration", 0)
		return checked(a, func() error { return c.AudioFadeIn(ctx, duration) })
	},
	"audio_fade_out": func(ctx context.Context, c *clip.Clip, a *args) error {
		duration := a.Time("duration", 0)
		return checked(a, func() error { return c.AudioFadeOut(ctx, duration) })
	},
	"audio_peak_normalize": simple((*clip.Clip).AudioPeakNormalize),
	"drop_audio": func(_ context.Context, c *clip.Clip, _ *args) error {
		c.DropAudio()
		return nil
	},

	// placement and masks
	"set_position": func(_ context.Context, c *clip.Clip, a *args) error {
		x, y := a.Int("x", 0), a.Int("y", 0)
		return checked(a, func() error {
			c.SetPosition(x, y)
			return nil
		})
	},
	"set_behavior": func(_ context.Context, c *clip.Clip, a *args) error {
		a.Required("behavior")
		b := a.Behavior("behavior")
		return checked(a, func() error {
			c.SetBehavior(b)
			return nil
		})
	},
	"set_mask_behavior": func(_ context.Context, c *clip.Clip, a *args) error {
		a.Required("behavior")
		b := a.Behavior("behavior")
		return checked(a, func() error {
			c.SetMaskBehavior(b)
			return nil
		})
	},
	"use_alpha_mask": func(_ context.Context, c *clip.Clip, _ *args) error {
		return c.UseAlphaMask()
	},

	// output
	"write_video": func(ctx context.Context, c *clip.Clip, a *args) error {
		path := a.RequiredPath("path")
		opts := clip.WriteVideoOptions{
			Codec:       a.String("codec"),
			AudioCodec:  a.String("audio_codec"),
			PixelFormat: a.String("pixel_format"),
			Preset:      a.String("preset"),
			NoAudio:     a.Bool("no_audio"),
		}
		return checked(a, func() error { return c.WriteVideo(ctx, path, opts) })
	},
	"write_audio": func(ctx context.Context, c *clip.Clip, a *args) error {
		path, codec := a.RequiredPath("path"), a.String("codec")
		return checked(a, func() error { return c.WriteAudio(ctx, path, codec) })
	},
	"write_image": func(ctx context.Context, c *clip.Clip, a *args) error {
		path := a.RequiredPath("path")
		if a.has("time") {
			t := a.Time("time", 0)
			return checked(a, func() error { return c.WriteImageAt(ctx, path, t) })
		}
		index := a.Int("index", 0)
		return checked(a, func() error { return c.WriteImage(ctx, path, index) })
	},
	"play_audio": simple((*clip.Clip).PlayAudio),
}

// Operations lists the operation tags a script may use.
func Operations() []string {
	names := lo.Keys(operations)
	slices.Sort(names)
	return names
}
