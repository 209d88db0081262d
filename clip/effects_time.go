package clip

import (
	"context"
	"image/color"
	"slices"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
)

// replaceTimeline swaps the frames and applies audioFn to the audio, when there is any.
func (c *Clip) replaceTimeline(ctx context.Context, fs []frames.Frame, audioFn func(frames.Audio) frames.Audio) error {
	if !c.HasAudio() {
		return c.SetFrames(ctx, fs)
	}
	a, err := c.AudioSamples(ctx)
	if err != nil {
		return err
	}
	if err := c.SetFrames(ctx, fs); err != nil {
		return err
	}
	return c.SetAudio(audioFn(a))
}

func (c *Clip) timeWindow(start, end float64) (int, int, error) {
	if start < 0 || end < start {
		return 0, 0, common.Rangef("invalid time window %v-%v", start, end)
	}
	return timeToIndex(c.fps, start), timeToIndex(c.fps, end), nil
}

// Cut removes [start, end) seconds from the video and the audio.
func (c *Clip) Cut(ctx context.Context, start, end float64) error {
	if start == 0 && end == 0 {
		c.log.Warn().Msg("nothing to cut")
		return nil
	}
	si, ei, err := c.timeWindow(start, end)
	if err != nil {
		return err
	}
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}
	si, ei = min(si, len(fs)), min(ei, len(fs))

	out := slices.Concat(fs[:si], fs[ei:])
	return c.replaceTimeline(ctx, out, func(a frames.Audio) frames.Audio {
		head := a.Slice(0, audioSampleIndex(a, start))
		tail := a.Slice(audioSampleIndex(a, end), a.Frames())
		head.Samples = append(head.Samples, tail.Samples...)
		return head
	})
}

// Trim keeps only [start, end) seconds. A zero end keeps everything after start.
func (c *Clip) Trim(ctx context.Context, start, end float64) error {
	if start == 0 && end == 0 {
		c.log.Warn().Msg("no trimming requested")
		return nil
	}
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}
	if end == 0 {
		end = float64(len(fs)) / c.fps
	}
	si, ei, err := c.timeWindow(start, end)
	if err != nil {
		return err
	}
	if ei > len(fs) {
		return common.Rangef("trim end %v is past the clip end %v", end, float64(len(fs))/c.fps)
	}

	out := slices.Clone(fs[si:ei])
	return c.replaceTimeline(ctx, out, func(a frames.Audio) frames.Audio {
		return a.Slice(audioSampleIndex(a, start), audioSampleIndex(a, end))
	})
}

// ReverseTime plays the clip backwards, audio included.
func (c *Clip) ReverseTime(ctx context.Context) error {
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}
	out := slices.Clone(fs)
	slices.Reverse(out)
	return c.replaceTimeline(ctx, out, func(a frames.Audio) frames.Audio {
		rev := a.Clone()
		n, ch := a.Frames(), a.Channels
		for i := 0; i < n; i++ {
			copy(rev.Samples[i*ch:(i+1)*ch], a.Samples[(n-1-i)*ch:(n-i)*ch])
		}
		return rev
	})
}

func (c *Clip) freezeWindow(ctx context.Context, at, duration float64) ([]frames.Frame, int, int, error) {
	fs, err := c.Frames(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	if at < 0 || duration < 0 {
		return nil, 0, 0, common.Rangef("invalid freeze at %v for %v", at, duration)
	}
	fi := timeToIndex(c.fps, at)
	if fi >= len(fs) {
		return nil, 0, 0, common.Rangef("freeze time %v is past the clip end", at)
	}
	return fs, fi, min(fi+timeToIndex(c.fps, duration), len(fs)), nil
}

// Freeze holds the frame at time for duration seconds. The clip keeps its length.
func (c *Clip) Freeze(ctx context.Context, at, duration float64) error {
	fs, fi, end, err := c.freezeWindow(ctx, at, duration)
	if err != nil {
		return err
	}
	out := slices.Clone(fs)
	for i := fi; i < end; i++ {
		out[i] = fs[fi]
	}
	return c.SetFrames(ctx, out)
}

// Rect is the pixel rectangle [X1, X2) x [Y1, Y2).
type Rect struct {
	X1, Y1, X2, Y2 int
}

func (r Rect) within(width, height int) bool {
	return r.X1 >= 0 && r.Y1 >= 0 && r.X1 < r.X2 && r.Y1 < r.Y2 && r.X2 <= width && r.Y2 <= height
}

type FreezeRegionOptions struct {
	Time     float64
	Duration float64
	// Inside is frozen while the rest keeps playing.
	Inside *Rect
	// Outside keeps playing while the rest is frozen. Ignored when Inside is set.
	Outside *Rect
}

func (c *Clip) FreezeRegion(ctx context.Context, opts FreezeRegionOptions) error {
	region := opts.Inside
	switch {
	case opts.Inside == nil && opts.Outside == nil:
		c.log.Warn().Msg("no region given, nothing to do")
		return nil
	case opts.Inside != nil && opts.Outside != nil:
		c.log.Warn().Msg("both inside and outside given, only inside is used")
	case opts.Inside == nil:
		region = opts.Outside
	}
	if !region.within(c.width, c.height) {
		return common.Configurationf("region %+v does not fit in %s", *region, c.Resolution())
	}

	fs, fi, end, err := c.freezeWindow(ctx, opts.Time, opts.Duration)
	if err != nil {
		return err
	}
	frozen := fs[fi]
	out := slices.Clone(fs)
	for i := fi; i < end; i++ {
		base, patch := fs[i].Clone(), frozen
		if opts.Inside == nil {
			base, patch = frozen.Clone(), fs[i]
		}
		base.Paste(patch.SubFrame(region.X1, region.Y1, region.X2, region.Y2), region.X1, region.Y1)
		out[i] = base
	}
	return c.SetFrames(ctx, out)
}

// BlinkOptions selects the blinking range by frame index or by time. An index wins over a time.
type BlinkOptions struct {
	// On is how long the clip is blanked, Off how long it shows. Both default to 2 seconds.
	On         float64
	Off        float64
	StartFrame *int
	StartTime  *float64
	EndFrame   *int
	EndTime    *float64
}

// Blink alternates blank frames with the footage inside the selected range, starting blank.
func (c *Clip) Blink(ctx context.Context, opts BlinkOptions) error {
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}

	on, off := opts.On, opts.Off
	if on == 0 {
		on = 2
	}
	if off == 0 {
		off = 2
	}
	onFrames, offFrames := timeToIndex(c.fps, on), timeToIndex(c.fps, off)
	if onFrames <= 0 || offFrames < 0 {
		return common.Configurationf("blink durations %v/%v are shorter than one frame", on, off)
	}

	start, end := 0, len(fs)
	switch {
	case opts.StartFrame != nil:
		start = *opts.StartFrame
	case opts.StartTime != nil:
		start = timeToIndex(c.fps, *opts.StartTime)
	}
	switch {
	case opts.EndFrame != nil:
		end = *opts.EndFrame
	case opts.EndTime != nil:
		end = timeToIndex(c.fps, *opts.EndTime)
	}
	if start < 0 || end > len(fs) || start > end {
		return common.Rangef("blink range [%d, %d) is outside [0, %d)", start, end, len(fs))
	}

	blank := frames.New(c.width, c.height, c.pixelFormat.Components())
	out := slices.Clone(fs)
	for i := start; i < end; i++ {
		if (i-start)%(onFrames+offFrames) < onFrames {
			out[i] = blank
		}
	}
	return c.SetFrames(ctx, out)
}

// fade blends the first or last frames of the clip with fill, linearly.
func (c *Clip) fade(ctx context.Context, duration float64, fill *color.NRGBA, fadeIn bool) error {
	if duration <= 0 {
		return common.Configurationf("fade duration must be positive, got %v", duration)
	}
	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}
	n := min(timeToIndex(c.fps, duration), len(fs))
	if n == 0 {
		c.log.Warn().Float64("duration", duration).Msg("fade is shorter than one frame")
		return nil
	}

	target := color.NRGBA{A: 255}
	if fill != nil {
		target = *fill
	}
	px, err := frames.Color(c.pixelFormat, target)
	if err != nil {
		return err
	}
	alpha := frames.AlphaIndex(c.pixelFormat)

	out := slices.Clone(fs)
	for k := 0; k < n; k++ {
		i, weight := k, float64(k)/float64(n)
		if !fadeIn {
			i = len(fs) - 1 - k
		}
		f := fs[i]
		blended := frames.New(f.Width, f.Height, f.Components)
		for p, v := range f.Pix {
			comp := p % f.Components
			if comp == alpha {
				blended.Pix[p] = v
				continue
			}
			blended.Pix[p] = clamp8(float64(px[comp])*(1-weight) + float64(v)*weight + 0.5)
		}
		out[i] = blended
	}
	return c.SetFrames(ctx, out)
}

// FadeIn fades from fill, black by default, into the footage over duration seconds.
func (c *Clip) FadeIn(ctx context.Context, duration float64, fill *color.NRGBA) error {
	return c.fade(ctx, duration, fill, true)
}

// FadeOut fades the last duration seconds into fill, black by default.
func (c *Clip) FadeOut(ctx context.Context, duration float64, fill *color.NRGBA) error {
	return c.fade(ctx, duration, fill, false)
}
