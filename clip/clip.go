package clip

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/rs/zerolog"
)

// DefaultPadColor fills frames added under the PAD behavior.
var DefaultPadColor = color.NRGBA{R: 77, G: 128, B: 90, A: 255}

// Options holds the settings shared by every kind of clip. Zero values pick the kind's default.
type Options struct {
	StartTime    float64
	EndTime      float64
	FPS          float64
	Width        int
	Height       int
	X            int
	Y            int
	PixelFormat  common.PixelFormat
	Behavior     common.Behavior
	MaskBehavior common.Behavior
	PadColor     *color.NRGBA
	// Masks replaces the default fully visible mask. A short list is expanded with MaskBehavior.
	Masks []frames.Mask
	// NoAudio skips the audio of file backed clips.
	NoAudio bool
}

// FrameSource produces the raw frames a clip is cut from.
type FrameSource interface {
	Frames(ctx context.Context) ([]frames.Frame, error)
}

// AudioSource produces the full audio a clip is cut from.
type AudioSource interface {
	Audio(ctx context.Context) (frames.Audio, error)
}

// Clip is a time bounded run of frames with optional audio. Frames, masks
// and audio are resolved on first use. A Clip is not safe for concurrent use.
type Clip struct {
	kind string

	startTime float64
	endTime   float64
	fps       float64
	width     int
	height    int
	x         int
	y         int

	pixelFormat  common.PixelFormat
	behavior     common.Behavior
	maskBehavior common.Behavior
	padColor     color.NRGBA

	source            FrameSource
	frames            []frames.Frame
	framesInitialized bool

	maskSource       []frames.Mask
	maskFromAlpha    bool
	masks            []frames.Mask
	masksInitialized bool

	audioSource      AudioSource
	audio            frames.Audio
	audioInitialized bool

	tools *ffmpeg.Toolkit
	log   zerolog.Logger
}

type kindDefaults struct {
	kind        string
	pixelFormat common.PixelFormat
	behavior    common.Behavior
}

func defaultFrameRate(tools *ffmpeg.Toolkit) float64 {
	if tools != nil && tools.Config().DefaultFrameRate > 0 {
		return tools.Config().DefaultFrameRate
	}
	return environment.DefaultFrameRate
}

func newClip(tools *ffmpeg.Toolkit, opts Options, d kindDefaults) (*Clip, error) {
	c := &Clip{
		kind:         d.kind,
		startTime:    opts.StartTime,
		endTime:      opts.EndTime,
		fps:          opts.FPS,
		width:        opts.Width,
		height:       opts.Height,
		x:            opts.X,
		y:            opts.Y,
		pixelFormat:  opts.PixelFormat,
		behavior:     opts.Behavior,
		maskBehavior: opts.MaskBehavior,
		padColor:     DefaultPadColor,
		maskSource:   opts.Masks,
		tools:        tools,
		log:          logging.WithComponent("clip").With().Str("kind", d.kind).Logger(),
	}

	if c.fps == 0 {
		c.fps = defaultFrameRate(tools)
	}
	if c.pixelFormat == (common.PixelFormat{}) {
		c.pixelFormat = d.pixelFormat
	}
	if c.behavior == (common.Behavior{}) {
		c.behavior = d.behavior
	}
	if c.maskBehavior == (common.Behavior{}) {
		c.maskBehavior = common.LoopFrames
	}
	if opts.PadColor != nil {
		c.padColor = *opts.PadColor
	}

	if c.fps <= 0 || math.IsNaN(c.fps) || math.IsInf(c.fps, 0) {
		return nil, common.Configurationf("%s: frames per second must be positive, got %v", d.kind, c.fps)
	}
	if !c.pixelFormat.Packed() {
		return nil, common.Configurationf("%s: pixel format %q cannot back a frame buffer", d.kind, c.pixelFormat.Value)
	}
	if c.startTime < 0 {
		return nil, common.Configurationf("%s: start time %v is negative", d.kind, c.startTime)
	}
	return c, nil
}

// validateTiming runs once the kind has filled in size and end time.
func (c *Clip) validateTiming() error {
	if c.width <= 0 || c.height <= 0 {
		return common.Configurationf("%s: size %dx%d must be positive", c.kind, c.width, c.height)
	}
	if c.endTime <= c.startTime {
		return common.Configurationf("%s: end time %v must be after start time %v", c.kind, c.endTime, c.startTime)
	}
	for i, m := range c.maskSource {
		if m.Width != c.width || m.Height != c.height || m.Components != c.pixelFormat.Components() {
			return common.Configurationf("%s: mask %d is %dx%dx%d, the clip is %dx%dx%d", c.kind, i,
				m.Width, m.Height, m.Components, c.width, c.height, c.pixelFormat.Components())
		}
	}
	return nil
}

func (c *Clip) Kind() string {
	return c.kind
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s(%s, %v fps, %.3fs-%.3fs, %s)", c.kind, c.Resolution(), c.fps, c.startTime, c.endTime, c.pixelFormat)
}

func (c *Clip) StartTime() float64 {
	return c.startTime
}

func (c *Clip) EndTime() float64 {
	return c.endTime
}

func (c *Clip) Duration() float64 {
	return c.endTime - c.startTime
}

func (c *Clip) FPS() float64 {
	return c.fps
}

func (c *Clip) Width() int {
	return c.width
}

func (c *Clip) Height() int {
	return c.height
}

func (c *Clip) Size() (int, int) {
	return c.width, c.height
}

// Resolution is the "WxH" frame size string used by the video tool.
func (c *Clip) Resolution() string {
	return fmt.Sprintf("%dx%d", c.width, c.height)
}

func (c *Clip) Position() (int, int) {
	return c.x, c.y
}

// SetPosition places the clip inside a composite.
func (c *Clip) SetPosition(x, y int) {
	c.x, c.y = x, y
}

func (c *Clip) PixelFormat() common.PixelFormat {
	return c.pixelFormat
}

func (c *Clip) Behavior() common.Behavior {
	return c.behavior
}

func (c *Clip) SetBehavior(b common.Behavior) {
	c.behavior = b
}

func (c *Clip) MaskBehavior() common.Behavior {
	return c.maskBehavior
}

func (c *Clip) SetMaskBehavior(b common.Behavior) {
	c.maskBehavior = b
	c.masksInitialized = false
	c.masks = nil
}

func (c *Clip) Toolkit() *ffmpeg.Toolkit {
	return c.tools
}

func timeToIndex(fps, t float64) int {
	return int(math.Floor(fps*t + 1e-9))
}

func (c *Clip) StartFrame() int {
	return timeToIndex(c.fps, c.startTime)
}

func (c *Clip) EndFrame() int {
	return timeToIndex(c.fps, c.endTime)
}

func (c *Clip) NumberOfFrames() int {
	if c.framesInitialized {
		return len(c.frames)
	}
	return c.EndFrame() - c.StartFrame()
}

func (c *Clip) padFrame() frames.Frame {
	px, err := frames.Color(c.pixelFormat, c.padColor)
	if err != nil {
		return frames.New(c.width, c.height, c.pixelFormat.Components())
	}
	return frames.Filled(c.width, c.height, px)
}

// Frames returns the clip's frames, loading them from the source on first call.
func (c *Clip) Frames(ctx context.Context) ([]frames.Frame, error) {
	if c.framesInitialized {
		return c.frames, nil
	}
	if c.source == nil {
		return nil, common.Configurationf("%s has no frame source", c.kind)
	}

	src, err := c.source.Frames(ctx)
	if err != nil {
		return nil, err
	}

	start, needed := c.StartFrame(), c.NumberOfFrames()
	out, err := frames.Expand(src, start, needed, c.behavior, c.padFrame)
	if err != nil {
		return nil, err
	}
	if len(src) < start+needed {
		c.log.Debug().Int("source", len(src)).Int("start", start).Int("needed", needed).Str("behavior", c.behavior.Value).Msg("expanded frames")
	}

	c.frames = out
	c.framesInitialized = true
	return c.frames, nil
}

// Frame returns one frame. Negative indexes count from the end; loop wraps out of range indexes.
func (c *Clip) Frame(ctx context.Context, index int, loop bool) (frames.Frame, error) {
	fs, err := c.Frames(ctx)
	if err != nil {
		return frames.Frame{}, err
	}
	n := len(fs)
	if n == 0 {
		return frames.Frame{}, common.Rangef("%s has no frames", c.kind)
	}
	if index < 0 && -index <= n {
		index += n
	}
	if loop {
		index = ((index % n) + n) % n
	}
	if index < 0 || index >= n {
		return frames.Frame{}, common.Rangef("frame index %d out of range [0, %d)", index, n)
	}
	return fs[index], nil
}

// FrameAt returns the frame shown at t seconds into the clip.
func (c *Clip) FrameAt(ctx context.Context, t float64, loop bool) (frames.Frame, error) {
	if t < 0 {
		return frames.Frame{}, common.Rangef("frame time %v is negative", t)
	}
	return c.Frame(ctx, timeToIndex(c.fps, t), loop)
}

// SetFrames replaces the frame buffer. Timing is reset so that the clip
// starts at zero and ends at len(fs)/fps. Audio still waiting on its source
// is loaded first, with the old window.
func (c *Clip) SetFrames(ctx context.Context, fs []frames.Frame) error {
	for i, f := range fs {
		if f.Components != c.pixelFormat.Components() {
			return common.Configurationf("frame %d has %d components, %s needs %d", i, f.Components, c.pixelFormat, c.pixelFormat.Components())
		}
		if len(f.Pix) != f.Width*f.Height*f.Components {
			return common.Configurationf("frame %d holds %d bytes, expected %d", i, len(f.Pix), f.Width*f.Height*f.Components)
		}
		if !f.SameShape(fs[0]) {
			return common.Configurationf("frame %d is %dx%d, frame 0 is %dx%d", i, f.Width, f.Height, fs[0].Width, fs[0].Height)
		}
	}

	if c.audioSource != nil && !c.audioInitialized {
		if _, err := c.AudioSamples(ctx); err != nil {
			return err
		}
	}

	if len(fs) > 0 && (fs[0].Width != c.width || fs[0].Height != c.height) {
		c.width, c.height = fs[0].Width, fs[0].Height
		if len(c.maskSource) > 0 {
			c.log.Debug().Msg("frame size changed, dropping supplied masks")
			c.maskSource = nil
		}
	}

	c.frames = fs
	c.framesInitialized = true
	c.startTime = 0
	c.endTime = float64(len(fs)) / c.fps
	c.masks = nil
	c.masksInitialized = false
	return nil
}

// SetMask supplies mask frames. They are expanded over the clip with the mask behavior.
func (c *Clip) SetMask(masks []frames.Mask) error {
	for i, m := range masks {
		if m.Width != c.width || m.Height != c.height || m.Components != c.pixelFormat.Components() {
			return common.Configurationf("mask %d is %dx%dx%d, the clip is %dx%dx%d", i,
				m.Width, m.Height, m.Components, c.width, c.height, c.pixelFormat.Components())
		}
	}
	c.maskSource = masks
	c.maskFromAlpha = false
	c.masks = nil
	c.masksInitialized = false
	return nil
}

// UseAlphaMask derives each frame's mask from its alpha component.
func (c *Clip) UseAlphaMask() error {
	if frames.AlphaIndex(c.pixelFormat) < 0 {
		return common.Configurationf("pixel format %s has no alpha component", c.pixelFormat)
	}
	c.maskSource = nil
	c.maskFromAlpha = true
	c.masks = nil
	c.masksInitialized = false
	return nil
}

// MaskFrames returns one mask per frame. Without supplied masks every pixel is visible.
func (c *Clip) MaskFrames(ctx context.Context) ([]frames.Mask, error) {
	if c.masksInitialized {
		return c.masks, nil
	}
	fs, err := c.Frames(ctx)
	if err != nil {
		return nil, err
	}

	components := c.pixelFormat.Components()
	visible := func() frames.Mask {
		return frames.NewMask(c.width, c.height, components, true)
	}

	var out []frames.Mask
	switch {
	case c.maskFromAlpha && frames.AlphaIndex(c.pixelFormat) >= 0:
		alpha := frames.AlphaIndex(c.pixelFormat)
		out = make([]frames.Mask, len(fs))
		for i, f := range fs {
			out[i] = frames.MaskFromAlpha(f, alpha)
		}
	default:
		src := c.maskSource
		if len(src) == 0 {
			src = []frames.Mask{visible()}
		}
		out, err = frames.Expand(src, 0, len(fs), c.maskBehavior, visible)
		if err != nil {
			return nil, err
		}
	}

	c.masks = out
	c.masksInitialized = true
	return c.masks, nil
}

// framesIn returns the frames converted to pf.
func (c *Clip) framesIn(ctx context.Context, pf common.PixelFormat) ([]frames.Frame, error) {
	fs, err := c.Frames(ctx)
	if err != nil || pf == c.pixelFormat {
		return fs, err
	}
	out := make([]frames.Frame, len(fs))
	for i, f := range fs {
		out[i], err = frames.Convert(f, c.pixelFormat, pf)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Clip) masksIn(ctx context.Context, pf common.PixelFormat) ([]frames.Mask, error) {
	ms, err := c.MaskFrames(ctx)
	if err != nil || pf == c.pixelFormat {
		return ms, err
	}
	out := make([]frames.Mask, len(ms))
	for i, m := range ms {
		out[i], err = frames.ConvertMask(m, c.pixelFormat, pf)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Op is one step of an edit.
type Op func(ctx context.Context) error

// Apply runs ops in order and stops at the first error.
func Apply(ctx context.Context, ops ...Op) error {
	for _, op := range ops {
		if err := op(ctx); err != nil {
			return err
		}
	}
	return nil
}
