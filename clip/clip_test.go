package clip

import (
	"context"
	"image/color"
	"testing"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func rgb(w, h int, r, g, b uint8) frames.Frame {
	return frames.Filled(w, h, []uint8{r, g, b})
}

// numbered returns n 1x1 frames whose red component is the frame number.
func numbered(n int) []frames.Frame {
	out := make([]frames.Frame, n)
	for i := range out {
		out[i] = rgb(1, 1, uint8(i), 0, 0)
	}
	return out
}

func stillClip(t *testing.T, opts Options, fs ...frames.Frame) *Clip {
	t.Helper()
	c, err := NewImage(nil, ImageOptions{Options: opts, Frames: fs})
	require.NoError(t, err)
	return c.Clip
}

func reds(fs []frames.Frame) []uint8 {
	out := make([]uint8, len(fs))
	for i, f := range fs {
		out[i] = f.Pix[0]
	}
	return out
}

func TestClipTiming(t *testing.T) {
	c := stillClip(t, Options{FPS: 10, StartTime: 0.2, EndTime: 0.5, Behavior: common.EnforceLimit}, numbered(10)...)

	assert.Equal(t, 2, c.StartFrame())
	assert.Equal(t, 5, c.EndFrame())
	assert.Equal(t, 3, c.NumberOfFrames())
	assert.InDelta(t, 0.3, c.Duration(), 1e-9)
	assert.Equal(t, "1x1", c.Resolution())

	fs, err := c.Frames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint8{2, 3, 4}, reds(fs))
}

func TestFramesIsIdempotent(t *testing.T) {
	c := stillClip(t, Options{FPS: 1, EndTime: 5, Behavior: common.LoopFrames}, numbered(2)...)

	first, err := c.Frames(context.Background())
	require.NoError(t, err)
	second, err := c.Frames(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestBehaviors(t *testing.T) {
	ctx := context.Background()

	t.Run("loop repeats the source", func(t *testing.T) {
		c := stillClip(t, Options{FPS: 1, EndTime: 9, Behavior: common.LoopFrames}, numbered(3)...)
		fs, err := c.Frames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint8{0, 1, 2, 0, 1, 2, 0, 1, 2}, reds(fs))
	})

	t.Run("pad appends pad colour frames", func(t *testing.T) {
		c := stillClip(t, Options{FPS: 1, EndTime: 5, Behavior: common.Pad}, numbered(3)...)
		fs, err := c.Frames(ctx)
		require.NoError(t, err)
		require.Len(t, fs, 5)
		assert.Equal(t, []uint8{0, 1, 2}, reds(fs[:3]))
		for _, f := range fs[3:] {
			assert.Equal(t, []uint8{77, 128, 90}, f.Pix)
		}
	})

	t.Run("enforce fails without a partial buffer", func(t *testing.T) {
		c := stillClip(t, Options{FPS: 1, EndTime: 5, Behavior: common.EnforceLimit}, numbered(3)...)
		_, err := c.Frames(ctx)
		assert.ErrorIs(t, err, common.ErrRange)

		c.SetBehavior(common.LoopFrames)
		fs, err := c.Frames(ctx)
		require.NoError(t, err)
		assert.Len(t, fs, 5)
	})
}

func TestSetFramesResetsTiming(t *testing.T) {
	c := stillClip(t, Options{FPS: 4, StartTime: 1, EndTime: 2, Behavior: common.LoopFrames}, numbered(2)...)

	require.NoError(t, c.SetFrames(context.Background(), numbered(7)))

	assert.Equal(t, 7, c.NumberOfFrames())
	assert.Equal(t, 0.0, c.StartTime())
	assert.Equal(t, 7.0/4.0, c.EndTime())
	assert.Equal(t, c.EndTime(), c.Duration())
	assert.Equal(t, float64(c.NumberOfFrames())/c.FPS(), c.EndTime())
}

func TestSetFramesRejectsMixedShapes(t *testing.T) {
	c := stillClip(t, Options{FPS: 1}, rgb(2, 2, 0, 0, 0))

	err := c.SetFrames(context.Background(), []frames.Frame{rgb(2, 2, 0, 0, 0), rgb(3, 2, 0, 0, 0)})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	err = c.SetFrames(context.Background(), []frames.Frame{frames.New(2, 2, 4)})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestMaskFrames(t *testing.T) {
	ctx := context.Background()
	c := stillClip(t, Options{FPS: 1, EndTime: 3, Behavior: common.LoopFrames}, rgb(2, 1, 1, 1, 1))

	masks, err := c.MaskFrames(ctx)
	require.NoError(t, err)
	require.Len(t, masks, 3)
	assert.True(t, masks[2].Equal(frames.NewMask(2, 1, 3, true)))

	a := frames.NewMask(2, 1, 3, false)
	b := frames.NewMask(2, 1, 3, true)
	require.NoError(t, c.SetMask([]frames.Mask{a, b}))
	masks, err = c.MaskFrames(ctx)
	require.NoError(t, err)
	require.Len(t, masks, 3)
	assert.True(t, masks[0].Equal(a))
	assert.True(t, masks[1].Equal(b))
	assert.True(t, masks[2].Equal(a))

	c.SetMaskBehavior(common.Pad)
	masks, err = c.MaskFrames(ctx)
	require.NoError(t, err)
	assert.True(t, masks[2].Equal(b))

	assert.ErrorIs(t, c.SetMask([]frames.Mask{frames.NewMask(1, 1, 3, true)}), common.ErrConfiguration)
}

func TestFrameIndexing(t *testing.T) {
	ctx := context.Background()
	c := stillClip(t, Options{FPS: 2, Behavior: common.EnforceLimit}, numbered(4)...)

	f, err := c.Frame(ctx, -1, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(3), f.Pix[0])

	f, err = c.Frame(ctx, 6, true)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), f.Pix[0])

	_, err = c.Frame(ctx, 4, false)
	assert.ErrorIs(t, err, common.ErrRange)

	f, err = c.FrameAt(ctx, 1.0, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), f.Pix[0])

	_, err = c.FrameAt(ctx, -1, false)
	assert.ErrorIs(t, err, common.ErrRange)
}

func TestNewClipValidation(t *testing.T) {
	_, err := NewColor(nil, ColorOptions{Options: Options{Width: 2, Height: 2, FPS: -1}, Duration: 1})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewColor(nil, ColorOptions{Options: Options{Width: 2, Height: 2, PixelFormat: common.YUV420P}, Duration: 1})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewColor(nil, ColorOptions{Options: Options{Width: 0, Height: 2}, Duration: 1})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewColor(nil, ColorOptions{Options: Options{Width: 2, Height: 2}})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestColorClip(t *testing.T) {
	c, err := NewColor(nil, ColorOptions{Options: Options{Width: 3, Height: 2, FPS: 10}, Duration: 0.5})
	require.NoError(t, err)

	fs, err := c.Frames(context.Background())
	require.NoError(t, err)
	require.Len(t, fs, 5)
	assert.Equal(t, []uint8{57, 255, 20}, fs[4].At(2, 1))
	assert.False(t, c.HasAudio())
}

func TestColorClipRejectsExplicitTiming(t *testing.T) {
	_, err := NewColor(nil, ColorOptions{Options: Options{FPS: 10, StartTime: 1}, Duration: 2})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewColor(nil, ColorOptions{Options: Options{FPS: 10, EndTime: 3}, Duration: 2})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	c, err := NewColor(nil, ColorOptions{Options: Options{FPS: 10}, Duration: 2})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.StartTime())
	assert.Equal(t, 2.0, c.EndTime())
}

func TestApplyStopsAtFirstError(t *testing.T) {
	calls := 0
	ok := func(context.Context) error {
		calls++
		return nil
	}
	fail := func(context.Context) error {
		return common.Rangef("boom")
	}

	err := Apply(context.Background(), ok, fail, ok)
	assert.ErrorIs(t, err, common.ErrRange)
	assert.Equal(t, 1, calls)
}
