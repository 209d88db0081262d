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

func colorClip(t *testing.T, w, h int, fps, duration float64, fill *color.NRGBA) *Clip {
	t.Helper()
	c, err := NewColor(nil, ColorOptions{
		Options:  Options{Width: w, Height: h, FPS: fps},
		Color:    fill,
		Duration: duration,
	})
	require.NoError(t, err)
	return c.Clip
}

func TestCompositeOpaqueChildCoversBackground(t *testing.T) {
	background := colorClip(t, 2, 2, 1, 1, &green)
	foreground := colorClip(t, 2, 2, 1, 1, &red)

	comp, err := NewComposite(context.Background(), nil, []*Clip{background, foreground}, CompositeOptions{})
	require.NoError(t, err)

	fs, err := comp.Frames(context.Background())
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.True(t, fs[0].Equal(rgb(2, 2, 255, 0, 0)))
	assert.Equal(t, common.RGB24, comp.PixelFormat())
	assert.Equal(t, 1.0, comp.EndTime())
}

func TestCompositeShorterChildStopsContributing(t *testing.T) {
	ctx := context.Background()
	short := stillClip(t, Options{FPS: 1}, rgb(1, 1, 255, 0, 0), rgb(1, 1, 255, 0, 0), rgb(1, 1, 255, 0, 0))
	long := stillClip(t, Options{FPS: 1}, rgb(2, 1, 0, 0, 255), rgb(2, 1, 0, 0, 255), rgb(2, 1, 0, 0, 255), rgb(2, 1, 0, 0, 255), rgb(2, 1, 0, 0, 255))
	require.NoError(t, long.SetMask([]frames.Mask{{
		Width: 2, Height: 1, Components: 3,
		Visible: []bool{false, false, false, true, true, true},
	}}))

	comp, err := NewComposite(ctx, nil, []*Clip{short, long}, CompositeOptions{})
	require.NoError(t, err)

	fs, err := comp.Frames(ctx)
	require.NoError(t, err)
	require.Len(t, fs, 5)
	for i := 0; i < 3; i++ {
		assert.Equal(t, []uint8{255, 0, 0, 0, 0, 255}, fs[i].Pix, "frame %d", i)
	}
	for i := 3; i < 5; i++ {
		assert.Equal(t, []uint8{0, 0, 0, 0, 0, 255}, fs[i].Pix, "frame %d", i)
	}
}

func TestCompositeLaterChildWins(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 2, 2, 1, 1, &red)
	b := colorClip(t, 2, 2, 1, 1, &blue)

	ab, err := NewComposite(ctx, nil, []*Clip{a, b}, CompositeOptions{})
	require.NoError(t, err)
	ba, err := NewComposite(ctx, nil, []*Clip{b, a}, CompositeOptions{})
	require.NoError(t, err)

	abFrames, err := ab.Frames(ctx)
	require.NoError(t, err)
	baFrames, err := ba.Frames(ctx)
	require.NoError(t, err)

	assert.Equal(t, []uint8{0, 0, 255}, abFrames[0].At(1, 1))
	assert.Equal(t, []uint8{255, 0, 0}, baFrames[0].At(1, 1))
}

func TestCompositePositionsAndBackground(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 1, 1, 1, 1, &red)
	b := colorClip(t, 2, 2, 1, 1, &blue)
	b.SetPosition(2, 1)

	comp, err := NewComposite(ctx, nil, []*Clip{a, b}, CompositeOptions{
		Options:    Options{Width: 3, Height: 2},
		Background: &green,
	})
	require.NoError(t, err)

	fs, err := comp.Frames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		255, 0, 0, 0, 255, 0, 0, 255, 0,
		0, 255, 0, 0, 255, 0, 0, 0, 255,
	}, fs[0].Pix)
}

func TestCompositeUpgradesToRGBA(t *testing.T) {
	ctx := context.Background()
	opaque := colorClip(t, 1, 1, 1, 1, &red)
	withAlpha := stillClip(t, Options{FPS: 1, PixelFormat: common.RGBA}, frames.Filled(1, 1, []uint8{0, 0, 255, 0}))
	require.NoError(t, withAlpha.UseAlphaMask())

	comp, err := NewComposite(ctx, nil, []*Clip{opaque, withAlpha}, CompositeOptions{})
	require.NoError(t, err)
	assert.Equal(t, common.RGBA, comp.PixelFormat())

	fs, err := comp.Frames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0, 0, 255}, fs[0].Pix)
}

func TestCompositeRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 1, 1, 1, 1, &red)

	_, err := NewComposite(ctx, nil, []*Clip{a}, CompositeOptions{})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewComposite(ctx, nil, []*Clip{a, nil}, CompositeOptions{})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestCompositeDoesNotSeeLaterChanges(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 1, 1, 1, 1, &red)
	b := colorClip(t, 1, 1, 1, 1, &blue)

	comp, err := NewComposite(ctx, nil, []*Clip{a, b}, CompositeOptions{})
	require.NoError(t, err)
	require.NoError(t, b.InvertColors(ctx))

	fs, err := comp.Frames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 255}, fs[0].Pix)
}

func TestGrid(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 2, 1, 1, 2, &red)
	b := colorClip(t, 1, 1, 1, 4, &blue)
	c := colorClip(t, 1, 2, 1, 1, &green)

	grid, err := NewGrid(ctx, nil, [][]*Clip{{a, b}, {c}}, GridOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, grid.CellWidth)
	assert.Equal(t, 2, grid.CellHeight)
	assert.Equal(t, 4, grid.Width())
	assert.Equal(t, 4, grid.Height())

	fs, err := grid.Frames(ctx)
	require.NoError(t, err)
	require.Len(t, fs, 4)

	assert.Equal(t, []uint8{255, 0, 0}, fs[0].At(1, 0))
	assert.Equal(t, []uint8{0, 0, 255}, fs[0].At(2, 0))
	assert.Equal(t, []uint8{0, 0, 0}, fs[0].At(3, 0))
	assert.Equal(t, []uint8{0, 255, 0}, fs[0].At(0, 3))

	assert.Equal(t, []uint8{0, 0, 0}, fs[3].At(0, 0))
	assert.Equal(t, []uint8{0, 0, 255}, fs[3].At(2, 0))
	assert.Equal(t, []uint8{0, 0, 0}, fs[3].At(0, 3))
}

func TestGridRejectsEmptyRows(t *testing.T) {
	_, err := NewGrid(context.Background(), nil, nil, GridOptions{})
	assert.ErrorIs(t, err, common.ErrConfiguration)

	a := colorClip(t, 1, 1, 1, 1, &red)
	_, err = NewGrid(context.Background(), nil, [][]*Clip{{a}, {}}, GridOptions{})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestConcatenate(t *testing.T) {
	ctx := context.Background()
	a := colorClip(t, 1, 1, 2, 1, &red)
	b := colorClip(t, 2, 1, 2, 0.5, &blue)
	require.NoError(t, a.AudioInitialize(ctx, 1, 4))
	require.NoError(t, b.AudioInitialize(ctx, 1, 4))

	seq, err := NewConcatenate(ctx, nil, []*Clip{a, b}, ConcatenateOptions{})
	require.NoError(t, err)

	fs, err := seq.Frames(ctx)
	require.NoError(t, err)
	require.Len(t, fs, 3)
	assert.Equal(t, []uint8{255, 0, 0, 0, 0, 0}, fs[0].Pix)
	assert.Equal(t, []uint8{0, 0, 255, 0, 0, 255}, fs[2].Pix)
	assert.Equal(t, 1.5, seq.Duration())

	audio, err := seq.AudioSamples(ctx)
	require.NoError(t, err)
	assert.Len(t, audio.Samples, 6)
}
