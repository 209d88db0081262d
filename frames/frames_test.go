package frames

import (
	"image/color"
	"testing"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilled(t *testing.T) {
	f := Filled(2, 3, []uint8{1, 2, 3})
	assert.Equal(t, 3, f.Components)
	assert.Len(t, f.Pix, 18)
	assert.Equal(t, []uint8{1, 2, 3}, f.At(1, 2))
}

func TestPasteClipsToCanvas(t *testing.T) {
	canvas := Filled(3, 3, []uint8{0})
	src := Filled(2, 2, []uint8{9})

	canvas.Paste(src, 2, -1)

	assert.Equal(t, []uint8{
		0, 0, 9,
		0, 0, 0,
		0, 0, 0,
	}, canvas.Pix)

	canvas.Paste(src, 5, 5)
	assert.Equal(t, uint8(0), canvas.At(2, 2)[0])
}

func TestSubFrame(t *testing.T) {
	f := Frame{Width: 3, Height: 2, Components: 1, Pix: []uint8{1, 2, 3, 4, 5, 6}}
	sub := f.SubFrame(1, 0, 3, 2)
	assert.Equal(t, []uint8{2, 3, 5, 6}, sub.Pix)
	assert.Equal(t, 2, sub.Width)
}

func TestSplitAndJoin(t *testing.T) {
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	fs, err := Split(raw, 2, 1, 2)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, []uint8{5, 6, 7, 8}, fs[1].Pix)
	assert.Equal(t, raw, Join(fs))

	_, err = Split(raw[:7], 2, 1, 2)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestSelect(t *testing.T) {
	under := Filled(2, 1, []uint8{1})
	over := Filled(2, 1, []uint8{7})
	mask := Mask{Width: 2, Height: 1, Components: 1, Visible: []bool{false, true}}

	out := Select(mask, over, under)
	assert.Equal(t, []uint8{1, 7}, out.Pix)
	assert.Equal(t, []uint8{1, 1}, under.Pix)
}

func TestOverlayMatchesBroadcastSelect(t *testing.T) {
	acc := Filled(3, 2, []uint8{1})
	src := Frame{Width: 2, Height: 2, Components: 1, Pix: []uint8{5, 6, 7, 8}}
	mask := Mask{Width: 2, Height: 2, Components: 1, Visible: []bool{true, false, true, true}}

	frame := Filled(3, 2, []uint8{0})
	frame.Paste(src, 2, 0)
	broadcast := NewMask(3, 2, 1, false)
	broadcast.Paste(mask, 2, 0)
	expected := Select(broadcast, frame, acc)

	acc.Overlay(src, mask, 2, 0)
	assert.Equal(t, expected.Pix, acc.Pix)
	assert.Equal(t, []uint8{
		1, 1, 5,
		1, 1, 7,
	}, acc.Pix)
}

func TestMaskFromAlpha(t *testing.T) {
	f := Frame{Width: 2, Height: 1, Components: 4, Pix: []uint8{1, 1, 1, 0, 2, 2, 2, 128}}
	m := MaskFromAlpha(f, 3)
	assert.Equal(t, []bool{false, false, false, false, true, true, true, true}, m.Visible)
}

func TestConvert(t *testing.T) {
	f := Filled(1, 1, []uint8{10, 20, 30})

	rgba, err := Convert(f, common.RGB24, common.RGBA)
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 20, 30, 255}, rgba.Pix)

	bgr, err := Convert(f, common.RGB24, common.BGR24)
	require.NoError(t, err)
	assert.Equal(t, []uint8{30, 20, 10}, bgr.Pix)

	back, err := Convert(rgba, common.RGBA, common.RGB24)
	require.NoError(t, err)
	assert.True(t, back.Equal(f))

	gray, err := Convert(Filled(1, 1, []uint8{255, 255, 255}), common.RGB24, common.Gray)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255}, gray.Pix)

	_, err = Convert(f, common.RGB24, common.YUV420P)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestConvertMask(t *testing.T) {
	m := Mask{Width: 2, Height: 1, Components: 3, Visible: []bool{false, true, false, false, false, false}}
	out, err := ConvertMask(m, common.RGB24, common.RGBA)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false}, out.Visible)
}

func TestColor(t *testing.T) {
	c, err := Color(common.ARGB, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	require.NoError(t, err)
	assert.Equal(t, []uint8{4, 1, 2, 3}, c)
	assert.Equal(t, 0, AlphaIndex(common.ARGB))
	assert.Equal(t, -1, AlphaIndex(common.RGB24))
}

func TestImageRoundTrip(t *testing.T) {
	f := Frame{Width: 2, Height: 1, Components: 3, Pix: []uint8{1, 2, 3, 4, 5, 6}}
	img, err := ToImage(f, common.RGB24)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 4, G: 5, B: 6, A: 255}, img.NRGBAAt(1, 0))

	back, err := FromImage(img, common.RGB24)
	require.NoError(t, err)
	assert.True(t, back.Equal(f))
}

func TestAudio(t *testing.T) {
	a, err := AudioFromBytes([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f, 0x09}, 2, 48000)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, -1, -32768, 32767}, a.Samples)
	assert.Equal(t, 2, a.Frames())
	assert.Equal(t, []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f}, a.Bytes())

	s := a.Slice(1, 10)
	assert.Equal(t, []int16{-32768, 32767}, s.Samples)

	_, err = AudioFromBytes(nil, 0, 48000)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	assert.Equal(t, int16(32767), Clamp16(40000))
	assert.Equal(t, int16(-32768), Clamp16(-40000))
}
