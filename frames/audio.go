package frames

import (
	"encoding/binary"
	"slices"

	"github.com/bcc-code/bcc-media-clips/common"
)

// Audio holds interleaved signed 16 bit samples.
type Audio struct {
	Channels   int
	SampleRate int
	Samples    []int16
}

func AudioFromBytes(raw []byte, channels, sampleRate int) (Audio, error) {
	if channels <= 0 || sampleRate <= 0 {
		return Audio{}, common.Configurationf("invalid audio layout: %d channels at %d Hz", channels, sampleRate)
	}
	frameBytes := 2 * channels
	raw = raw[:len(raw)-len(raw)%frameBytes]

	a := Audio{
		Channels:   channels,
		SampleRate: sampleRate,
		Samples:    make([]int16, len(raw)/2),
	}
	for i := range a.Samples {
		a.Samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return a, nil
}

func (a Audio) Bytes() []byte {
	out := make([]byte, 2*len(a.Samples))
	for i, s := range a.Samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Frames is the number of samples per channel.
func (a Audio) Frames() int {
	if a.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Channels
}

func (a Audio) Seconds() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.SampleRate)
}

func (a Audio) Clone() Audio {
	c := a
	c.Samples = slices.Clone(a.Samples)
	return c
}

// Slice returns the sample frames [start, end), clamped to what exists.
func (a Audio) Slice(start, end int) Audio {
	start = min(max(start, 0), a.Frames())
	end = min(max(end, start), a.Frames())
	c := a
	c.Samples = slices.Clone(a.Samples[start*a.Channels : end*a.Channels])
	return c
}

func (a Audio) SameLayout(o Audio) bool {
	return a.Channels == o.Channels && a.SampleRate == o.SampleRate
}

// Clamp16 saturates v into the int16 range.
func Clamp16(v float64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}
