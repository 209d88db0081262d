package clip

import (
	"context"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/samber/lo"
)

// HasAudio reports whether the clip carries, or can load, audio.
func (c *Clip) HasAudio() bool {
	return c.audioInitialized || c.audioSource != nil
}

// AudioSamples returns the audio of the clip window, loading it on first call.
// Missing samples are handled with the clip behavior, padding with silence.
func (c *Clip) AudioSamples(ctx context.Context) (frames.Audio, error) {
	if c.audioInitialized {
		return c.audio, nil
	}
	if c.audioSource == nil {
		return frames.Audio{}, common.Configurationf("%s has no audio", c.kind)
	}

	src, err := c.audioSource.Audio(ctx)
	if err != nil {
		return frames.Audio{}, err
	}

	rate := float64(src.SampleRate)
	start := timeToIndex(rate, c.startTime)
	needed := timeToIndex(rate, c.endTime) - start
	behavior := c.behavior
	// Container audio often stops a few samples before the last video frame.
	if short := start + needed - src.Frames(); behavior == common.EnforceLimit && short > 0 && float64(short) <= rate/c.fps {
		c.log.Debug().Int("samples", short).Msg("padding audio shortfall shorter than a frame")
		behavior = common.Pad
	}
	a, err := expandAudio(src, start, needed, behavior)
	if err != nil {
		return frames.Audio{}, err
	}

	c.audio = a
	c.audioInitialized = true
	return c.audio, nil
}

// expandAudio applies behavior to audio sample frames. Padding is silence.
func expandAudio(src frames.Audio, start, needed int, behavior common.Behavior) (frames.Audio, error) {
	indexes, err := frames.Expand(lo.Range(src.Frames()), start, needed, behavior, func() int { return -1 })
	if err != nil {
		return frames.Audio{}, err
	}

	ch := src.Channels
	out := frames.Audio{
		Channels:   ch,
		SampleRate: src.SampleRate,
		Samples:    make([]int16, len(indexes)*ch),
	}
	for i, idx := range indexes {
		if idx < 0 {
			continue
		}
		copy(out.Samples[i*ch:(i+1)*ch], src.Samples[idx*ch:(idx+1)*ch])
	}
	return out, nil
}

// SetAudio replaces the audio buffer. Timing is left alone.
func (c *Clip) SetAudio(a frames.Audio) error {
	if a.Channels <= 0 || a.SampleRate <= 0 {
		return common.Configurationf("invalid audio layout: %d channels at %d Hz", a.Channels, a.SampleRate)
	}
	if len(a.Samples)%a.Channels != 0 {
		return common.Configurationf("%d samples do not split into %d channels", len(a.Samples), a.Channels)
	}
	c.audio = a
	c.audioInitialized = true
	return nil
}

// DropAudio removes the audio of the clip.
func (c *Clip) DropAudio() {
	c.audio = frames.Audio{}
	c.audioInitialized = false
	c.audioSource = nil
}

// audioSampleIndex converts a clip time into a sample frame index.
func audioSampleIndex(a frames.Audio, t float64) int {
	return timeToIndex(float64(a.SampleRate), t)
}
