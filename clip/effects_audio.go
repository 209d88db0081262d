package clip

import (
	"context"
	"math"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
)

const (
	DefaultAudioChannels   = 2
	DefaultAudioSampleRate = 44100
)

func (c *Clip) requireAudio(ctx context.Context) (frames.Audio, error) {
	if !c.HasAudio() {
		return frames.Audio{}, common.Configurationf("%s does not have audio", c.kind)
	}
	return c.AudioSamples(ctx)
}

// mapSamples applies fn to every sample. index is the sample frame, channel the channel in it.
func (c *Clip) mapSamples(ctx context.Context, fn func(index, channel int, v float64) float64) error {
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	out := a.Clone()
	for i, s := range a.Samples {
		out.Samples[i] = frames.Clamp16(math.Round(fn(i/a.Channels, i%a.Channels, float64(s))))
	}
	return c.SetAudio(out)
}

// AudioInitialize gives the clip silent audio for its whole duration, replacing any it had.
func (c *Clip) AudioInitialize(ctx context.Context, channels, sampleRate int) error {
	if channels == 0 {
		channels = DefaultAudioChannels
	}
	if sampleRate == 0 {
		sampleRate = DefaultAudioSampleRate
	}
	if channels < 0 || sampleRate < 0 {
		return common.Configurationf("invalid audio layout: %d channels at %d Hz", channels, sampleRate)
	}
	n := timeToIndex(float64(sampleRate), c.Duration())
	c.audioSource = nil
	return c.SetAudio(frames.Audio{
		Channels:   channels,
		SampleRate: sampleRate,
		Samples:    make([]int16, n*channels),
	})
}

func (c *Clip) AudioVolume(ctx context.Context, multiplier float64) error {
	if multiplier < 0 {
		return common.Configurationf("volume multiplier %v is negative", multiplier)
	}
	return c.mapSamples(ctx, func(_, _ int, v float64) float64 {
		return v * multiplier
	})
}

// AudioStereoVolume scales the left and right channel of stereo audio independently.
func (c *Clip) AudioStereoVolume(ctx context.Context, left, right float64) error {
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	if a.Channels != 2 {
		return common.Configurationf("audio has %d channels, stereo volume needs 2", a.Channels)
	}
	return c.mapSamples(ctx, func(_, channel int, v float64) float64 {
		if channel == 0 {
			return v * left
		}
		return v * right
	})
}

// AddSoundOptions takes the sound from exactly one of Samples or Path.
type AddSoundOptions struct {
	Samples *frames.Audio
	Path    string
}

// AddSound writes a sound over the audio starting at time seconds. The sound is cut at the clip end.
func (c *Clip) AddSound(ctx context.Context, at float64, opts AddSoundOptions) error {
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	if (opts.Samples == nil) == (opts.Path == "") {
		return common.Configurationf("add sound needs either samples or a file path")
	}

	var sound frames.Audio
	if opts.Samples != nil {
		sound = *opts.Samples
		if !sound.SameLayout(a) {
			return common.Configurationf("sound is %d channels at %d Hz, the clip is %d channels at %d Hz",
				sound.Channels, sound.SampleRate, a.Channels, a.SampleRate)
		}
	} else {
		if c.tools == nil {
			return common.Configurationf("a toolkit is required to read %s", opts.Path)
		}
		src := fileAudioSource{tools: c.tools, path: opts.Path, channels: a.Channels, sampleRate: a.SampleRate}
		if sound, err = src.Audio(ctx); err != nil {
			return err
		}
	}

	start := audioSampleIndex(a, at)
	if at < 0 || start > a.Frames() {
		return common.Rangef("sound time %v is outside the audio", at)
	}
	out := a.Clone()
	copy(out.Samples[start*a.Channels:], sound.Samples)
	return c.SetAudio(out)
}

func (c *Clip) audioFade(ctx context.Context, duration float64, fadeIn bool) error {
	if duration <= 0 {
		return common.Configurationf("fade duration must be positive, got %v", duration)
	}
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	n := min(audioSampleIndex(a, duration), a.Frames())
	total := a.Frames()
	return c.mapSamples(ctx, func(index, _ int, v float64) float64 {
		k := index
		if !fadeIn {
			k = total - 1 - index
		}
		if k >= n {
			return v
		}
		return v * float64(k) / float64(n)
	})
}

func (c *Clip) AudioFadeIn(ctx context.Context, duration float64) error {
	return c.audioFade(ctx, duration, true)
}

func (c *Clip) AudioFadeOut(ctx context.Context, duration float64) error {
	return c.audioFade(ctx, duration, false)
}

// AudioPeakNormalize scales the audio so its loudest sample reaches full scale.
func (c *Clip) AudioPeakNormalize(ctx context.Context) error {
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	peak := 0.0
	for _, s := range a.Samples {
		peak = max(peak, math.Abs(float64(s)))
	}
	if peak == 0 {
		c.log.Warn().Msg("audio is silent, nothing to normalize")
		return nil
	}
	gain := math.MaxInt16 / peak
	return c.mapSamples(ctx, func(_, _ int, v float64) float64 {
		return v * gain
	})
}
