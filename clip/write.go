package clip

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/google/uuid"
)

type WriteVideoOptions struct {
	// Codec defaults to the codec registered for the file extension.
	Codec      string
	AudioCodec string
	// PixelFormat of the encoded file. Defaults to yuv420p.
	PixelFormat string
	Preset      string
	NoAudio     bool
	Progress    ffmpeg.ProgressCallback
}

func (c *Clip) requireToolkit() error {
	if c.tools == nil {
		return common.Configurationf("%s has no toolkit to write with", c.kind)
	}
	return nil
}

func (c *Clip) videoInput(fs []frames.Frame) common.VideoInput {
	return common.VideoInput{
		Width:       c.width,
		Height:      c.height,
		FrameRate:   c.fps,
		PixelFormat: c.pixelFormat,
		Frames:      frames.Join(fs),
	}
}

func audioInput(a frames.Audio) common.AudioInput {
	return common.AudioInput{
		Channels:   a.Channels,
		SampleRate: a.SampleRate,
		Samples:    a.Bytes(),
	}
}

// WriteVideo encodes the clip into path. The container follows the extension.
// Audio is written to a temporary file first and muxed in.
func (c *Clip) WriteVideo(ctx context.Context, path string, opts WriteVideoOptions) error {
	if _, err := common.VideoCodecFor(path, opts.Codec); err != nil {
		return err
	}
	if err := c.requireToolkit(); err != nil {
		return err
	}

	fs, err := c.Frames(ctx)
	if err != nil {
		return err
	}

	input := common.VideoEncodeInput{
		Video:           c.videoInput(fs),
		Codec:           opts.Codec,
		AudioCodec:      opts.AudioCodec,
		OutputPixFmt:    opts.PixelFormat,
		Preset:          opts.Preset,
		DestinationPath: path,
	}

	if c.HasAudio() && !opts.NoAudio {
		a, err := c.AudioSamples(ctx)
		if err != nil {
			return err
		}
		audioPath := filepath.Join(c.tools.Config().GetTempDir(), uuid.NewString()+".wav")
		if _, err := c.tools.EncodeAudio(ctx, common.AudioEncodeInput{
			Audio:           audioInput(a),
			DestinationPath: audioPath,
		}); err != nil {
			return err
		}
		defer os.Remove(audioPath)
		input.AudioPath = audioPath
	}

	c.log.Info().Str("path", path).Int("frames", len(fs)).Msg("writing video")
	_, err = c.tools.EncodeVideo(ctx, input, opts.Progress)
	return err
}

// WriteAudio encodes the clip audio into path. An empty codec picks the default for the extension.
func (c *Clip) WriteAudio(ctx context.Context, path, codec string) error {
	if _, err := common.AudioCodecFor(path, codec); err != nil {
		return err
	}
	if err := c.requireToolkit(); err != nil {
		return err
	}
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	_, err = c.tools.EncodeAudio(ctx, common.AudioEncodeInput{
		Audio:           audioInput(a),
		Codec:           codec,
		DestinationPath: path,
	})
	return err
}

// WriteImage saves one frame. Negative indexes count from the end.
func (c *Clip) WriteImage(ctx context.Context, path string, index int) error {
	if !utils.IsImageFile(path) {
		return common.Configurationf("unsupported image file extension %q", common.Extension(path))
	}
	if err := c.requireToolkit(); err != nil {
		return err
	}
	f, err := c.Frame(ctx, index, false)
	if err != nil {
		return err
	}
	_, err = c.tools.EncodeImage(ctx, common.ImageEncodeInput{
		Video:           c.videoInput([]frames.Frame{f}),
		DestinationPath: path,
	})
	return err
}

// WriteImageAt saves the frame shown at t seconds.
func (c *Clip) WriteImageAt(ctx context.Context, path string, t float64) error {
	if t < 0 {
		return common.Rangef("frame time %v is negative", t)
	}
	return c.WriteImage(ctx, path, timeToIndex(c.fps, t))
}

// PlayAudio blocks until the audio has been played.
func (c *Clip) PlayAudio(ctx context.Context) error {
	if err := c.requireToolkit(); err != nil {
		return err
	}
	a, err := c.requireAudio(ctx)
	if err != nil {
		return err
	}
	return c.tools.PlayAudio(ctx, audioInput(a))
}
