package ffmpeg

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/utils"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	DefaultOutputPixelFormat = "yuv420p"
	DefaultPreset            = "medium"
)

func rawVideoInput(v common.VideoInput, withRate bool) *ffmpeg.Stream {
	kw := ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": v.PixelFormat.Value,
		"s":       fmt.Sprintf("%dx%d", v.Width, v.Height),
	}
	if withRate {
		kw["r"] = strconv.FormatFloat(v.FrameRate, 'f', -1, 64)
	}
	return ffmpeg.Input("pipe:", kw)
}

func validateVideoInput(v common.VideoInput) (int, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, common.Configurationf("invalid frame size %dx%d", v.Width, v.Height)
	}
	frameSize := v.Width * v.Height * v.PixelFormat.Components()
	if frameSize == 0 || len(v.Frames) == 0 || len(v.Frames)%frameSize != 0 {
		return 0, common.Configurationf("raw video of %d bytes does not hold whole %dx%d %s frames", len(v.Frames), v.Width, v.Height, v.PixelFormat)
	}
	return len(v.Frames) / frameSize, nil
}

// EncodeVideo pipes raw frames into the video tool, optionally muxing an
// already encoded audio file, and writes the container at DestinationPath.
func (t *Toolkit) EncodeVideo(ctx context.Context, input common.VideoEncodeInput, progressCallback ProgressCallback) (*common.EncodeResult, error) {
	codec, err := common.VideoCodecFor(input.DestinationPath, input.Codec)
	if err != nil {
		return nil, err
	}
	totalFrames, err := validateVideoInput(input.Video)
	if err != nil {
		return nil, err
	}
	if input.Video.FrameRate <= 0 {
		return nil, common.Configurationf("invalid frame rate %v", input.Video.FrameRate)
	}

	pixFmt := input.OutputPixFmt
	if pixFmt == "" {
		pixFmt = DefaultOutputPixelFormat
	}

	outArgs := ffmpeg.KwArgs{
		"c:v":     codec,
		"pix_fmt": pixFmt,
	}
	if codec == common.CodecH264 {
		preset := input.Preset
		if preset == "" {
			preset = DefaultPreset
		}
		outArgs["preset"] = preset
	}

	video := rawVideoInput(input.Video, true)

	var out *ffmpeg.Stream
	if input.AudioPath != "" {
		audioCodec := input.AudioCodec
		if audioCodec == "" {
			audioCodec, err = common.VideoAudioCodecFor(input.DestinationPath)
			if err != nil {
				return nil, err
			}
		}
		outArgs["c:a"] = audioCodec
		out = ffmpeg.Output([]*ffmpeg.Stream{video, ffmpeg.Input(input.AudioPath)}, input.DestinationPath, outArgs)
	} else {
		out = video.Output(input.DestinationPath, outArgs)
	}

	args := globalArgs(append([]string{"-nostats", "-progress", "pipe:1"}, out.OverWriteOutput().GetArgs()...)...)
	totalSeconds := float64(totalFrames) / input.Video.FrameRate

	_, err = t.runner.Run(ctx, utils.Command{
		Binary:       t.config.VideoToolBinaryPath,
		Args:         args,
		Stdin:        input.Video.Frames,
		OnStdoutLine: parseProgressCallback(args, totalFrames, totalSeconds, progressCallback),
	})
	if err != nil {
		return nil, err
	}

	t.log.Debug().Str("path", input.DestinationPath).Int("frames", totalFrames).Str("codec", codec).Msg("video written")
	return &common.EncodeResult{OutputPath: input.DestinationPath}, nil
}

// EncodeAudio pipes interleaved s16le samples into the video tool.
func (t *Toolkit) EncodeAudio(ctx context.Context, input common.AudioEncodeInput) (*common.EncodeResult, error) {
	codec, err := common.AudioCodecFor(input.DestinationPath, input.Codec)
	if err != nil {
		return nil, err
	}
	if err := validateAudioInput(input.Audio); err != nil {
		return nil, err
	}

	args := globalArgs(ffmpeg.Input("pipe:", audioKwArgs(input.Audio)).
		Output(input.DestinationPath, ffmpeg.KwArgs{"c:a": codec}).
		OverWriteOutput().
		GetArgs()...)

	_, err = t.runner.Run(ctx, utils.Command{
		Binary: t.config.VideoToolBinaryPath,
		Args:   args,
		Stdin:  input.Audio.Samples,
	})
	if err != nil {
		return nil, err
	}
	return &common.EncodeResult{OutputPath: input.DestinationPath}, nil
}

// EncodeImage writes a single raw frame to an image file. The format follows the extension.
func (t *Toolkit) EncodeImage(ctx context.Context, input common.ImageEncodeInput) (*common.EncodeResult, error) {
	count, err := validateVideoInput(input.Video)
	if err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, common.Configurationf("an image needs exactly one frame, got %d", count)
	}

	args := globalArgs(rawVideoInput(input.Video, false).
		Output(input.DestinationPath, ffmpeg.KwArgs{"frames:v": "1"}).
		OverWriteOutput().
		GetArgs()...)

	_, err = t.runner.Run(ctx, utils.Command{
		Binary: t.config.VideoToolBinaryPath,
		Args:   args,
		Stdin:  input.Video.Frames,
	})
	if err != nil {
		return nil, err
	}
	return &common.EncodeResult{OutputPath: input.DestinationPath}, nil
}

// PlayAudio blocks until the playback tool has played all samples.
func (t *Toolkit) PlayAudio(ctx context.Context, audio common.AudioInput) error {
	if err := validateAudioInput(audio); err != nil {
		return err
	}

	_, err := t.runner.Run(ctx, utils.Command{
		Binary: t.config.PlaybackToolBinaryPath,
		Args: []string{
			"-loglevel", "error",
			"-autoexit",
			"-nodisp",
			"-f", "s16le",
			"-ar", strconv.Itoa(audio.SampleRate),
			"-ac", strconv.Itoa(audio.Channels),
			"-i", "-",
		},
		Stdin: audio.Samples,
	})
	return err
}

func validateAudioInput(a common.AudioInput) error {
	if a.Channels <= 0 || a.SampleRate <= 0 {
		return common.Configurationf("invalid audio layout: %d channels at %d Hz", a.Channels, a.SampleRate)
	}
	if len(a.Samples) == 0 || len(a.Samples)%(2*a.Channels) != 0 {
		return common.Configurationf("%d bytes of audio do not hold whole %d channel samples", len(a.Samples), a.Channels)
	}
	return nil
}

func audioKwArgs(a common.AudioInput) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":  "s16le",
		"ar": strconv.Itoa(a.SampleRate),
		"ac": strconv.Itoa(a.Channels),
	}
}
