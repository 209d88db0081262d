package ffmpeg

import (
	"context"
	"strconv"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/utils"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DecodeVideo returns every frame of path as packed raw pixels in pixFmt, back to back.
func (t *Toolkit) DecodeVideo(ctx context.Context, path string, pixFmt common.PixelFormat) ([]byte, error) {
	args := globalArgs(ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"f":       "rawvideo",
			"vcodec":  "rawvideo",
			"pix_fmt": pixFmt.Value,
		}).
		GetArgs()...)

	res, err := t.runner.Run(ctx, utils.Command{
		Binary: t.config.VideoToolBinaryPath,
		Args:   args,
	})
	if err != nil {
		return nil, err
	}
	return res.Stdout, nil
}

// DecodeAudio returns the audio of path as interleaved signed 16 bit little endian samples.
func (t *Toolkit) DecodeAudio(ctx context.Context, path string, channels, sampleRate int) ([]byte, error) {
	if channels <= 0 || sampleRate <= 0 {
		return nil, common.Configurationf("invalid audio layout: %d channels at %d Hz", channels, sampleRate)
	}

	args := globalArgs(ffmpeg.Input(path).
		Output("pipe:1", ffmpeg.KwArgs{
			"f":      "s16le",
			"acodec": "pcm_s16le",
			"ac":     strconv.Itoa(channels),
			"ar":     strconv.Itoa(sampleRate),
		}).
		GetArgs()...)

	res, err := t.runner.Run(ctx, utils.Command{
		Binary: t.config.VideoToolBinaryPath,
		Args:   args,
	})
	if err != nil {
		return nil, err
	}
	return res.Stdout, nil
}
