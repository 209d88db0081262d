package clip

import (
	"context"
	"os"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
)

type VideoOptions struct {
	Options
	Path string
}

// VideoFileClip is a window into a video file. Frames and audio are decoded on first use.
type VideoFileClip struct {
	*Clip
	Path string
	Info ffmpeg.StreamInfo
}

// NewVideoFile probes path and sets up the clip. An empty EndTime means the end of the file.
func NewVideoFile(ctx context.Context, tools *ffmpeg.Toolkit, opts VideoOptions) (*VideoFileClip, error) {
	if opts.Path == "" {
		return nil, common.Configurationf("VideoClip: a file path is required")
	}
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, common.Configurationf("VideoClip: %s", err)
	}
	if tools == nil {
		return nil, common.Configurationf("VideoClip: a toolkit is required to read %s", opts.Path)
	}

	info, err := tools.GetStreamInfo(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	if !info.HasVideo {
		return nil, common.Configurationf("VideoClip: %s has no video stream", opts.Path)
	}

	if opts.FPS == 0 {
		opts.FPS = info.FrameRate
	}
	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "VideoClip",
		pixelFormat: common.RGB24,
		behavior:    common.EnforceLimit,
	})
	if err != nil {
		return nil, err
	}

	// The decoder always produces the native frame size.
	c.width, c.height = info.Width, info.Height
	if c.endTime == 0 {
		c.endTime = info.TotalSeconds
	}
	if err := c.validateTiming(); err != nil {
		return nil, err
	}
	if c.behavior == common.EnforceLimit && c.EndFrame() > info.TotalFrames {
		return nil, common.Rangef("VideoClip: end time %v is past the end of %s (%v s, %d frames)",
			c.endTime, opts.Path, info.TotalSeconds, info.TotalFrames)
	}

	c.source = videoFileSource{
		tools:       tools,
		path:        opts.Path,
		width:       info.Width,
		height:      info.Height,
		pixelFormat: c.pixelFormat,
	}
	if info.HasAudio && info.AudioChannels > 0 && info.SampleRate > 0 && !opts.NoAudio {
		c.audioSource = fileAudioSource{
			tools:      tools,
			path:       opts.Path,
			channels:   info.AudioChannels,
			sampleRate: info.SampleRate,
		}
	}

	c.log.Debug().Str("path", opts.Path).Str("clip", c.String()).Msg("video clip opened")
	return &VideoFileClip{Clip: c, Path: opts.Path, Info: info}, nil
}
