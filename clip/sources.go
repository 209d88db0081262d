package clip

import (
	"context"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
)

// staticSource hands out frames that already live in memory.
type staticSource []frames.Frame

func (s staticSource) Frames(context.Context) ([]frames.Frame, error) {
	return s, nil
}

// videoFileSource decodes the whole file through the toolkit.
type videoFileSource struct {
	tools       *ffmpeg.Toolkit
	path        string
	width       int
	height      int
	pixelFormat common.PixelFormat
}

func (s videoFileSource) Frames(ctx context.Context) ([]frames.Frame, error) {
	raw, err := s.tools.DecodeVideo(ctx, s.path, s.pixelFormat)
	if err != nil {
		return nil, err
	}
	return frames.Split(raw, s.width, s.height, s.pixelFormat.Components())
}

type fileAudioSource struct {
	tools      *ffmpeg.Toolkit
	path       string
	channels   int
	sampleRate int
}

func (s fileAudioSource) Audio(ctx context.Context) (frames.Audio, error) {
	raw, err := s.tools.DecodeAudio(ctx, s.path, s.channels, s.sampleRate)
	if err != nil {
		return frames.Audio{}, err
	}
	return frames.AudioFromBytes(raw, s.channels, s.sampleRate)
}

type staticAudioSource frames.Audio

func (s staticAudioSource) Audio(context.Context) (frames.Audio, error) {
	return frames.Audio(s), nil
}
