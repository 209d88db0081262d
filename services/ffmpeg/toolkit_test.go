package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/bcc-code/bcc-media-clips/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ToolkitTestSuite struct {
	suite.Suite
	runner  *testutils.MockRunner
	toolkit *ffmpeg.Toolkit
}

func (s *ToolkitTestSuite) SetupTest() {
	s.runner = &testutils.MockRunner{}
	s.toolkit = ffmpeg.New(environment.Default(), s.runner)
}

func hasPair(args []string, key, value string) bool {
	for i := range args[:max(0, len(args)-1)] {
		if args[i] == key && args[i+1] == value {
			return true
		}
	}
	return false
}

func rgbInput(frames int) common.VideoInput {
	return common.VideoInput{
		Width:       2,
		Height:      2,
		FrameRate:   25,
		PixelFormat: common.RGB24,
		Frames:      make([]byte, 2*2*3*frames),
	}
}

func (s *ToolkitTestSuite) Test_EncodeVideoUnsupportedExtension() {
	_, err := s.toolkit.EncodeVideo(context.Background(), common.VideoEncodeInput{
		Video:           rgbInput(1),
		DestinationPath: "/tmp/out.xyz",
	}, nil)

	s.ErrorIs(err, common.ErrConfiguration)
	s.runner.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *ToolkitTestSuite) Test_EncodeVideoArguments() {
	input := rgbInput(3)
	var captured utils.Command
	s.runner.On("Run", mock.Anything, testutils.BinaryIs("ffmpeg")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(utils.Command)
			captured.OnStdoutLine("frame=3")
			captured.OnStdoutLine("progress=end")
		}).
		Return(utils.CmdResult{}, nil).
		Once()

	var progress []ffmpeg.Progress
	res, err := s.toolkit.EncodeVideo(context.Background(), common.VideoEncodeInput{
		Video:           input,
		DestinationPath: "/tmp/out.mp4",
	}, func(p ffmpeg.Progress) {
		progress = append(progress, p)
	})

	s.NoError(err)
	s.Equal("/tmp/out.mp4", res.OutputPath)
	s.Equal(input.Frames, captured.Stdin)
	s.True(hasPair(captured.Args, "-f", "rawvideo"))
	s.True(hasPair(captured.Args, "-s", "2x2"))
	s.True(hasPair(captured.Args, "-r", "25"))
	s.True(hasPair(captured.Args, "-i", "pipe:"))
	s.True(hasPair(captured.Args, "-c:v", common.CodecH264))
	s.True(hasPair(captured.Args, "-preset", "medium"))
	s.True(hasPair(captured.Args, "-pix_fmt", "yuv420p"))
	s.Contains(captured.Args, "-y")
	s.Contains(captured.Args, "/tmp/out.mp4")
	s.Require().Len(progress, 1)
	s.Equal(100.0, progress[0].Percent)
	s.runner.AssertExpectations(s.T())
}

func (s *ToolkitTestSuite) Test_EncodeVideoWithAudio() {
	var captured utils.Command
	s.runner.On("Run", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(utils.Command)
		}).
		Return(utils.CmdResult{}, nil)

	_, err := s.toolkit.EncodeVideo(context.Background(), common.VideoEncodeInput{
		Video:           rgbInput(1),
		AudioPath:       "/tmp/audio.ogg",
		DestinationPath: "/tmp/out.webm",
	}, nil)

	s.NoError(err)
	s.True(hasPair(captured.Args, "-i", "/tmp/audio.ogg"))
	s.True(hasPair(captured.Args, "-c:a", common.CodecVorbis))
	s.True(hasPair(captured.Args, "-c:v", common.CodecVP9))
	s.NotContains(captured.Args, "-preset")
}

func (s *ToolkitTestSuite) Test_EncodeVideoPartialFrame() {
	input := rgbInput(1)
	input.Frames = input.Frames[1:]

	_, err := s.toolkit.EncodeVideo(context.Background(), common.VideoEncodeInput{
		Video:           input,
		DestinationPath: "/tmp/out.mkv",
	}, nil)
	s.ErrorIs(err, common.ErrConfiguration)
	s.runner.AssertNotCalled(s.T(), "Run", mock.Anything, mock.Anything)
}

func (s *ToolkitTestSuite) Test_ExternalToolErrorSurfaces() {
	toolErr := merry.Wrap(common.ErrExternalTool)
	s.runner.On("Run", mock.Anything, mock.Anything).Return(utils.CmdResult{ExitCode: 1, Stderr: "Unknown encoder"}, toolErr)

	_, err := s.toolkit.EncodeAudio(context.Background(), common.AudioEncodeInput{
		Audio: common.AudioInput{
			Channels:   2,
			SampleRate: 48000,
			Samples:    make([]byte, 8),
		},
		DestinationPath: "/tmp/out.mp3",
	})
	s.ErrorIs(err, common.ErrExternalTool)
}

func (s *ToolkitTestSuite) Test_EncodeAudioArguments() {
	var captured utils.Command
	s.runner.On("Run", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(utils.Command)
		}).
		Return(utils.CmdResult{}, nil)

	_, err := s.toolkit.EncodeAudio(context.Background(), common.AudioEncodeInput{
		Audio: common.AudioInput{
			Channels:   1,
			SampleRate: 44100,
			Samples:    make([]byte, 4),
		},
		DestinationPath: "/tmp/out.wav",
	})

	s.NoError(err)
	s.True(hasPair(captured.Args, "-f", "s16le"))
	s.True(hasPair(captured.Args, "-ar", "44100"))
	s.True(hasPair(captured.Args, "-ac", "1"))
	s.True(hasPair(captured.Args, "-c:a", common.CodecPCM16))
}

func (s *ToolkitTestSuite) Test_EncodeImageNeedsOneFrame() {
	_, err := s.toolkit.EncodeImage(context.Background(), common.ImageEncodeInput{
		Video:           rgbInput(2),
		DestinationPath: "/tmp/out.png",
	})
	s.ErrorIs(err, common.ErrConfiguration)
}

func (s *ToolkitTestSuite) Test_PlayAudio() {
	s.runner.On("Run", mock.Anything, testutils.BinaryIs("ffplay")).Return(utils.CmdResult{}, nil).Once()

	err := s.toolkit.PlayAudio(context.Background(), common.AudioInput{
		Channels:   2,
		SampleRate: 48000,
		Samples:    make([]byte, 16),
	})
	s.NoError(err)
	s.runner.AssertExpectations(s.T())
}

func (s *ToolkitTestSuite) Test_ProbeIsCached() {
	data, err := os.ReadFile("testdata/probe_mp4.json")
	s.Require().NoError(err)

	s.runner.On("Run", mock.Anything, testutils.BinaryIs("ffprobe")).Return(utils.CmdResult{Stdout: data}, nil).Once()

	path := filepath.Join(s.T().TempDir(), "cached.mp4")
	for range 3 {
		info, err := s.toolkit.GetStreamInfo(context.Background(), path)
		s.NoError(err)
		s.Equal(1280, info.Width)
	}
	s.runner.AssertNumberOfCalls(s.T(), "Run", 1)
}

func (s *ToolkitTestSuite) Test_DecodeVideoArguments() {
	var captured utils.Command
	s.runner.On("Run", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(utils.Command)
		}).
		Return(utils.CmdResult{Stdout: []byte{1, 2, 3, 4}}, nil)

	out, err := s.toolkit.DecodeVideo(context.Background(), "/media/in.mp4", common.RGBA)
	s.NoError(err)
	s.Equal([]byte{1, 2, 3, 4}, out)
	s.True(hasPair(captured.Args, "-i", "/media/in.mp4"))
	s.True(hasPair(captured.Args, "-pix_fmt", "rgba"))
	s.True(hasPair(captured.Args, "-f", "rawvideo"))
	s.Equal("pipe:1", captured.Args[len(captured.Args)-1])
}

func TestToolkit(t *testing.T) {
	suite.Run(t, new(ToolkitTestSuite))
}

func TestToolkitIntegration(t *testing.T) {
	testutils.RequireFFmpeg(t)

	dir := t.TempDir()
	path := testutils.GenerateVideoFile(t, filepath.Join(dir, "in.mp4"), testutils.VideoGeneratorParams{
		Duration:  1,
		FrameRate: 10,
		Width:     32,
		Height:    16,
		WithAudio: true,
	})

	toolkit := ffmpeg.New(environment.Default(), nil)
	ctx := context.Background()

	info, err := toolkit.GetStreamInfo(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 32, info.Width)
	assert.Equal(t, 16, info.Height)
	assert.Equal(t, 10.0, info.FrameRate)
	assert.True(t, info.HasAudio)

	raw, err := toolkit.DecodeVideo(ctx, path, common.RGB24)
	require.NoError(t, err)
	assert.Equal(t, 0, len(raw)%(32*16*3))

	out := filepath.Join(dir, "out.mkv")
	_, err = toolkit.EncodeVideo(ctx, common.VideoEncodeInput{
		Video: common.VideoInput{
			Width:       32,
			Height:      16,
			FrameRate:   10,
			PixelFormat: common.RGB24,
			Frames:      raw,
		},
		DestinationPath: out,
	}, nil)
	require.NoError(t, err)

	_, err = toolkit.DecodeVideo(ctx, filepath.Join(dir, "missing.mp4"), common.RGB24)
	assert.ErrorIs(t, err, common.ErrExternalTool)
	assert.NotEmpty(t, utils.Diagnostics(err))
}

func TestDecodeAudioIntegration(t *testing.T) {
	path := testutils.GenerateStereoAudioFile(t, filepath.Join(t.TempDir(), "tones.wav"), 8000)

	toolkit := ffmpeg.New(environment.Default(), nil)
	ctx := context.Background()

	info, err := toolkit.GetStreamInfo(ctx, path)
	require.NoError(t, err)
	assert.True(t, info.HasAudio)
	assert.False(t, info.HasVideo)
	assert.Equal(t, 2, info.AudioChannels)
	assert.Equal(t, 8000, info.SampleRate)

	raw, err := toolkit.DecodeAudio(ctx, path, 2, 8000)
	require.NoError(t, err)
	assert.InDelta(t, 2*2*8000, len(raw), 2*2*100)

	mono, err := toolkit.DecodeAudio(ctx, path, 1, 4000)
	require.NoError(t, err)
	assert.InDelta(t, 2*4000, len(mono), 2*100)
}
