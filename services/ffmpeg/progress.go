package ffmpeg

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/samber/lo"
)

type ProgressCallback func(Progress)

type Progress struct {
	Params         string  `json:"command"`
	Percent        float64 `json:"percent"`
	CurrentSeconds int     `json:"currentSeconds"`
	TotalSeconds   float64 `json:"totalSeconds"`
	CurrentFrame   int     `json:"currentFrame"`
	TotalFrames    int     `json:"totalFrames"`
	Bitrate        string  `json:"bitrate"`
	Speed          string  `json:"speed"`
}

type StreamInfo struct {
	HasAudio      bool    `csv:"has_audio"`
	HasVideo      bool    `csv:"has_video"`
	HasAlpha      bool    `csv:"has_alpha"`
	Width         int     `csv:"width"`
	Height        int     `csv:"height"`
	FrameRate     float64 `csv:"frame_rate"`
	TotalFrames   int     `csv:"total_frames"`
	TotalSeconds  float64 `csv:"total_seconds"`
	PixelFormat   string  `csv:"pixel_format"`
	VideoCodec    string  `csv:"video_codec"`
	AudioCodec    string  `csv:"audio_codec"`
	AudioChannels int     `csv:"audio_channels"`
	SampleRate    int     `csv:"sample_rate"`

	VideoStreams []FFProbeStream `csv:"-"`
	AudioStreams []FFProbeStream `csv:"-"`
	OtherStreams []FFProbeStream `csv:"-"`
}

func isAlphaPixelFormat(name string) bool {
	p, err := common.ParsePixelFormat(name)
	return err == nil && p.HasAlpha()
}

// parseRate turns "30000/1001" or "25" into frames per second.
func parseRate(rate string) float64 {
	parts := strings.Split(rate, "/")
	frames, _ := strconv.ParseFloat(parts[0], 64)
	if len(parts) == 2 {
		seconds, _ := strconv.ParseFloat(parts[1], 64)
		if seconds == 0 {
			return 0
		}
		return frames / seconds
	}
	return frames
}

// parseTagDuration reads the "00:01:52.000000000" form used by matroska tags.
func parseTagDuration(duration string) float64 {
	t, err := time.Parse("15:04:05.999999999", duration)
	if err != nil {
		return 0
	}
	return float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
}

func ProbeResultToInfo(info *FFProbeResult) StreamInfo {
	if info == nil {
		return StreamInfo{}
	}

	streamInfo := StreamInfo{
		HasAudio: lo.SomeBy(info.Streams, func(i FFProbeStream) bool {
			return i.CodecType == "audio"
		}),
		HasVideo: lo.SomeBy(info.Streams, func(i FFProbeStream) bool {
			return i.CodecType == "video"
		}),
		HasAlpha: lo.SomeBy(info.Streams, func(i FFProbeStream) bool {
			return isAlphaPixelFormat(i.PixFmt)
		}),
	}

	for _, stream := range info.Streams {
		switch stream.CodecType {
		case "audio":
			streamInfo.AudioStreams = append(streamInfo.AudioStreams, stream)
		case "video":
			streamInfo.VideoStreams = append(streamInfo.VideoStreams, stream)
		default:
			streamInfo.OtherStreams = append(streamInfo.OtherStreams, stream)
		}
	}

	if streamInfo.HasAudio {
		audio := streamInfo.AudioStreams[0]
		streamInfo.AudioCodec = audio.CodecName
		streamInfo.AudioChannels = audio.Channels
		streamInfo.SampleRate, _ = strconv.Atoi(audio.SampleRate)
	}

	formatSeconds, _ := strconv.ParseFloat(info.Format.Duration, 64)

	if !streamInfo.HasVideo {
		streamInfo.TotalSeconds = formatSeconds
		return streamInfo
	}

	stream := streamInfo.VideoStreams[0]
	streamInfo.Width = stream.Width
	streamInfo.Height = stream.Height
	streamInfo.PixelFormat = stream.PixFmt
	streamInfo.VideoCodec = stream.CodecName

	streamInfo.FrameRate = parseRate(stream.RFrameRate)
	if streamInfo.FrameRate == 0 {
		streamInfo.FrameRate = parseRate(stream.AvgFrameRate)
	}

	streamInfo.TotalSeconds, _ = strconv.ParseFloat(stream.Duration, 64)
	if streamInfo.TotalSeconds == 0 && stream.Tags.Duration != "" {
		streamInfo.TotalSeconds = parseTagDuration(stream.Tags.Duration)
	}
	if streamInfo.TotalSeconds == 0 {
		streamInfo.TotalSeconds = formatSeconds
	}

	frames, _ := strconv.ParseInt(stream.NbFrames, 10, 64)
	streamInfo.TotalFrames = int(frames)
	if streamInfo.TotalFrames == 0 && streamInfo.FrameRate != 0 {
		streamInfo.TotalFrames = int(math.Round(streamInfo.TotalSeconds * streamInfo.FrameRate))
	}

	return streamInfo
}

func parseProgressCallback(command []string, totalFrames int, totalSeconds float64, cb ProgressCallback) func(string) {
	var progress Progress

	progress.Params = strings.Join(command, " ")
	progress.TotalFrames = totalFrames
	progress.TotalSeconds = totalSeconds

	return func(line string) {
		key, value, found := strings.Cut(line, "=")
		if !found {
			return
		}

		switch key {
		case "frame":
			frame, _ := strconv.ParseInt(value, 10, 64)
			progress.CurrentFrame = int(frame)
			if progress.TotalFrames != 0 && frame != 0 {
				progress.Percent = float64(frame) / float64(progress.TotalFrames) * 100
			}
		case "out_time_us":
			us, _ := strconv.ParseFloat(value, 64)
			progress.CurrentSeconds = int(us / 1000 / 1000)
			if progress.TotalFrames == 0 && progress.TotalSeconds != 0 && us != 0 {
				progress.Percent = us / (progress.TotalSeconds * 1000 * 1000) * 100
			}
		case "bitrate":
			progress.Bitrate = value
		case "speed":
			progress.Speed = value
		case "progress":
			// Audio doesn't report progress in a conceivable way, so just return 100 on complete
			if value == "end" {
				progress.Percent = 100
			}
			if cb != nil {
				cb(progress)
			}
		}
	}
}
