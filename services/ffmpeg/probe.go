package ffmpeg

import (
	"context"
	"encoding/json"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/cache"
	"github.com/bcc-code/bcc-media-clips/utils"
)

type FFProbeStream struct {
	Index              int    `json:"index" csv:"index"`
	CodecName          string `json:"codec_name" csv:"codec_name"`
	CodecLongName      string `json:"codec_long_name" csv:"-"`
	Profile            string `json:"profile" csv:"-"`
	CodecType          string `json:"codec_type" csv:"codec_type"`
	Width              int    `json:"width" csv:"width"`
	Height             int    `json:"height" csv:"height"`
	SampleAspectRatio  string `json:"sample_aspect_ratio" csv:"-"`
	DisplayAspectRatio string `json:"display_aspect_ratio" csv:"-"`
	PixFmt             string `json:"pix_fmt" csv:"pix_fmt"`
	FieldOrder         string `json:"field_order" csv:"-"`
	RFrameRate         string `json:"r_frame_rate" csv:"r_frame_rate"`
	AvgFrameRate       string `json:"avg_frame_rate" csv:"avg_frame_rate"`
	TimeBase           string `json:"time_base" csv:"-"`
	StartTime          string `json:"start_time" csv:"-"`
	Duration           string `json:"duration" csv:"duration"`
	BitRate            string `json:"bit_rate" csv:"bit_rate"`
	NbFrames           string `json:"nb_frames" csv:"nb_frames"`
	SampleRate         string `json:"sample_rate" csv:"sample_rate"`
	Channels           int    `json:"channels" csv:"channels"`
	ChannelLayout      string `json:"channel_layout" csv:"channel_layout"`
	Tags               struct {
		Language string `json:"language"`
		Encoder  string `json:"encoder"`
		Duration string `json:"DURATION"`
	} `json:"tags" csv:"-"`
}

type FFProbeResult struct {
	Streams []FFProbeStream `json:"streams"`
	Format  struct {
		Filename       string `json:"filename"`
		NbStreams      int    `json:"nb_streams"`
		FormatName     string `json:"format_name"`
		FormatLongName string `json:"format_long_name"`
		StartTime      string `json:"start_time"`
		Duration       string `json:"duration"`
		Size           string `json:"size"`
		BitRate        string `json:"bit_rate"`
	} `json:"format"`
}

func (t *Toolkit) doProbe(ctx context.Context, path string) (*FFProbeResult, error) {
	res, err := t.runner.Run(ctx, utils.Command{
		Binary: t.config.ProbeToolBinaryPath,
		Args: []string{
			"-hide_banner",
			"-v", "error",
			"-print_format", "json",
			"-show_format",
			"-show_streams",
			path,
		},
	})
	if err != nil {
		return nil, err
	}

	var info FFProbeResult
	err = json.Unmarshal(res.Stdout, &info)
	if err != nil {
		return nil, merry.Prependf(err, "couldn't parse probe output for %s", path)
	}

	return &info, nil
}

// ProbeFile returns information about the specified media file.
func (t *Toolkit) ProbeFile(ctx context.Context, filePath string) (*FFProbeResult, error) {
	return cache.GetOrSet("probe:"+t.config.ProbeToolBinaryPath+":"+filePath, func() (*FFProbeResult, error) {
		return t.doProbe(ctx, filePath)
	})
}

func (t *Toolkit) GetStreamInfo(ctx context.Context, path string) (StreamInfo, error) {
	info, err := t.ProbeFile(ctx, path)
	if err != nil {
		return StreamInfo{}, err
	}
	return ProbeResultToInfo(info), nil
}
