package editor

import (
	"github.com/bcc-code/bcc-media-clips/clip"
)

// Summary describes a clip without touching its frames.
type Summary struct {
	Name        string  `json:"name" csv:"name"`
	Kind        string  `json:"kind" csv:"kind"`
	Resolution  string  `json:"resolution" csv:"resolution"`
	FPS         float64 `json:"fps" csv:"fps"`
	StartTime   float64 `json:"startTime" csv:"start_time"`
	EndTime     float64 `json:"endTime" csv:"end_time"`
	Frames      int     `json:"frames" csv:"frames"`
	PixelFormat string  `json:"pixelFormat" csv:"pixel_format"`
	HasAudio    bool    `json:"hasAudio" csv:"has_audio"`
}

func Summarize(name string, c *clip.Clip) Summary {
	return Summary{
		Name:        name,
		Kind:        c.Kind(),
		Resolution:  c.Resolution(),
		FPS:         c.FPS(),
		StartTime:   c.StartTime(),
		EndTime:     c.EndTime(),
		Frames:      c.NumberOfFrames(),
		PixelFormat: c.PixelFormat().Value,
		HasAudio:    c.HasAudio(),
	}
}
