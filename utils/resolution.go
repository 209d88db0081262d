package utils

import (
	"fmt"

	"github.com/bcc-code/bcc-media-clips/common"
)

var (
	Resolution1080     = MustResolution("1920x1080")
	ResolutionVertical = MustResolution("1080x1920")
)

type Resolution struct {
	Width  int
	Height int
}

func ResolutionFromString(str string) (*Resolution, error) {
	var r Resolution
	_, err := fmt.Sscanf(str, "%dx%d", &r.Width, &r.Height)
	if err != nil {
		return nil, common.Configurationf("failed to parse resolution string %s, err: %v", str, err)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, common.Configurationf("resolution %s must be positive", str)
	}
	return &r, nil
}

func MustResolution(str string) *Resolution {
	r, err := ResolutionFromString(str)
	if err != nil {
		panic(err)
	}
	return r
}

// FFMpegString is the frame size argument expected by the video tool.
func (r Resolution) FFMpegString() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// EvenDimensions rounds both sides down to the nearest even number, as most encoders require.
func (r Resolution) EvenDimensions() Resolution {
	return Resolution{
		Width:  r.Width - r.Width%2,
		Height: r.Height - r.Height%2,
	}
}

// Scaled multiplies both sides, never going below one pixel.
func (r Resolution) Scaled(multiplier float64) Resolution {
	return Resolution{
		Width:  max(1, int(float64(r.Width)*multiplier)),
		Height: max(1, int(float64(r.Height)*multiplier)),
	}
}

// ResizedToFit returns the biggest resolution in the aspect ratio of r
// that fits into target.
func (r Resolution) ResizedToFit(target Resolution) Resolution {
	tAspect := float32(target.Width) / float32(target.Height)
	sAspect := float32(r.Width) / float32(r.Height)

	out := Resolution{
		Width:  target.Width,
		Height: target.Height,
	}

	if tAspect > sAspect {
		out.Width = int(float32(target.Height) * sAspect)
	} else {
		out.Height = int(float32(target.Width) / sAspect)
	}

	return out
}
