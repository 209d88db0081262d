package common

import (
	"strings"

	"github.com/orsinium-labs/enum"
)

type Resampling enum.Member[string]

var (
	ResampleNearest        = Resampling{Value: "nearest"}
	ResampleApproxBilinear = Resampling{Value: "approx_bilinear"}
	ResampleBilinear       = Resampling{Value: "bilinear"}
	ResampleBicubic        = Resampling{Value: "bicubic"}
	Resamplings            = enum.New(ResampleNearest, ResampleApproxBilinear, ResampleBilinear, ResampleBicubic)
)

func ParseResampling(value string) (Resampling, error) {
	r := Resamplings.Parse(strings.ToLower(value))
	if r == nil {
		return Resampling{}, Configurationf("unknown resampling filter %q", value)
	}
	return *r, nil
}

// Alignment of text lines inside a text clip.
type Alignment enum.Member[string]

var (
	AlignLeft   = Alignment{Value: "left"}
	AlignCenter = Alignment{Value: "center"}
	AlignRight  = Alignment{Value: "right"}
	Alignments  = enum.New(AlignLeft, AlignCenter, AlignRight)
)

func ParseAlignment(value string) (Alignment, error) {
	a := Alignments.Parse(strings.ToLower(value))
	if a == nil {
		return Alignment{}, Configurationf("unknown alignment %q", value)
	}
	return *a, nil
}
