package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orsinium-labs/enum"
)

type FrameRate enum.Member[string]

var (
	FrameRatePAL  = FrameRate{"PAL"}
	FrameRateNTSC = FrameRate{"NTSC"}
	FrameRates    = enum.New(FrameRateNTSC, FrameRatePAL)
)

func frameRateValue(rate string) (float64, error) {
	switch strings.ToUpper(rate) {
	case FrameRatePAL.Value:
		return 25, nil
	case FrameRateNTSC.Value:
		return 30, nil
	}
	fps, err := strconv.ParseFloat(rate, 64)
	if err != nil || fps <= 0 {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}
	return fps, nil
}

// ParseSeconds reads a point in time. Accepted forms:
//
//	12.5            seconds
//	01:02.5         minutes and seconds
//	00:01:02.5      hours, minutes and seconds
//	00:01:02:12@25  timecode with a frame field, at the given rate
//	50@PAL          a frame count at the given rate
func ParseSeconds(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if tc, rate, found := strings.Cut(value, "@"); found {
		fps, err := frameRateValue(rate)
		if err != nil {
			return 0, err
		}
		frames, err := TimecodeToFrames(tc, fps)
		if err != nil {
			return 0, err
		}
		return float64(frames) / fps, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", value)
	}
	total := 0.0
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil || (i > 0 && n >= 60) || (i < len(parts)-1 && n != float64(int(n))) {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		total = total*60 + n
	}
	return total, nil
}

// TimecodeToFrames converts HH:MM:SS:FF, or a bare frame count, to frames.
func TimecodeToFrames(timecode string, frameRate float64) (int, error) {
	parts := strings.Split(timecode, ":")
	if len(parts) == 1 {
		return strconv.Atoi(parts[0])
	}
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid timecode format")
	}

	fields := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		fields[i] = n
	}
	hours, minutes, seconds, frames := fields[0], fields[1], fields[2], fields[3]
	if float64(frames) >= frameRate {
		return 0, fmt.Errorf("frame field %d out of range at %g fps", frames, frameRate)
	}

	return int(float64(hours*3600+minutes*60+seconds)*frameRate+0.5) + frames, nil
}
