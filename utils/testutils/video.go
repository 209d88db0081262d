package testutils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

type VideoGeneratorParams struct {
	Duration  float64
	FrameRate int
	Width     int
	Height    int
	WithAudio bool
}

// RequireFFmpeg skips the test unless ffmpeg and ffprobe are on PATH.
func RequireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available", bin)
		}
	}
}

func GenerateVideoFile(t *testing.T, outFile string, videoParams VideoGeneratorParams) string {
	t.Helper()
	_ = os.MkdirAll(filepath.Dir(outFile), 0755)

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=size=%dx%d:rate=%d:duration=%f", videoParams.Width, videoParams.Height, videoParams.FrameRate, videoParams.Duration),
	}
	if videoParams.WithAudio {
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("sine=frequency=300:duration=%f:sample_rate=48000", videoParams.Duration),
			"-c:a", "aac",
			"-ac", "2",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-y", outFile,
	)

	cmd := exec.Command("ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("generating %s: %s\n%s", outFile, err, out)
	}

	return outFile
}
