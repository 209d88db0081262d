package testutils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// GenerateStereoAudioFile writes one second of two sine tones, left 300Hz and right 1kHz, as 16 bit PCM.
func GenerateStereoAudioFile(t *testing.T, outFile string, sampleRate int) string {
	t.Helper()
	RequireFFmpeg(t)
	_ = os.MkdirAll(filepath.Dir(outFile), 0755)

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("sine=frequency=300:duration=1:sample_rate=%d", sampleRate),
		"-f", "lavfi",
		"-i", fmt.Sprintf("sine=frequency=1000:duration=1:sample_rate=%d", sampleRate),
		"-filter_complex", "[0:a][1:a]amerge=inputs=2[a]",
		"-map", "[a]",
		"-c:a", "pcm_s16le",
		"-y", outFile,
	}

	cmd := exec.Command("ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("generating %s: %s\n%s", outFile, err, out)
	}

	return outFile
}
