package utils

import (
	"bufio"
	"fmt"
	"os/exec"
	"testing"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecuteCmdStdin(t *testing.T) {
	requireShell(t)

	res, err := ExecuteCmd(exec.Command("sh", "-c", "cat"), []byte("frame-bytes"), nil)
	assert.NoError(t, err)
	assert.Equal(t, "frame-bytes", string(res.Stdout))
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecuteCmdCallback(t *testing.T) {
	requireShell(t)

	var lines []string
	res, err := ExecuteCmd(exec.Command("sh", "-c", "echo frame=1; echo progress=end"), nil, func(s string) {
		lines = append(lines, s)
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"frame=1", "progress=end"}, lines)
	assert.Equal(t, "frame=1\nprogress=end\n", string(res.Stdout))
}

func TestExecuteCmdLongLines(t *testing.T) {
	requireShell(t)

	var lines []string
	_, err := ExecuteCmd(exec.Command("sh", "-c", "head -c 100000 /dev/zero | tr '\\0' a; echo; echo done"), nil, func(s string) {
		lines = append(lines, s)
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Len(t, lines[0], 100000)
	assert.Equal(t, "done", lines[1])

	script := fmt.Sprintf("head -c %d /dev/zero | tr '\\0' a; echo; head -c 1000000 /dev/zero", 2*MaxOutputLine)
	_, err = ExecuteCmd(exec.Command("sh", "-c", script), nil, func(string) {})
	assert.ErrorIs(t, err, common.ErrExternalTool)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestExecuteCmdFailure(t *testing.T) {
	requireShell(t)

	res, err := ExecuteCmd(exec.Command("sh", "-c", "echo 'Unknown encoder foo' >&2; exit 3"), nil, nil)
	assert.ErrorIs(t, err, common.ErrExternalTool)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "Unknown encoder foo\n", Diagnostics(err))
	assert.Contains(t, err.Error(), "Unknown encoder foo")
}

func TestExecuteCmdMissingBinary(t *testing.T) {
	_, err := ExecuteCmd(exec.Command("/nonexistent/filmpy-tool"), nil, nil)
	assert.ErrorIs(t, err, common.ErrExternalTool)
}

func TestCommandString(t *testing.T) {
	c := Command{Binary: "ffmpeg", Args: []string{"-i", "in.mp4", "out.mkv"}}
	assert.Equal(t, "ffmpeg -i in.mp4 out.mkv", c.String())
}
