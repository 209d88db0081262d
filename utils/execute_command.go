package utils

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os/exec"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
)

type diagnosticsKey struct{}

// MaxOutputLine is the longest stdout line delivered to an output callback.
const MaxOutputLine = 1 << 20

// Command is one invocation of an external tool.
type Command struct {
	Binary string
	Args   []string
	// Stdin is written to the process and then closed. Nil leaves stdin unconnected.
	Stdin []byte
	// OnStdoutLine receives stdout line by line while the process runs.
	OnStdoutLine func(string)
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

// CmdResult is what a finished external tool left behind.
type CmdResult struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
}

// ExecuteCmd runs cmd to completion. stdin, when not nil, is written to the
// process and then closed. When outputCallback is set, stdout is also
// delivered line by line as it arrives. A non-zero exit returns an
// ErrExternalTool carrying stderr verbatim.
func ExecuteCmd(cmd *exec.Cmd, stdin []byte, outputCallback func(string)) (CmdResult, error) {
	var result CmdResult

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	errorBytes := bytes.Buffer{}
	cmd.Stderr = &errorBytes

	outBytes := bytes.Buffer{}
	var stdout io.Reader
	if outputCallback != nil {
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return result, merry.Wrap(err)
		}
		stdout = pipe
	} else {
		cmd.Stdout = &outBytes
	}

	err := cmd.Start()
	if err != nil {
		return result, merry.Prependf(common.ErrExternalTool, "start of %s failed: %s", cmd.Path, err)
	}

	var scanErr error
	if stdout != nil {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxOutputLine)
		scanner.Split(bufio.ScanLines)
		for scanner.Scan() {
			line := scanner.Text()
			outBytes.WriteString(line)
			outBytes.WriteByte('\n')
			outputCallback(line)
		}
		if scanErr = scanner.Err(); scanErr != nil {
			// The process blocks on a full pipe until stdout is drained.
			_, _ = io.Copy(io.Discard, stdout)
		}
	}

	err = cmd.Wait()
	result.Stdout = outBytes.Bytes()
	result.Stderr = errorBytes.String()
	if err == nil && scanErr != nil {
		return result, merry.Wrap(common.ErrExternalTool, merry.WithCause(scanErr), merry.WithMessagef("reading output of %s failed", cmd.Path))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result, merry.Wrap(
			merry.Prependf(common.ErrExternalTool, "%s exited with status %d\n%s", cmd.Path, result.ExitCode, result.Stderr),
			merry.WithValue(diagnosticsKey{}, result.Stderr),
		)
	}

	return result, nil
}

// Diagnostics returns the stderr output attached to an ErrExternalTool.
func Diagnostics(err error) string {
	v, _ := merry.Value(err, diagnosticsKey{}).(string)
	return v
}
