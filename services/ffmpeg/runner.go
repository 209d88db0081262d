package ffmpeg

import (
	"context"
	"os/exec"

	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/rs/zerolog"
)

// Runner invokes an external tool synchronously.
type Runner interface {
	Run(ctx context.Context, cmd utils.Command) (utils.CmdResult, error)
}

// ExecRunner runs tools as local subprocesses.
type ExecRunner struct {
	Logger zerolog.Logger
}

func (r ExecRunner) Run(ctx context.Context, c utils.Command) (utils.CmdResult, error) {
	r.Logger.Debug().Str("command", c.String()).Int("stdin_bytes", len(c.Stdin)).Msg("running external tool")

	cmd := exec.CommandContext(ctx, c.Binary, c.Args...)
	return utils.ExecuteCmd(cmd, c.Stdin, c.OnStdoutLine)
}

// Diagnostics returns the stderr a failed tool left behind, or "".
func Diagnostics(err error) string {
	return utils.Diagnostics(err)
}
