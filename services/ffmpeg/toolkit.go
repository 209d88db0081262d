package ffmpeg

import (
	"github.com/bcc-code/bcc-media-clips/environment"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/rs/zerolog"
)

// Toolkit is the boundary to ffmpeg, ffprobe and ffplay.
type Toolkit struct {
	config *environment.Config
	runner Runner
	log    zerolog.Logger
}

// New returns a toolkit running the binaries named in cfg. A nil runner runs real subprocesses.
func New(cfg *environment.Config, runner Runner) *Toolkit {
	if cfg == nil {
		cfg = environment.Default()
	}
	log := logging.WithComponent("ffmpeg")
	if runner == nil {
		runner = ExecRunner{Logger: log}
	}
	return &Toolkit{
		config: cfg,
		runner: runner,
		log:    log,
	}
}

func (t *Toolkit) Config() *environment.Config {
	return t.config
}

// globalArgs go in front of everything ffmpeg-go generates.
func globalArgs(extra ...string) []string {
	return append([]string{"-hide_banner", "-loglevel", "error"}, extra...)
}
