package script

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/clip"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/editor"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/teris-io/shortid"
)

// Interpreter runs scripts against one editor. Clips defined by a script
// stay available to later elements and later scripts by name.
type Interpreter struct {
	editor *editor.Editor
	clips  map[string]*clip.Clip
	names  []string
	root   string
	log    zerolog.Logger
}

func New(e *editor.Editor) *Interpreter {
	return &Interpreter{
		editor: e,
		clips:  map[string]*clip.Clip{},
		log:    logging.WithComponent("script"),
	}
}

// ConfineTo makes every file path in later scripts resolve inside dir.
// Paths leading outside it are configuration errors.
func (in *Interpreter) ConfineTo(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("work directory %q", dir))
	}
	in.root = abs
	return nil
}

// Clip returns a clip defined by an earlier element.
func (in *Interpreter) Clip(name string) (*clip.Clip, bool) {
	c, ok := in.clips[name]
	return c, ok
}

// Summaries describes every named clip in definition order.
func (in *Interpreter) Summaries() []editor.Summary {
	return lo.Map(in.names, func(name string, _ int) editor.Summary {
		return editor.Summarize(name, in.clips[name])
	})
}

func (in *Interpreter) RunFile(ctx context.Context, path string) ([]editor.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("open script %q", path))
	}
	defer f.Close()
	return in.Run(ctx, f)
}

// Run parses and executes a script, returning the clips it defined.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) ([]editor.Summary, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return in.Execute(ctx, doc)
}

func (in *Interpreter) Execute(ctx context.Context, doc *Document) ([]editor.Summary, error) {
	before := len(in.names)
	for _, el := range doc.Clips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		build, ok := builders[el.Tag()]
		if !ok {
			in.log.Warn().Str("tag", el.Tag()).Msg("unknown clip tag, skipping")
			continue
		}
		if err := in.runClip(ctx, el, build); err != nil {
			return nil, err
		}
	}
	return in.Summaries()[before:], nil
}

func (in *Interpreter) clipName(a *args) (string, error) {
	name := a.String("name")
	if name == "" {
		return shortid.Generate()
	}
	if !utils.ValidName(name) {
		return "", common.Configurationf("<%s>: clip name %q may only use letters, digits, '-' and '_'", a.tag, name)
	}
	if _, taken := in.clips[name]; taken {
		return "", common.Configurationf("<%s>: a clip named %q already exists", a.tag, name)
	}
	return name, nil
}

func (in *Interpreter) runClip(ctx context.Context, el Element, build builder) error {
	a := newArgs(el, in.root)
	name, err := in.clipName(a)
	if err != nil {
		return err
	}
	log := in.log.With().Str("clip", name).Logger()

	c, err := build(ctx, in, a)
	if err != nil {
		return merry.Prependf(err, "<%s name=%q>", el.Tag(), name)
	}
	in.warnUnused(log, a)

	for _, child := range el.Children {
		op, ok := operations[child.Tag()]
		if !ok {
			log.Warn().Str("tag", child.Tag()).Str("kind", c.Kind()).Msg("unknown operation, skipping")
			continue
		}
		oa := newArgs(child, in.root)
		log.Debug().Str("operation", child.Tag()).Msg("applying")
		if err := op(ctx, c, oa); err != nil {
			return merry.Prependf(err, "<%s name=%q> <%s>", el.Tag(), name, child.Tag())
		}
		in.warnUnused(log, oa)
	}

	in.clips[name] = c
	in.names = append(in.names, name)
	log.Info().Str("summary", c.String()).Msg("clip ready")
	return nil
}

func (in *Interpreter) warnUnused(log zerolog.Logger, a *args) {
	unused := a.unused()
	if len(unused) == 0 {
		return
	}
	slices.Sort(unused)
	log.Warn().Str("tag", a.tag).Str("attributes", strings.Join(unused, ",")).Msg("ignoring unknown attributes")
}

// ClipTags lists the top level tags a script may use.
func ClipTags() []string {
	tags := lo.Keys(builders)
	slices.Sort(tags)
	return tags
}
