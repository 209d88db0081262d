package script

import (
	"context"
	"strings"

	"github.com/bcc-code/bcc-media-clips/clip"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/samber/lo"
)

// builder makes the clip for a top level element.
type builder func(ctx context.Context, in *Interpreter, a *args) (*clip.Clip, error)

var builders = map[string]builder{
	"ColorClip": func(_ context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.ColorOptions{
			Options:  a.Options(),
			Color:    a.Color("color"),
			Duration: a.Time("duration", 0),
		}
		if err := a.Err(); err != nil {
			return nil, err
		}
		c, err := in.editor.Color(opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"ImageClip": func(_ context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.ImageOptions{
			Options:  a.Options(),
			Path:     a.RequiredPath("path"),
			Duration: a.Time("duration", 0),
		}
		if err := a.Err(); err != nil {
			return nil, err
		}
		c, err := in.editor.Image(opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"TextClip": func(_ context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.TextOptions{
			Options:     a.Options(),
			Text:        a.Required("text"),
			FontPath:    a.Path("font"),
			FontSize:    a.Float("font_size", 0),
			Color:       a.Color("color"),
			Background:  a.Color("background"),
			Align:       a.Alignment("align"),
			LineSpacing: a.IntPtr("line_spacing"),
			StrokeWidth: a.Int("stroke_width", 0),
			StrokeColor: a.Color("stroke_color"),
			Duration:    a.Time("duration", 0),
		}
		if err := a.Err(); err != nil {
			return nil, err
		}
		c, err := in.editor.Text(opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"VideoClip": func(ctx context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.VideoOptions{
			Options: a.Options(),
			Path:    a.RequiredPath("path"),
		}
		if err := a.Err(); err != nil {
			return nil, err
		}
		c, err := in.editor.Video(ctx, opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"ChessClip": func(_ context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.ChessOptions{
			Options:      a.Options(),
			Path:         a.RequiredPath("path"),
			MoveDuration: a.Time("move_duration", 0),
		}
		if err := a.Err(); err != nil {
			return nil, err
		}
		c, err := in.editor.Chess(opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"CompositeClip": func(ctx context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.CompositeOptions{Options: a.Options(), Background: a.Color("background")}
		refs := a.Required("clips")
		if err := a.Err(); err != nil {
			return nil, err
		}
		children, err := in.resolve(refs)
		if err != nil {
			return nil, err
		}
		c, err := in.editor.Composite(ctx, children, opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"GridClip": func(ctx context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.GridOptions{Options: a.Options(), Background: a.Color("background")}
		refs := a.Required("clips")
		if err := a.Err(); err != nil {
			return nil, err
		}
		var rows [][]*clip.Clip
		for _, row := range strings.Split(refs, ";") {
			children, err := in.resolve(row)
			if err != nil {
				return nil, err
			}
			rows = append(rows, children)
		}
		c, err := in.editor.Grid(ctx, rows, opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
	"Concatenate": func(ctx context.Context, in *Interpreter, a *args) (*clip.Clip, error) {
		opts := clip.ConcatenateOptions{Options: a.Options(), Background: a.Color("background")}
		refs := a.Required("clips")
		if err := a.Err(); err != nil {
			return nil, err
		}
		children, err := in.resolve(refs)
		if err != nil {
			return nil, err
		}
		c, err := in.editor.Concatenate(ctx, children, opts)
		if err != nil {
			return nil, err
		}
		return c.Clip, nil
	},
}

// resolve looks up a comma separated list of clip names.
func (in *Interpreter) resolve(refs string) ([]*clip.Clip, error) {
	names := lo.Filter(lo.Map(strings.Split(refs, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}), func(s string, _ int) bool {
		return s != ""
	})
	out := make([]*clip.Clip, 0, len(names))
	for _, name := range names {
		c, ok := in.clips[name]
		if !ok {
			return nil, common.Configurationf("no clip named %q has been defined", name)
		}
		out = append(out, c)
	}
	return out, nil
}
