package editor

import (
	"context"

	"github.com/bcc-code/bcc-media-clips/clip"
	"github.com/bcc-code/bcc-media-clips/logging"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/rs/zerolog"
)

// Editor builds clips that share one toolkit.
type Editor struct {
	tools *ffmpeg.Toolkit
	log   zerolog.Logger
}

func New(tools *ffmpeg.Toolkit) *Editor {
	return &Editor{
		tools: tools,
		log:   logging.WithComponent("editor"),
	}
}

func (e *Editor) Toolkit() *ffmpeg.Toolkit {
	return e.tools
}

func (e *Editor) created(c *clip.Clip) {
	e.log.Debug().Str("clip", c.String()).Msg("clip created")
}

func (e *Editor) Color(opts clip.ColorOptions) (*clip.ColorClip, error) {
	c, err := clip.NewColor(e.tools, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Image(opts clip.ImageOptions) (*clip.ImageClip, error) {
	c, err := clip.NewImage(e.tools, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Text(opts clip.TextOptions) (*clip.TextClip, error) {
	c, err := clip.NewText(e.tools, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Video(ctx context.Context, opts clip.VideoOptions) (*clip.VideoFileClip, error) {
	c, err := clip.NewVideoFile(ctx, e.tools, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Chess(opts clip.ChessOptions) (*clip.ChessClip, error) {
	c, err := clip.NewChess(e.tools, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Composite(ctx context.Context, clips []*clip.Clip, opts clip.CompositeOptions) (*clip.CompositeClip, error) {
	c, err := clip.NewComposite(ctx, e.tools, clips, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

func (e *Editor) Grid(ctx context.Context, rows [][]*clip.Clip, opts clip.GridOptions) (*clip.GridClip, error) {
	c, err := clip.NewGrid(ctx, e.tools, rows, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}

// Concatenate plays clips back to back on a canvas as large as the largest of them.
func (e *Editor) Concatenate(ctx context.Context, clips []*clip.Clip, opts clip.ConcatenateOptions) (*clip.ConcatenateClip, error) {
	c, err := clip.NewConcatenate(ctx, e.tools, clips, opts)
	if err != nil {
		return nil, err
	}
	e.created(c.Clip)
	return c, nil
}
