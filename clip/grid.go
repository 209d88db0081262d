package clip

import (
	"context"
	"image/color"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/samber/lo"
)

type GridOptions struct {
	Options
	Background *color.NRGBA
}

// GridClip tiles its children into cells as large as the largest child.
type GridClip struct {
	*Clip
	Cells      [][]*Clip
	CellWidth  int
	CellHeight int
}

// NewGrid pastes each cell's frame into its slot. Cells are not masked. The
// grid runs as long as its longest child; shorter children leave background.
func NewGrid(ctx context.Context, tools *ffmpeg.Toolkit, rows [][]*Clip, opts GridOptions) (*GridClip, error) {
	if len(rows) == 0 {
		return nil, common.Configurationf("GridClip needs at least one row")
	}
	for i, row := range rows {
		if len(row) == 0 {
			return nil, common.Configurationf("GridClip: row %d is empty", i)
		}
	}
	all := lo.Flatten(rows)
	if err := checkChildren("GridClip", all, 1); err != nil {
		return nil, err
	}

	cellWidth := lo.Max(lo.Map(all, func(c *Clip, _ int) int { return c.width }))
	cellHeight := lo.Max(lo.Map(all, func(c *Clip, _ int) int { return c.height }))
	cols := lo.Max(lo.Map(rows, func(r []*Clip, _ int) int { return len(r) }))

	opts.Width = cols * cellWidth
	opts.Height = len(rows) * cellHeight
	canvasDefaults(&opts.Options, all)

	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "GridClip",
		pixelFormat: common.RGB24,
		behavior:    common.EnforceLimit,
	})
	if err != nil {
		return nil, err
	}

	blank, err := blankFrame(c, opts.Background)
	if err != nil {
		return nil, err
	}

	cells := make([][][]frames.Frame, len(rows))
	for r, row := range rows {
		cells[r] = make([][]frames.Frame, len(row))
		for col, child := range row {
			if cells[r][col], err = child.framesIn(ctx, c.pixelFormat); err != nil {
				return nil, err
			}
		}
	}

	count := lo.Max(lo.Map(all, func(c *Clip, _ int) int { return c.NumberOfFrames() }))
	out := make([]frames.Frame, count)
	for f := range out {
		canvas := blank.Clone()
		for r, row := range cells {
			for col, fs := range row {
				if f < len(fs) {
					canvas.Paste(fs[f], col*cellWidth, r*cellHeight)
				}
			}
		}
		out[f] = canvas
	}

	if err := c.setCanvasFrames(ctx, out, opts.Masks); err != nil {
		return nil, err
	}

	return &GridClip{Clip: c, Cells: rows, CellWidth: cellWidth, CellHeight: cellHeight}, nil
}
