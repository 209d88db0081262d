package clip

import (
	"bytes"
	"context"
	"image"
	"os"
	"regexp"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/notnil/chess"
	chessimage "github.com/notnil/chess/image"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	DefaultChessWidth        = 1080
	DefaultChessHeight       = 1920
	DefaultChessMoveDuration = 3.0
)

type ChessOptions struct {
	Options
	// Path to a PGN file.
	Path         string
	MoveDuration float64
}

// ChessClip replays a game, one board per position.
type ChessClip struct {
	*Clip
	Path      string
	Positions int
}

// chessSource renders every position when the frames are first needed.
type chessSource struct {
	positions   []*chess.Position
	width       int
	height      int
	perMove     int
	pixelFormat common.PixelFormat
}

func (s chessSource) Frames(ctx context.Context) ([]frames.Frame, error) {
	out := make([]frames.Frame, 0, len(s.positions)*s.perMove)
	for _, p := range s.positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := renderBoard(p.Board(), s.width, s.height, s.pixelFormat)
		if err != nil {
			return nil, err
		}
		for i := 0; i < s.perMove; i++ {
			out = append(out, f)
		}
	}
	return out, nil
}

var (
	// Piece documents are nested <svg> elements; only they carry a viewBox.
	pieceDocument = regexp.MustCompile(`(?s)<svg [^>]*viewBox="[^"]*"[^>]*>.*?</svg>`)
	// Some piece styles write hex colours without the leading #.
	bareHexColor = regexp.MustCompile(`(fill|stroke)\s*:\s*([0-9a-fA-F]{6})\b`)
)

// splitBoardSVG separates the board squares from the piece documents, each of
// which can be rasterised on its own over the same target.
func splitBoardSVG(doc string) (string, []string) {
	doc = bareHexColor.ReplaceAllString(doc, "$1:#$2")
	return pieceDocument.ReplaceAllString(doc, ""), pieceDocument.FindAllString(doc, -1)
}

func rasterise(dst *image.RGBA, doc string, size int) error {
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return merry.Wrap(err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))
	scanner := rasterx.NewScannerGV(size, size, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return nil
}

// renderBoard draws a square board as wide as the canvas, centred vertically on a transparent canvas.
func renderBoard(b *chess.Board, width, height int, pf common.PixelFormat) (frames.Frame, error) {
	var svg bytes.Buffer
	if err := chessimage.SVG(&svg, b); err != nil {
		return frames.Frame{}, merry.Wrap(err)
	}

	boardDoc, pieces := splitBoardSVG(svg.String())
	board := image.NewRGBA(image.Rect(0, 0, width, width))
	for _, doc := range append([]string{boardDoc}, pieces...) {
		if err := rasterise(board, doc, width); err != nil {
			return frames.Frame{}, err
		}
	}

	square, err := frames.FromImage(board, pf)
	if err != nil {
		return frames.Frame{}, err
	}
	canvas := frames.New(width, height, pf.Components())
	canvas.Paste(square, 0, (height-width)/2)
	return canvas, nil
}

func readGame(path string) (*chess.Game, error) {
	if path == "" {
		return nil, common.Configurationf("ChessClip: a PGN file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("open PGN %q", path))
	}
	defer f.Close()

	pgn, err := chess.PGN(f)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("parse PGN %q", path))
	}
	return chess.NewGame(pgn), nil
}

func NewChess(tools *ffmpeg.Toolkit, opts ChessOptions) (*ChessClip, error) {
	game, err := readGame(opts.Path)
	if err != nil {
		return nil, err
	}

	if opts.Width == 0 {
		opts.Width = DefaultChessWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultChessHeight
	}
	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "ChessClip",
		pixelFormat: common.RGBA,
		behavior:    common.EnforceLimit,
	})
	if err != nil {
		return nil, err
	}

	moveDuration := opts.MoveDuration
	if moveDuration == 0 {
		moveDuration = DefaultChessMoveDuration
	}
	perMove := timeToIndex(c.fps, moveDuration)
	if perMove <= 0 {
		return nil, common.Configurationf("ChessClip: move duration %v is shorter than one frame", moveDuration)
	}

	positions := game.Positions()
	if len(positions) > 1 {
		positions = positions[1:]
	}

	total := float64(len(positions)*perMove) / c.fps
	if opts.EndTime == 0 {
		c.endTime = total
	}
	if err := c.validateTiming(); err != nil {
		return nil, err
	}

	c.source = chessSource{
		positions:   positions,
		width:       c.width,
		height:      c.height,
		perMove:     perMove,
		pixelFormat: c.pixelFormat,
	}
	if len(c.maskSource) == 0 && frames.AlphaIndex(c.pixelFormat) >= 0 {
		c.maskFromAlpha = true
	}

	return &ChessClip{Clip: c, Path: opts.Path, Positions: len(positions)}, nil
}
