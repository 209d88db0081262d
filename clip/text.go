package clip

import (
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/bcc-code/bcc-media-clips/utils"
	"github.com/samber/lo"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultFontSize     = 48.0
	DefaultLineSpacing  = 4
	DefaultTextDuration = 10.0
)

type TextOptions struct {
	Options
	Text string
	// FontPath points at a TrueType or OpenType file. Empty uses Go Regular.
	FontPath    string
	FontSize    float64
	Color       *color.NRGBA
	Background  *color.NRGBA
	Align       common.Alignment
	LineSpacing *int
	StrokeWidth int
	StrokeColor *color.NRGBA
	Duration    float64
}

// TextClip renders text once and shows it for the clip duration. Transparent
// pixels are masked out so the text can be layered over other clips.
type TextClip struct {
	*Clip
	Text string
}

func loadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		if !utils.IsFontFile(path) {
			return nil, common.Configurationf("%q is not a TrueType or OpenType font", path)
		}
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("read font %q", path))
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("parse font %q", path))
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type textLayout struct {
	lines      []string
	widths     []int
	ascent     int
	lineHeight int
	spacing    int
	stroke     int
}

func layoutText(face font.Face, text string, spacing, stroke int) textLayout {
	m := face.Metrics()
	l := textLayout{
		lines:      strings.Split(text, "\n"),
		ascent:     m.Ascent.Ceil(),
		lineHeight: (m.Ascent + m.Descent).Ceil(),
		spacing:    spacing,
		stroke:     stroke,
	}
	l.widths = lo.Map(l.lines, func(line string, _ int) int {
		return font.MeasureString(face, line).Ceil()
	})
	return l
}

// Size is the smallest canvas holding every line and its stroke.
func (l textLayout) Size() (int, int) {
	w := lo.Max(l.widths) + 2*l.stroke
	h := len(l.lines)*l.lineHeight + (len(l.lines)-1)*l.spacing + 2*l.stroke
	return w, h
}

func (l textLayout) draw(dst *image.NRGBA, face font.Face, align common.Alignment, fill, stroke color.NRGBA) {
	width := dst.Bounds().Dx()
	for i, line := range l.lines {
		x := l.stroke
		switch align {
		case common.AlignCenter:
			x = (width - l.widths[i]) / 2
		case common.AlignRight:
			x = width - l.stroke - l.widths[i]
		}
		y := l.stroke + i*(l.lineHeight+l.spacing) + l.ascent

		if l.stroke > 0 {
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(stroke), Face: face}
			for dy := -l.stroke; dy <= l.stroke; dy++ {
				for dx := -l.stroke; dx <= l.stroke; dx++ {
					if dx*dx+dy*dy > l.stroke*l.stroke {
						continue
					}
					d.Dot = fixed.P(x+dx, y+dy)
					d.DrawString(line)
				}
			}
		}

		d := &font.Drawer{Dst: dst, Src: image.NewUniform(fill), Face: face, Dot: fixed.P(x, y)}
		d.DrawString(line)
	}
}

func NewText(tools *ffmpeg.Toolkit, opts TextOptions) (*TextClip, error) {
	if opts.Text == "" {
		return nil, common.Configurationf("TextClip: text is required")
	}
	if opts.StrokeWidth < 0 {
		return nil, common.Configurationf("TextClip: stroke width %d is negative", opts.StrokeWidth)
	}

	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "TextClip",
		pixelFormat: common.RGBA,
		behavior:    common.LoopFrames,
	})
	if err != nil {
		return nil, err
	}

	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	spacing := DefaultLineSpacing
	if opts.LineSpacing != nil {
		spacing = *opts.LineSpacing
	}
	align := opts.Align
	if align == (common.Alignment{}) {
		align = common.AlignLeft
	}
	fill := color.NRGBA{A: 255}
	if opts.Color != nil {
		fill = *opts.Color
	}
	stroke := fill
	if opts.StrokeColor != nil {
		stroke = *opts.StrokeColor
	}

	face, err := loadFace(opts.FontPath, size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	layout := layoutText(face, opts.Text, spacing, opts.StrokeWidth)
	if c.width == 0 || c.height == 0 {
		c.width, c.height = layout.Size()
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultTextDuration
	}
	if opts.EndTime > 0 {
		c.endTime = opts.EndTime
	} else {
		c.endTime = c.startTime + duration
	}
	if err := c.validateTiming(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(*opts.Background), image.Point{}, draw.Src)
	}
	layout.draw(img, face, align, fill, stroke)

	f, err := frames.FromImage(img, c.pixelFormat)
	if err != nil {
		return nil, err
	}
	c.source = staticSource{f}
	if len(c.maskSource) == 0 && frames.AlphaIndex(c.pixelFormat) >= 0 {
		c.maskFromAlpha = true
	}

	return &TextClip{Clip: c, Text: opts.Text}, nil
}
