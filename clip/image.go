package clip

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/frames"
	"github.com/bcc-code/bcc-media-clips/services/ffmpeg"
	"github.com/bcc-code/bcc-media-clips/utils"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageOptions builds a still clip from exactly one of Path or Frames.
type ImageOptions struct {
	Options
	Path   string
	Frames []frames.Frame
	// Duration defaults to one frame for a file, and to the frame count for supplied frames.
	Duration float64
}

type ImageClip struct {
	*Clip
	Path string
}

func decodeImage(path string) (image.Image, error) {
	if !utils.IsImageFile(path) {
		return nil, common.Configurationf("%q is not a supported image file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("open image %q", path))
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, merry.Wrap(common.ErrConfiguration, merry.WithCause(err), merry.WithMessagef("decode image %q", path))
	}
	return img, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return true
}

func NewImage(tools *ffmpeg.Toolkit, opts ImageOptions) (*ImageClip, error) {
	if (opts.Path == "") == (len(opts.Frames) == 0) {
		return nil, common.Configurationf("ImageClip: provide either an image path or frames, not both")
	}

	var img image.Image
	if opts.Path != "" {
		var err error
		if img, err = decodeImage(opts.Path); err != nil {
			return nil, err
		}
		if opts.PixelFormat == (common.PixelFormat{}) && !isOpaque(img) {
			opts.PixelFormat = common.RGBA
		}
	}

	c, err := newClip(tools, opts.Options, kindDefaults{
		kind:        "ImageClip",
		pixelFormat: common.RGB24,
		behavior:    common.LoopFrames,
	})
	if err != nil {
		return nil, err
	}

	var src []frames.Frame
	if img != nil {
		b := img.Bounds()
		if c.width > 0 && c.height > 0 && (c.width != b.Dx() || c.height != b.Dy()) {
			scaled := image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
			draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
			img = scaled
		}
		f, err := frames.FromImage(img, c.pixelFormat)
		if err != nil {
			return nil, err
		}
		src = []frames.Frame{f}
	} else {
		src = opts.Frames
		for i, f := range src {
			if f.Components != c.pixelFormat.Components() || !f.SameShape(src[0]) {
				return nil, common.Configurationf("ImageClip: frame %d is %dx%dx%d, expected %dx%dx%d", i,
					f.Width, f.Height, f.Components, src[0].Width, src[0].Height, c.pixelFormat.Components())
			}
		}
	}
	c.width, c.height = src[0].Width, src[0].Height

	duration := opts.Duration
	if duration <= 0 {
		if img != nil {
			duration = 1 / c.fps
		} else {
			duration = float64(len(src)) / c.fps
		}
	}
	if opts.EndTime > 0 {
		c.endTime = opts.EndTime
	} else {
		c.endTime = c.startTime + duration
	}
	if err := c.validateTiming(); err != nil {
		return nil, err
	}
	c.source = staticSource(src)
	if img != nil && !isOpaque(img) && frames.AlphaIndex(c.pixelFormat) >= 0 {
		c.maskFromAlpha = true
	}

	return &ImageClip{Clip: c, Path: opts.Path}, nil
}
