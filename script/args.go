package script

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ansel1/merry/v2"
	"github.com/bcc-code/bcc-media-clips/clip"
	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/bcc-code/bcc-media-clips/utils"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// args reads typed attribute values. The first conversion error is kept
// and every later read returns the zero value.
type args struct {
	tag    string
	values map[string]string
	used   mapset.Set[string]
	err    error
	// root confines file paths when set.
	root string
}

func newArgs(e Element, root string) *args {
	a := &args{
		root:   root,
		tag:    e.Tag(),
		values: map[string]string{},
		used:   mapset.NewThreadUnsafeSet[string](),
	}
	for _, attr := range e.Attrs {
		a.values[attr.Name.Local] = attr.Value
	}
	return a
}

func (a *args) lookup(key string) (string, bool) {
	a.used.Add(key)
	v, ok := a.values[key]
	return strings.TrimSpace(v), ok && a.err == nil
}

func (a *args) fail(key, value, want string) {
	if a.err == nil {
		a.err = common.Configurationf("<%s>: attribute %s=%q is not %s", a.tag, key, value, want)
	}
}

func (a *args) has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// unused lists attributes nothing asked for.
func (a *args) unused() []string {
	return lo.Filter(lo.Keys(a.values), func(k string, _ int) bool {
		return !a.used.Contains(k)
	})
}

func (a *args) Err() error {
	return a.err
}

func (a *args) String(key string) string {
	v, _ := a.lookup(key)
	return v
}

func (a *args) Required(key string) string {
	v, ok := a.lookup(key)
	if ok && v == "" {
		ok = false
	}
	if !ok && a.err == nil {
		a.err = common.Configurationf("<%s>: attribute %s is required", a.tag, key)
	}
	return v
}

// Path reads a file path. Missing means "".
func (a *args) Path(key string) string {
	v, ok := a.lookup(key)
	if !ok || v == "" || a.root == "" {
		return v
	}
	full, err := utils.ConfinedPath(a.root, v)
	if err != nil {
		a.fail(key, v, "a path inside the work directory")
		return ""
	}
	return full
}

func (a *args) RequiredPath(key string) string {
	a.Required(key)
	return a.Path(key)
}

func (a *args) Float(key string, def float64) float64 {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		a.fail(key, v, "a number")
		return def
	}
	return f
}

// Time reads a point in time or a duration, in seconds or as a timecode.
func (a *args) Time(key string, def float64) float64 {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	t, err := utils.ParseSeconds(v)
	if err != nil {
		a.fail(key, v, "a time")
		return def
	}
	return t
}

func (a *args) Int(key string, def int) int {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		a.fail(key, v, "an integer")
		return def
	}
	return i
}

func (a *args) IntPtr(key string) *int {
	if !a.has(key) {
		a.used.Add(key)
		return nil
	}
	return lo.ToPtr(a.Int(key, 0))
}

func (a *args) TimePtr(key string) *float64 {
	if !a.has(key) {
		a.used.Add(key)
		return nil
	}
	return lo.ToPtr(a.Time(key, 0))
}

func (a *args) Bool(key string) bool {
	v, ok := a.lookup(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		a.fail(key, v, "a boolean")
		return false
	}
	return b
}

// Color accepts "r,g,b", "r,g,b,a", "#rrggbb" or "#rrggbbaa". Missing means nil.
func (a *args) Color(key string) *color.NRGBA {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	c, err := parseColor(v)
	if err != nil {
		a.fail(key, v, "a colour")
		return nil
	}
	return &c
}

func parseColor(v string) (color.NRGBA, error) {
	c := color.NRGBA{A: 255}
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return c, merry.New("bad length")
		}
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return c, err
		}
		if len(hex) == 6 {
			n = n<<8 | 0xff
		}
		c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
		return c, nil
	}

	parts := strings.Split(v, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return c, merry.New("need 3 or 4 components")
	}
	components := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return c, err
		}
		*components[i] = uint8(n)
	}
	return c, nil
}

// Rect reads "x1,y1,x2,y2".
func (a *args) Rect(key string) *clip.Rect {
	v, ok := a.lookup(key)
	if !ok {
		return nil
	}
	var r clip.Rect
	if _, err := fmt.Sscanf(v, "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		a.fail(key, v, "a rectangle x1,y1,x2,y2")
		return nil
	}
	return &r
}

// parsed reads an enum style value with parse. Missing returns the zero value.
func parsed[T any](a *args, key string, parse func(string) (T, error)) T {
	var zero T
	v, ok := a.lookup(key)
	if !ok {
		return zero
	}
	out, err := parse(v)
	if err != nil {
		if a.err == nil {
			a.err = err
		}
		return zero
	}
	return out
}

func (a *args) PixelFormat(key string) common.PixelFormat {
	return parsed(a, key, common.ParseFramePixelFormat)
}

func (a *args) Behavior(key string) common.Behavior {
	return parsed(a, key, common.ParseBehavior)
}

func (a *args) Resampling(key string) common.Resampling {
	return parsed(a, key, common.ParseResampling)
}

func (a *args) Alignment(key string) common.Alignment {
	return parsed(a, key, common.ParseAlignment)
}

// Options reads the attributes every clip kind shares.
func (a *args) Options() clip.Options {
	return clip.Options{
		StartTime:    a.Time("start_time", 0),
		EndTime:      a.Time("end_time", 0),
		FPS:          a.Float("fps", 0),
		Width:        a.Int("width", 0),
		Height:       a.Int("height", 0),
		X:            a.Int("x", 0),
		Y:            a.Int("y", 0),
		PixelFormat:  a.PixelFormat("pixel_format"),
		Behavior:     a.Behavior("behavior"),
		MaskBehavior: a.Behavior("mask_behavior"),
		PadColor:     a.Color("pad_color"),
		NoAudio:      a.Bool("no_audio"),
	}
}
