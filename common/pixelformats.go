package common

import (
	"encoding/json"
	"strings"

	"github.com/orsinium-labs/enum"
)

// PixelFormat is an ffmpeg pixel format name.
type PixelFormat enum.Member[string]

type pixelFormatInfo struct {
	Components   int
	BitsPerPixel int
	// Packed formats store one byte per component, interleaved, and can back a frame buffer.
	Packed bool
	Alpha  bool
}

var (
	RGB24    = PixelFormat{Value: "rgb24"}
	BGR24    = PixelFormat{Value: "bgr24"}
	RGBA     = PixelFormat{Value: "rgba"}
	BGRA     = PixelFormat{Value: "bgra"}
	ARGB     = PixelFormat{Value: "argb"}
	ABGR     = PixelFormat{Value: "abgr"}
	Gray     = PixelFormat{Value: "gray"}
	Gray16LE = PixelFormat{Value: "gray16le"}
	YUV420P  = PixelFormat{Value: "yuv420p"}
	YUV422P  = PixelFormat{Value: "yuv422p"}
	YUV444P  = PixelFormat{Value: "yuv444p"}
	YUV410P  = PixelFormat{Value: "yuv410p"}
	YUV411P  = PixelFormat{Value: "yuv411p"}
	YUYV422  = PixelFormat{Value: "yuyv422"}
	YUVJ420P = PixelFormat{Value: "yuvj420p"}
	YUVJ422P = PixelFormat{Value: "yuvj422p"}
	YUVJ444P = PixelFormat{Value: "yuvj444p"}
	YUVA420P = PixelFormat{Value: "yuva420p"}
	MonoW    = PixelFormat{Value: "monow"}
	MonoB    = PixelFormat{Value: "monob"}
	Pal8     = PixelFormat{Value: "pal8"}

	PixelFormats = enum.New(
		RGB24, BGR24, RGBA, BGRA, ARGB, ABGR, Gray, Gray16LE,
		YUV420P, YUV422P, YUV444P, YUV410P, YUV411P, YUYV422,
		YUVJ420P, YUVJ422P, YUVJ444P, YUVA420P, MonoW, MonoB, Pal8,
	)
)

var pixelFormatTable = map[PixelFormat]pixelFormatInfo{
	RGB24:    {Components: 3, BitsPerPixel: 24, Packed: true},
	BGR24:    {Components: 3, BitsPerPixel: 24, Packed: true},
	RGBA:     {Components: 4, BitsPerPixel: 32, Packed: true, Alpha: true},
	BGRA:     {Components: 4, BitsPerPixel: 32, Packed: true, Alpha: true},
	ARGB:     {Components: 4, BitsPerPixel: 32, Packed: true, Alpha: true},
	ABGR:     {Components: 4, BitsPerPixel: 32, Packed: true, Alpha: true},
	Gray:     {Components: 1, BitsPerPixel: 8, Packed: true},
	Gray16LE: {Components: 1, BitsPerPixel: 16},
	YUV420P:  {Components: 3, BitsPerPixel: 12},
	YUV422P:  {Components: 3, BitsPerPixel: 16},
	YUV444P:  {Components: 3, BitsPerPixel: 24},
	YUV410P:  {Components: 3, BitsPerPixel: 9},
	YUV411P:  {Components: 3, BitsPerPixel: 12},
	YUYV422:  {Components: 3, BitsPerPixel: 16},
	YUVJ420P: {Components: 3, BitsPerPixel: 12},
	YUVJ422P: {Components: 3, BitsPerPixel: 16},
	YUVJ444P: {Components: 3, BitsPerPixel: 24},
	YUVA420P: {Components: 4, BitsPerPixel: 20, Alpha: true},
	MonoW:    {Components: 1, BitsPerPixel: 1},
	MonoB:    {Components: 1, BitsPerPixel: 1},
	Pal8:     {Components: 1, BitsPerPixel: 8},
}

// ParsePixelFormat accepts any known ffmpeg pixel format.
func ParsePixelFormat(name string) (PixelFormat, error) {
	p := PixelFormats.Parse(strings.ToLower(strings.TrimSpace(name)))
	if p == nil {
		return PixelFormat{}, Configurationf("unsupported pixel format %q", name)
	}
	return *p, nil
}

// ParseFramePixelFormat only accepts formats a clip can hold in memory.
func ParseFramePixelFormat(name string) (PixelFormat, error) {
	p, err := ParsePixelFormat(name)
	if err != nil {
		return PixelFormat{}, err
	}
	if !p.Packed() {
		return PixelFormat{}, Configurationf("pixel format %q cannot back a frame buffer", name)
	}
	return p, nil
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) String() string {
	return p.Value
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) Components() int {
	return pixelFormatTable[p].Components
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) BitsPerPixel() int {
	return pixelFormatTable[p].BitsPerPixel
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) Packed() bool {
	return pixelFormatTable[p].Packed
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) HasAlpha() bool {
	return pixelFormatTable[p].Alpha
}

//goland:noinspection GoMixedReceiverTypes
func (p PixelFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

//goland:noinspection GoMixedReceiverTypes
func (p *PixelFormat) UnmarshalJSON(value []byte) error {
	var stringValue string
	err := json.Unmarshal(value, &stringValue)
	if err != nil {
		return err
	}
	parsed, err := ParsePixelFormat(stringValue)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PixelFormatRow is a flat description of one entry, used for listings.
type PixelFormatRow struct {
	Name         string `json:"name" csv:"name"`
	Components   int    `json:"components" csv:"components"`
	BitsPerPixel int    `json:"bitsPerPixel" csv:"bits_per_pixel"`
	Packed       bool   `json:"packed" csv:"packed"`
	Alpha        bool   `json:"alpha" csv:"alpha"`
}

func PixelFormatRows() []PixelFormatRow {
	var rows []PixelFormatRow
	for _, p := range PixelFormats.Members() {
		info := pixelFormatTable[p]
		rows = append(rows, PixelFormatRow{
			Name:         p.Value,
			Components:   info.Components,
			BitsPerPixel: info.BitsPerPixel,
			Packed:       info.Packed,
			Alpha:        info.Alpha,
		})
	}
	return rows
}
