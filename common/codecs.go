package common

import (
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	CodecH264   = "libx264"
	CodecTheora = "libtheora"
	CodecVP9    = "libvpx-vp9"
	CodecMP3    = "libmp3lame"
	CodecVorbis = "libvorbis"
	CodecPCM16  = "pcm_s16le"
	CodecPCM24  = "pcm_s24le"
	CodecPCM32  = "pcm_s32le"
	CodecAAC    = "aac"
	CodecFDKAAC = "libfdk_aac"
)

// VideoCodecs lists the codecs accepted per container extension, the first one being the default.
var VideoCodecs = map[string][]string{
	"mp4":  {CodecH264},
	"mkv":  {CodecH264},
	"ogv":  {CodecTheora},
	"webm": {CodecVP9},
}

var AudioCodecs = map[string][]string{
	"mp3": {CodecMP3},
	"ogg": {CodecVorbis},
	"wav": {CodecPCM16, CodecPCM24, CodecPCM32},
	"m4a": {CodecAAC, CodecFDKAAC},
}

// Audio codecs that can ride along in a video container.
var videoContainerAudio = map[string]string{
	"mp4":  CodecAAC,
	"mkv":  CodecAAC,
	"ogv":  CodecVorbis,
	"webm": CodecVorbis,
}

func Extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func VideoExtensions() mapset.Set[string] {
	s := mapset.NewSet[string]()
	for k := range VideoCodecs {
		s.Add(k)
	}
	return s
}

func AudioExtensions() mapset.Set[string] {
	s := mapset.NewSet[string]()
	for k := range AudioCodecs {
		s.Add(k)
	}
	return s
}

// VideoCodecFor returns the codec used to write path. An empty codec picks the default for the extension.
func VideoCodecFor(path, codec string) (string, error) {
	return pickCodec(VideoCodecs, "video", path, codec)
}

func AudioCodecFor(path, codec string) (string, error) {
	return pickCodec(AudioCodecs, "audio", path, codec)
}

// VideoAudioCodecFor returns the audio codec muxed into a video container.
func VideoAudioCodecFor(path string) (string, error) {
	ext := Extension(path)
	codec, ok := videoContainerAudio[ext]
	if !ok {
		return "", Configurationf("unsupported video file extension %q", ext)
	}
	return codec, nil
}

func pickCodec(table map[string][]string, kind, path, codec string) (string, error) {
	ext := Extension(path)
	codecs, ok := table[ext]
	if !ok {
		return "", Configurationf("unsupported %s file extension %q", kind, ext)
	}
	if codec == "" {
		return codecs[0], nil
	}
	if !mapset.NewSet(codecs...).Contains(codec) {
		return "", Configurationf("codec %q is not supported for %s files", codec, ext)
	}
	return codec, nil
}
