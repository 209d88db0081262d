package common

// VideoInput describes raw frames piped into the video tool.
type VideoInput struct {
	Width       int
	Height      int
	FrameRate   float64
	PixelFormat PixelFormat
	Frames      []byte
}

// AudioInput describes interleaved signed 16 bit little endian samples.
type AudioInput struct {
	Channels   int
	SampleRate int
	Samples    []byte
}

type VideoEncodeInput struct {
	Video           VideoInput
	AudioPath       string
	Codec           string
	AudioCodec      string
	OutputPixFmt    string
	Preset          string
	DestinationPath string
}

type AudioEncodeInput struct {
	Audio           AudioInput
	Codec           string
	DestinationPath string
}

type ImageEncodeInput struct {
	Video           VideoInput
	DestinationPath string
}

type EncodeResult struct {
	OutputPath string
}
