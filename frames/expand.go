package frames

import (
	"github.com/bcc-code/bcc-media-clips/common"
)

// Expand picks needed items out of src starting at start, applying behavior
// when src runs out. ENFORCE_LIMIT fails without returning anything,
// LOOP_FRAMES wraps around src and PAD fills the rest with pad().
func Expand[T any](src []T, start, needed int, behavior common.Behavior, pad func() T) ([]T, error) {
	if start < 0 || needed < 0 {
		return nil, common.Rangef("invalid window start %d, length %d", start, needed)
	}

	n := len(src)
	if start+needed <= n {
		out := make([]T, needed)
		copy(out, src[start:start+needed])
		return out, nil
	}

	switch behavior {
	case common.LoopFrames:
		if n == 0 {
			return nil, common.Rangef("cannot loop an empty source into %d frames", needed)
		}
		out := make([]T, needed)
		for i := range out {
			out[i] = src[(start+i)%n]
		}
		return out, nil
	case common.Pad:
		out := make([]T, 0, needed)
		if start < n {
			out = append(out, src[start:]...)
		}
		for len(out) < needed {
			out = append(out, pad())
		}
		return out, nil
	default:
		return nil, common.Rangef("requested frames [%d, %d) but the source only has %d", start, start+needed, n)
	}
}
