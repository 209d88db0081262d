package common

import (
	"github.com/ansel1/merry/v2"
)

var (
	// ErrConfiguration marks invalid or missing construction arguments.
	ErrConfiguration = merry.Sentinel("configuration error")
	// ErrRange marks requests beyond the available material or an invalid index.
	ErrRange = merry.Sentinel("range error")
	// ErrExternalTool marks a subprocess that exited with a non-zero status.
	ErrExternalTool = merry.Sentinel("external tool error")
)

func Configurationf(format string, args ...any) error {
	return merry.Prependf(ErrConfiguration, format, args...)
}

func Rangef(format string, args ...any) error {
	return merry.Prependf(ErrRange, format, args...)
}
