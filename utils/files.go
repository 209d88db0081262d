package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var alphanumericalRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

var imageExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".bmp",
	".tif",
	".tiff",
	".webp",
}

var fontExtensions = []string{
	".ttf",
	".otf",
}

// IsImageFile reports whether path can be decoded in-process.
func IsImageFile(path string) bool {
	return lo.Contains(imageExtensions, strings.ToLower(filepath.Ext(path)))
}

func IsFontFile(path string) bool {
	return lo.Contains(fontExtensions, strings.ToLower(filepath.Ext(path)))
}

// ValidName reports whether name can be used to reference a clip in a script.
func ValidName(name string) bool {
	return alphanumericalRegex.MatchString(name)
}

// ConfinedPath resolves path against root and fails when the result is outside root.
// Relative paths are taken from root.
func ConfinedPath(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside %s", path, root)
	}
	return full, nil
}
