package sandbox

import (
	"path/filepath"
	"strings"
)

// FallbackImageName is used when a base name sanitizes to nothing
const FallbackImageName = "cv"

// Image is the execution image a job runs in. The tag is shared by every job
// created from the same base name, and building it overwrites the previous image.
type Image struct {
	Tag        string
	Recipe     string
	ContextDir string
}

// NewImage derives the image tag from baseName. The recipe's directory is the build context.
func NewImage(baseName, recipePath string) *Image {
	recipe := recipePath
	if abs, err := filepath.Abs(recipePath); err == nil {
		recipe = abs
	}
	return &Image{
		Tag:        SanitizeName(baseName) + ":latest",
		Recipe:     recipe,
		ContextDir: filepath.Dir(recipe),
	}
}

// SanitizeName lowercases name, replaces characters other than ASCII
// alphanumerics and "-._" with "-", and trims leading and trailing "-" and ".".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if safe := strings.Trim(b.String(), "-."); safe != "" {
		return safe
	}
	return FallbackImageName
}
