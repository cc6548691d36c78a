package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImage sniffs f's content and returns its detected MIME type and extension.
func ValidateImage(f File, maxBytes int64) (string, string, error) {
	if len(f.Content) == 0 {
		return "", "", fmt.Errorf("%s: %w", f.Filename, ErrEmptyFile)
	}
	if maxBytes > 0 && int64(len(f.Content)) > maxBytes {
		return "", "", fmt.Errorf("%s: %w", f.Filename, ErrTooLarge)
	}

	m := mimetype.Detect(f.Content)
	base := strings.SplitN(m.String(), ";", 2)[0]
	if !allowedImageTypes[base] {
		return "", "", fmt.Errorf("%s (%s): %w", f.Filename, base, ErrNotImage)
	}
	return base, m.Extension(), nil
}
