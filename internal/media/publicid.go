package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var imageExt = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp)$`)

// DerivePublicID recovers a store identifier from a URL for records that were
// saved without one: the last path segment, query and fragment removed,
// extension stripped. Only image URLs are accepted.
func DerivePublicID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrNoPublicID
	}
	segment := path.Base(u.Path)
	if segment == "." || segment == "/" || !imageExt.MatchString(segment) {
		return "", ErrNoPublicID
	}
	id := strings.TrimSuffix(segment, path.Ext(segment))
	if id == "" {
		return "", ErrNoPublicID
	}
	return id, nil
}
