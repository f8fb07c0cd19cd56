package urlnorm

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when the input is not a parseable absolute URL.
var ErrInvalidURL = errors.New("invalid URL format")

// Normalize canonicalizes a page URL into scheme://host/path. The query
// string and fragment are dropped so every variant of a page maps to the
// same comment group. Client and server share this exact policy; the
// output is the sharding key for comments and must never diverge between
// the two sides.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidURL
	}
	if !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.Scheme + "://" + strings.ToLower(u.Host) + u.Path, nil
}
