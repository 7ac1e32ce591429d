// Package share encodes a pattern and an optional test string into a
// URL-safe token so a simulation can be reopened from a link.
package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// separator splits pattern and input inside the decoded payload.
// Encode refuses links holding it, so a payload has at most one.
const separator = "\x00"

var (
	// ErrInvalidToken is returned when a token cannot be decoded.
	ErrInvalidToken = errors.New("invalid share token")
	// ErrUnshareable is returned for links containing a NUL character.
	ErrUnshareable = errors.New("pattern and input must not contain NUL to be shared")
)

// Link is the shareable part of a simulation.
type Link struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Input   string `json:"input,omitempty" yaml:"input,omitempty"`
}

// Encode returns the unpadded URL-safe base64 token of l.
// A link without input encodes the pattern alone.
func Encode(l Link) (string, error) {
	if strings.Contains(l.Pattern, separator) || strings.Contains(l.Input, separator) {
		return "", ErrUnshareable
	}
	payload := l.Pattern
	if l.Input != "" {
		payload += separator + l.Input
	}
	return base64.RawURLEncoding.EncodeToString([]byte(payload)), nil
}

// Decode reverses Encode. Padded tokens are accepted too.
func Decode(token string) (Link, error) {
	token = strings.TrimRight(strings.TrimSpace(token), "=")
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !utf8.Valid(raw) {
		return Link{}, fmt.Errorf("%w: payload is not valid UTF-8", ErrInvalidToken)
	}

	if strings.Count(string(raw), separator) > 1 {
		return Link{}, fmt.Errorf("%w: payload has more than one separator", ErrInvalidToken)
	}
	pattern, input, _ := strings.Cut(string(raw), separator)
	return Link{Pattern: pattern, Input: input}, nil
}

// URL appends the token to base as the regex query parameter.
func URL(base string, l Link) (string, error) {
	token, err := Encode(l)
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "regex=" + token, nil
}
