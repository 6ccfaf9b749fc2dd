package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var handleRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// String type which represents a syntaxtually valid handle identifier: a
// dot-separated domain name, with at least two labels.
//
// Always use [ParseHandle] instead of wrapping strings directly, especially
// when working with input.
type Handle string

func ParseHandle(raw string) (Handle, error) {
	if raw == "" {
		return "", errors.New("expected handle, got empty string")
	}
	if len(raw) > 253 {
		return "", errors.New("handle is too long (253 chars max)")
	}
	if !handleRegex.MatchString(raw) {
		return "", fmt.Errorf("handle syntax didn't validate via regex: %s", raw)
	}
	return Handle(raw), nil
}

// Domain returns the handle with its leftmost label removed. This is the
// domain against which handle resolution requests are made.
//
// The grammar guarantees at least two labels, so the result is never empty.
func (h Handle) Domain() string {
	parts := strings.SplitN(string(h), ".", 2)
	if len(parts) < 2 {
		// unreachable for a parsed handle
		return ""
	}
	return parts[1]
}

func (h Handle) TLD() string {
	parts := strings.Split(string(h.Normalize()), ".")
	return parts[len(parts)-1]
}

// Some top-level domains (TLDs) are disallowed for registration across the
// atproto ecosystem. The *syntax* is valid, but these should never resolve
// in a real-world network.
func (h Handle) AllowedTLD() bool {
	switch h.TLD() {
	case "local",
		"arpa",
		"invalid",
		"localhost",
		"internal",
		"example",
		"onion",
		"alt":
		return false
	}
	return true
}

func (h Handle) Normalize() Handle {
	return Handle(strings.ToLower(string(h)))
}

func (h Handle) AtIdentifier() AtIdentifier {
	return AtIdentifier(h)
}

func (h Handle) String() string {
	return string(h)
}

func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(text []byte) error {
	handle, err := ParseHandle(string(text))
	if err != nil {
		return err
	}
	*h = handle
	return nil
}
