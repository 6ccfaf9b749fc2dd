package syntax

import (
	"fmt"
	"regexp"
	"strings"
)

// Represents a syntaxtually valid DID identifier.
//
// Always use [ParseDID] instead of wrapping strings directly, especially
// when working with input.
//
// The method-specific identifier charset excludes ':', so a valid DID can
// never end with a colon.
type DID string

// Go's regexp rejects repeat counts above 1000, so the 1-to-2048 identifier
// length is expressed as three consecutive bounded repeats.
var didRegex = regexp.MustCompile(`^did:[a-z]+:[a-zA-Z0-9._%-]{1,1000}[a-zA-Z0-9._%-]{0,1000}[a-zA-Z0-9._%-]{0,48}$`)

func ParseDID(raw string) (DID, error) {
	if raw == "" {
		return "", fmt.Errorf("expected DID, got empty string")
	}
	if len(raw) > 2*1024+64 {
		return "", fmt.Errorf("DID is too long (2048 char identifier max)")
	}
	if !didRegex.MatchString(raw) {
		return "", fmt.Errorf("DID syntax didn't validate via regex")
	}
	return DID(raw), nil
}

// The "method" part of the DID, between the 'did:' prefix and the final
// identifier segment, normalized to lower-case.
func (d DID) Method() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) < 2 {
		// this should be impossible; return empty to avoid out-of-bounds
		return ""
	}
	return strings.ToLower(parts[1])
}

// The final "identifier" segment of the DID
func (d DID) Identifier() string {
	parts := strings.SplitN(string(d), ":", 3)
	if len(parts) < 3 {
		// this should be impossible; return empty to avoid out-of-bounds
		return ""
	}
	return parts[2]
}

func (d DID) AtIdentifier() AtIdentifier {
	return AtIdentifier(d)
}

func (d DID) String() string {
	return string(d)
}

func (d DID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DID) UnmarshalText(text []byte) error {
	did, err := ParseDID(string(text))
	if err != nil {
		return err
	}
	*d = did
	return nil
}
