package identity

import (
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

var numericHostRegex = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// SafeURL validates that a URL is appropriate for an outbound request to
// infrastructure discovered at runtime: PDS hosts, authorization servers,
// metadata documents. These URLs come from DNS, DID documents, and
// metadata bodies which an attacker may influence, so requests are
// restricted to HTTPS against public hostnames. Loopback, private, and
// link-local addresses are rejected, as are localhost and common internal
// hostname suffixes.
//
// Failures wrap [ErrInvalidInput].
func SafeURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: unparseable URL: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("%w: non-HTTPS URL: %s", ErrInvalidInput, raw)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: URL without hostname: %s", ErrInvalidInput, raw)
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
			return fmt.Errorf("%w: non-routable address in URL: %s", ErrInvalidInput, raw)
		}
	} else if numericHostRegex.MatchString(host) {
		// all-numeric hostname that isn't a well-formed IP literal, eg
		// an octal form like 0177.0.0.1
		return fmt.Errorf("%w: malformed IP literal in URL: %s", ErrInvalidInput, raw)
	}

	if host == "localhost" || strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("%w: internal hostname in URL: %s", ErrInvalidInput, raw)
	}
	return nil
}
