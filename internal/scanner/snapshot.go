package scanner

import (
	"context"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/khanhnv2901/cscan-cli/internal/browser"
)

// Capture reads every cookie visible to the session and normalizes it into
// records for the given stage. The full jar is captured, not just cookies
// scoped to the page origin; third parties are what we are here to see.
func Capture(ctx context.Context, s browser.Session, pageURL string, stage Stage) ([]CookieRecord, error) {
	host := hostOf(pageURL)

	raw, err := s.Cookies(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]CookieRecord, 0, len(raw))
	for _, c := range raw {
		records = append(records, CookieRecord{
			URL:        pageURL,
			Stage:      stage,
			Name:       c.Name,
			Domain:     c.Domain,
			Path:       c.Path,
			Secure:     c.Secure,
			HTTPOnly:   c.HTTPOnly,
			SameSite:   string(c.SameSite),
			ExpiresISO: expiresISO(c.Expires),
			FirstParty: isFirstParty(c.Domain, host),
		})
	}
	return records, nil
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// isFirstParty reports whether a cookie domain belongs to the navigated host:
// no domain at all, an exact match, or a parent suffix (host is a subdomain
// of the cookie domain). A single leading dot is stripped before comparison.
func isFirstParty(domain, host string) bool {
	if domain == "" {
		return true
	}
	d := strings.ToLower(strings.TrimPrefix(domain, "."))
	if d == host {
		return true
	}
	return strings.HasSuffix(host, "."+d)
}

// expiresISO formats an epoch-seconds expiry as RFC 3339 UTC. Absent, zero or
// negative expiries (session cookies report -1 over CDP) map to the empty
// string; the two cases are indistinguishable on purpose.
func expiresISO(epoch float64) string {
	if math.IsNaN(epoch) || math.IsInf(epoch, 0) || epoch <= 0 {
		return ""
	}
	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec).UTC()
	if t.Year() > 9999 {
		return ""
	}
	return t.Format(time.RFC3339)
}
