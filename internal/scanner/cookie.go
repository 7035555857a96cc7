// Package scanner implements the two-phase cookie consent scan: snapshot the
// cookie jar before consent, trigger the "accept all" control, snapshot again
// and report the cookies that only appeared after consent.
package scanner

import "time"

// Stage labels the phase a cookie record was captured in.
type Stage string

const (
	StagePreConsent  Stage = "pre-consent"
	StagePostConsent Stage = "post-consent"
	StageAddedAfter  Stage = "added_after_consent"
)

// CookieRecord is one captured cookie instance at one stage. Identity is the
// (name, domain, path) triple; value and flags never participate in equality.
type CookieRecord struct {
	URL        string `json:"url"`
	Stage      Stage  `json:"stage"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Path       string `json:"path"`
	Secure     bool   `json:"secure"`
	HTTPOnly   bool   `json:"httpOnly"`
	SameSite   string `json:"sameSite"`
	ExpiresISO string `json:"expiresIso"`
	FirstParty bool   `json:"firstParty"`
}

// Key returns the identity key used for diffing.
func (c CookieRecord) Key() string {
	return c.Name + "|" + c.Domain + "|" + c.Path
}

// ScanResult is the immutable output of one scan.
type ScanResult struct {
	URL             string         `json:"url"`
	StartedAt       time.Time      `json:"started_at"`
	CompletedAt     time.Time      `json:"completed_at"`
	ConsentAccepted bool           `json:"consent_accepted"`
	ConsentMatcher  string         `json:"consent_matcher,omitempty"`
	Pre             []CookieRecord `json:"pre"`
	Post            []CookieRecord `json:"post"`
	Diff            []CookieRecord `json:"diff"`
}
