package scanner

import (
	"context"
	"math"
	"testing"

	"github.com/chromedp/cdproto/network"
)

func TestIsFirstParty(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		host   string
		want   bool
	}{
		{"no domain attribute", "", "example.com", true},
		{"exact match", "example.com", "example.com", true},
		{"leading dot stripped", ".example.com", "example.com", true},
		{"parent suffix", ".example.com", "shop.example.com", true},
		{"third party cdn", "other-cdn.net", "example.com", false},
		{"suffix but not subdomain", "ample.com", "example.com", false},
		{"case insensitive", ".Example.COM", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFirstParty(tt.domain, tt.host); got != tt.want {
				t.Errorf("isFirstParty(%q, %q) = %v, want %v", tt.domain, tt.host, got, tt.want)
			}
			// Classification must be deterministic.
			if again := isFirstParty(tt.domain, tt.host); again != tt.want {
				t.Errorf("isFirstParty(%q, %q) not stable across calls", tt.domain, tt.host)
			}
		})
	}
}

func TestExpiresISO(t *testing.T) {
	tests := []struct {
		name  string
		epoch float64
		want  string
	}{
		{"session cookie", -1, ""},
		{"zero", 0, ""},
		{"negative", -1234567, ""},
		{"positive epoch", 1767225600, "2026-01-01T00:00:00Z"},
		{"absurdly far future", 1e18, ""},
		{"not a number", math.NaN(), ""},
		{"positive infinity", math.Inf(1), ""},
		{"negative infinity", math.Inf(-1), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expiresISO(tt.epoch); got != tt.want {
				t.Errorf("expiresISO(%v) = %q, want %q", tt.epoch, got, tt.want)
			}
		})
	}
}

func TestCaptureNormalizesJar(t *testing.T) {
	session := &fakeSession{
		jars: [][]*network.Cookie{{
			{Name: "sid", Domain: ".example.com", Path: "/", Secure: true, HTTPOnly: true, SameSite: network.CookieSameSiteLax, Expires: 1767225600},
			{Name: "track", Domain: "other-cdn.net", Path: "/", Expires: -1},
		}},
	}

	records, err := Capture(context.Background(), session, "https://example.com/page", StagePreConsent)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	sid := records[0]
	if !sid.FirstParty {
		t.Errorf("expected .example.com cookie to be first-party on example.com")
	}
	if sid.Stage != StagePreConsent {
		t.Errorf("expected stage %s, got %s", StagePreConsent, sid.Stage)
	}
	if sid.URL != "https://example.com/page" {
		t.Errorf("unexpected url %q", sid.URL)
	}
	if sid.SameSite != "Lax" {
		t.Errorf("expected SameSite Lax, got %q", sid.SameSite)
	}
	if sid.ExpiresISO != "2026-01-01T00:00:00Z" {
		t.Errorf("unexpected expiry %q", sid.ExpiresISO)
	}

	track := records[1]
	if track.FirstParty {
		t.Errorf("expected other-cdn.net cookie to be third-party on example.com")
	}
	if track.ExpiresISO != "" {
		t.Errorf("session cookie must have empty expiry, got %q", track.ExpiresISO)
	}
}
