// Package browser abstracts the automated-browser capability the scan
// pipeline drives. The core never talks to Chrome directly; it only sees
// these interfaces, so tests can substitute a scripted session.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
)

// Session is a single isolated browsing context (its own process and cookie
// jar). Sessions are not safe for concurrent use; each scan owns exactly one.
type Session interface {
	// Navigate loads url and waits for initial DOM construction, bounded by timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// WaitQuiet blocks until network activity has settled or timeout elapses.
	// Callers treat a timeout as non-fatal.
	WaitQuiet(ctx context.Context, timeout time.Duration) error

	// Sleep pauses inside the browsing context for the given duration.
	Sleep(ctx context.Context, d time.Duration) error

	// Cookies returns every cookie currently visible to the session,
	// unfiltered by origin.
	Cookies(ctx context.Context) ([]*network.Cookie, error)

	// IsVisible reports whether the first element matching query becomes
	// visible within timeout. query may be a CSS selector, an XPath
	// expression, or plain text.
	IsVisible(ctx context.Context, query string, timeout time.Duration) (bool, error)

	// Click activates the first element matching query, bounded by timeout.
	Click(ctx context.Context, query string, timeout time.Duration) error

	// Close tears the session down and releases the underlying browser
	// process. Safe to call multiple times.
	Close() error
}

// Launcher produces isolated sessions.
type Launcher interface {
	NewSession(ctx context.Context) (Session, error)
}
