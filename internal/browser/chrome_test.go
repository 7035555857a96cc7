package browser

import (
	"context"
	"testing"
	"time"
)

func TestChromeSession_RealBrowser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	launcher := NewChromeLauncher(true)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := launcher.NewSession(ctx)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer session.Close()

	if err := session.Navigate(ctx, "https://example.com", 30*time.Second); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	_ = session.WaitQuiet(ctx, 5*time.Second)

	cookies, err := session.Cookies(ctx)
	if err != nil {
		t.Fatalf("Cookies failed: %v", err)
	}
	t.Logf("jar holds %d cookies", len(cookies))

	visible, err := session.IsVisible(ctx, "#no-such-element-on-this-page", 500*time.Millisecond)
	if err != nil {
		t.Fatalf("IsVisible failed: %v", err)
	}
	if visible {
		t.Error("expected missing element to be reported not visible")
	}
}

func TestNewChromeLauncherDefaults(t *testing.T) {
	l := NewChromeLauncher(true)
	if !l.Headless {
		t.Error("expected headless default")
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("invalid default viewport %dx%d", l.Width, l.Height)
	}
}
