package scanner

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/khanhnv2901/cscan-cli/internal/browser"
)

// fakeSession scripts the browser capability: cookie jars are served in
// order, one per Cookies call, and visibility/click outcomes come from maps.
type fakeSession struct {
	jars      [][]*network.Cookie
	jarIdx    int
	visible   map[string]bool
	clickErrs map[string]error

	navErr error

	navigated []string
	clicked   []string
	closed    bool
}

func (f *fakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeSession) WaitQuiet(ctx context.Context, timeout time.Duration) error { return nil }

func (f *fakeSession) Sleep(ctx context.Context, d time.Duration) error { return nil }

func (f *fakeSession) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	if f.jarIdx >= len(f.jars) {
		return nil, nil
	}
	jar := f.jars[f.jarIdx]
	f.jarIdx++
	return jar, nil
}

func (f *fakeSession) IsVisible(ctx context.Context, query string, timeout time.Duration) (bool, error) {
	return f.visible[query], nil
}

func (f *fakeSession) Click(ctx context.Context, query string, timeout time.Duration) error {
	f.clicked = append(f.clicked, query)
	if err, ok := f.clickErrs[query]; ok {
		return err
	}
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

// fakeLauncher hands out a prepared session, or fails launching.
type fakeLauncher struct {
	session   *fakeSession
	launchErr error
	launches  int
}

func (f *fakeLauncher) NewSession(ctx context.Context) (browser.Session, error) {
	f.launches++
	if f.launchErr != nil {
		return nil, f.launchErr
	}
	return f.session, nil
}

var errClickBlocked = errors.New("element obscured by overlay")

func rawCookie(name, domain, path string) *network.Cookie {
	return &network.Cookie{
		Name:    name,
		Domain:  domain,
		Path:    path,
		Expires: -1,
	}
}
