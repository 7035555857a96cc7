package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// quietWindow is the sliding window of network silence WaitQuiet requires
// before it considers the page settled.
const quietWindow = 500 * time.Millisecond

// ChromeLauncher starts one headless Chrome process per session. Separate
// processes mean concurrent scans share no cookie jar or page state.
type ChromeLauncher struct {
	Headless bool
	Width    int
	Height   int
}

// NewChromeLauncher returns a launcher with the default viewport.
func NewChromeLauncher(headless bool) *ChromeLauncher {
	return &ChromeLauncher{Headless: headless, Width: 1366, Height: 900}
}

// NewSession spawns a fresh browser process and attaches a tab to it.
func (l *ChromeLauncher) NewSession(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(l.Width, l.Height),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &chromeSession{
		ctx:         tabCtx,
		cancelTab:   tabCancel,
		cancelAlloc: allocCancel,
		inflight:    make(map[network.RequestID]struct{}),
		lastEvent:   time.Now(),
	}

	chromedp.ListenTarget(tabCtx, s.trackNetwork)

	// Starting the browser and enabling the network domain happens on the
	// first Run; a failure here means Chrome could not be acquired.
	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	return s, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc

	mu        sync.Mutex
	inflight  map[network.RequestID]struct{}
	lastEvent time.Time
}

func (s *chromeSession) trackNetwork(ev interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		s.inflight[e.RequestID] = struct{}{}
		s.lastEvent = time.Now()
	case *network.EventLoadingFinished:
		delete(s.inflight, e.RequestID)
		s.lastEvent = time.Now()
	case *network.EventLoadingFailed:
		delete(s.inflight, e.RequestID)
		s.lastEvent = time.Now()
	}
}

// run executes actions against the session, bounded by timeout when positive.
func (s *chromeSession) run(parent context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := parent.Err(); err != nil {
		return err
	}
	ctx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, actions...)
}

// Navigate loads url and returns once the DOM content event fires. Waiting
// for the full load event would also wait on slow subresources, which the
// scan's fixed settle windows already account for.
func (s *chromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		domReady := make(chan struct{}, 1)
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			if _, ok := ev.(*page.EventDomContentEventFired); ok {
				select {
				case domReady <- struct{}{}:
				default:
				}
			}
		})

		_, _, errText, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return errors.New(errText)
		}

		select {
		case <-domReady:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}))
}

// WaitQuiet polls until no request has been in flight and no network event
// has fired for quietWindow, or until timeout elapses.
func (s *chromeSession) WaitQuiet(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mu.Lock()
		quiet := len(s.inflight) == 0 && time.Since(s.lastEvent) >= quietWindow
		s.mu.Unlock()
		if quiet {
			return nil
		}
		if time.Now().After(deadline) {
			return context.DeadlineExceeded
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return s.ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *chromeSession) Sleep(ctx context.Context, d time.Duration) error {
	return s.run(ctx, 0, chromedp.Sleep(d))
}

func (s *chromeSession) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := s.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("reading cookie jar: %w", err)
	}
	return cookies, nil
}

// IsVisible uses chromedp's search query (CSS, XPath or plain text) so a
// single matcher list can mix selector styles. A timeout means "not visible",
// not an error.
func (s *chromeSession) IsVisible(ctx context.Context, query string, timeout time.Duration) (bool, error) {
	err := s.run(ctx, timeout, chromedp.WaitVisible(query, chromedp.BySearch))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, context.DeadlineExceeded):
		return false, nil
	default:
		return false, err
	}
}

func (s *chromeSession) Click(ctx context.Context, query string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.Click(query, chromedp.BySearch))
}

func (s *chromeSession) Close() error {
	s.cancelTab()
	s.cancelAlloc()
	return nil
}
