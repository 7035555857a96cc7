package scanner

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/cscan-cli/internal/browser"
	consts "github.com/khanhnv2901/cscan-cli/internal/shared/constants"
	scanerrors "github.com/khanhnv2901/cscan-cli/internal/shared/errors"
)

// Policy carries the timing budgets of one scan. The fixed settle windows are
// a deliberate compatibility default: asynchronous tag managers get a fixed
// grace period after each navigation step, on top of the bounded best-effort
// network quiescence wait.
type Policy struct {
	NavigationTimeout time.Duration
	QuiesceTimeout    time.Duration
	PreConsentSettle  time.Duration
	PostConsentSettle time.Duration
}

// DefaultPolicy returns the standard timing budgets.
func DefaultPolicy() Policy {
	return Policy{
		NavigationTimeout: consts.NavigationTimeout,
		QuiesceTimeout:    consts.QuiesceTimeout,
		PreConsentSettle:  consts.PreConsentSettle,
		PostConsentSettle: consts.PostConsentSettle,
	}
}

// ScanError wraps any fatal scan failure with the target it occurred on.
type ScanError struct {
	URL string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan of %s failed: %v", e.URL, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// Scanner runs the two-phase consent scan pipeline. Each call acquires its
// own isolated browser session, so concurrent scans share no state and need
// no locking.
type Scanner struct {
	Launcher browser.Launcher
	Resolver *Resolver
	Policy   Policy
	Logger   *zap.SugaredLogger
}

// New returns a scanner with the default policy and resolver.
func New(launcher browser.Launcher, logger *zap.SugaredLogger) *Scanner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scanner{
		Launcher: launcher,
		Resolver: NewResolver(logger),
		Policy:   DefaultPolicy(),
		Logger:   logger,
	}
}

// ValidateTarget checks that target is a well-formed absolute http or https
// URL. Performed before any browser work so malformed input never costs a
// browser process.
func ValidateTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", scanerrors.ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", scanerrors.ErrInvalidURL, target)
	}
	return nil
}

// Scan visits target twice around a consent acceptance attempt and reports
// the cookies that only appeared after consent. All-or-nothing: on any fatal
// error no partial result is returned, and the session is torn down on every
// exit path.
func (s *Scanner) Scan(ctx context.Context, target string) (*ScanResult, error) {
	if err := ValidateTarget(target); err != nil {
		return nil, &ScanError{URL: target, Err: err}
	}

	started := time.Now().UTC()
	s.Logger.Infow("scan started", "url", target)

	session, err := s.Launcher.NewSession(ctx)
	if err != nil {
		return nil, &ScanError{URL: target, Err: fmt.Errorf("%w: %v", scanerrors.ErrBrowserLaunch, err)}
	}
	defer session.Close()

	result, err := s.run(ctx, session, target)
	if err != nil {
		return nil, &ScanError{URL: target, Err: err}
	}

	result.StartedAt = started
	result.CompletedAt = time.Now().UTC()
	s.Logger.Infow("scan completed",
		"url", target,
		"pre", len(result.Pre),
		"post", len(result.Post),
		"added", len(result.Diff),
		"consent_accepted", result.ConsentAccepted,
	)
	return result, nil
}

func (s *Scanner) run(ctx context.Context, session browser.Session, target string) (*ScanResult, error) {
	if err := session.Navigate(ctx, target, s.Policy.NavigationTimeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", scanerrors.ErrNavigationTimeout, s.Policy.NavigationTimeout)
		}
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	s.settle(ctx, session, s.Policy.PreConsentSettle)

	pre, err := Capture(ctx, session, target, StagePreConsent)
	if err != nil {
		return nil, fmt.Errorf("pre-consent snapshot: %w", err)
	}

	matcher, accepted := s.Resolver.TryAccept(ctx, session)
	if !accepted {
		s.Logger.Infow("no consent control found", "url", target)
	}

	s.settle(ctx, session, s.Policy.PostConsentSettle)

	post, err := Capture(ctx, session, target, StagePostConsent)
	if err != nil {
		return nil, fmt.Errorf("post-consent snapshot: %w", err)
	}

	return &ScanResult{
		URL:             target,
		ConsentAccepted: accepted,
		ConsentMatcher:  matcher,
		Pre:             pre,
		Post:            post,
		Diff:            Diff(pre, post),
	}, nil
}

// settle waits for network quiescence (best effort, never fatal) and then
// the fixed settle window.
func (s *Scanner) settle(ctx context.Context, session browser.Session, window time.Duration) {
	if err := session.WaitQuiet(ctx, s.Policy.QuiesceTimeout); err != nil {
		s.Logger.Debugf("quiescence wait ended early: %v", err)
	}
	_ = session.Sleep(ctx, window)
}
