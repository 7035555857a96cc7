package scanner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/cscan-cli/internal/browser"
	consts "github.com/khanhnv2901/cscan-cli/internal/shared/constants"
)

// Matcher is one consent-control strategy: a query that should locate an
// "accept all" control for a known consent platform. Queries may be CSS
// selectors, XPath expressions or plain button text.
type Matcher struct {
	Name  string
	Query string
}

// DefaultMatchers is the built-in priority list. Order matters: platform
// selectors first (they are precise), localized button texts last.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: "onetrust", Query: "#onetrust-accept-btn-handler"},
		{Name: "usercentrics", Query: `[data-testid="uc-accept-all-button"]`},
		{Name: "cookiebot", Query: "#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll"},
		{Name: "cookieyes", Query: ".cky-btn-accept"},
		{Name: "accept-all-en", Query: `//button[contains(translate(., 'ACEPTL', 'aceptl'), 'accept all')]`},
		{Name: "accept-all-da", Query: `//button[contains(., 'Accepter alle')]`},
		{Name: "allow-all-da", Query: `//button[contains(., 'Tillad alle')]`},
	}
}

// Resolver tries an ordered list of matchers until one locates a visible
// consent control. It never fails the scan; every internal error is swallowed.
type Resolver struct {
	Matchers       []Matcher
	VisibleTimeout time.Duration
	ClickTimeout   time.Duration
	PostClickDelay time.Duration
	Logger         *zap.SugaredLogger
}

// NewResolver returns a resolver with the default matcher list and budgets.
func NewResolver(logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{
		Matchers:       DefaultMatchers(),
		VisibleTimeout: consts.ConsentVisibleTimeout,
		ClickTimeout:   consts.ConsentClickTimeout,
		PostClickDelay: consts.ConsentPostClickDelay,
		Logger:         logger,
	}
}

// TryAccept walks the matcher list in priority order and activates the first
// control that becomes visible. The first visible match wins: even if the
// click itself fails (overlay, detached node), the resolver reports the
// control as found and stops trying further matchers. Returns the winning
// matcher's name and whether any control was found.
func (r *Resolver) TryAccept(ctx context.Context, s browser.Session) (string, bool) {
	for _, m := range r.Matchers {
		visible, err := s.IsVisible(ctx, m.Query, r.VisibleTimeout)
		if err != nil {
			r.Logger.Debugf("consent matcher %s: visibility probe failed: %v", m.Name, err)
			continue
		}
		if !visible {
			continue
		}

		if err := s.Click(ctx, m.Query, r.ClickTimeout); err != nil {
			r.Logger.Debugf("consent matcher %s: click failed: %v", m.Name, err)
		} else {
			r.Logger.Infof("consent accepted via matcher %s", m.Name)
		}

		_ = s.Sleep(ctx, r.PostClickDelay)
		return m.Name, true
	}
	return "", false
}
