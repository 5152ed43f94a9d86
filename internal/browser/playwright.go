// File: internal/browser/playwright.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Options configures a live browser session.
type Options struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	// DefaultTimeout bounds driver calls that get no deadline from ctx.
	DefaultTimeout time.Duration
}

// DefaultOptions are the session settings used when the config carries none.
func DefaultOptions() Options {
	return Options{
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 1080,
		DefaultTimeout: 10 * time.Second,
	}
}

// PlaywrightSession drives a Chromium instance through the playwright
// protocol. It implements Session.
type PlaywrightSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    Options
	logger  *zap.Logger

	pages  []*playwrightPage
	active int
}

// NewPlaywrightSession launches a browser and opens one blank tab.
func NewPlaywrightSession(opts Options, logger *zap.Logger) (*PlaywrightSession, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultOptions().DefaultTimeout
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}
	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		ctxOpts.Viewport = &playwright.Size{Width: opts.ViewportWidth, Height: opts.ViewportHeight}
	}
	bctx, err := b.NewContext(ctxOpts)
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	s := &PlaywrightSession{pw: pw, browser: b, context: bctx, opts: opts, logger: logger.Named("browser")}
	page, err := bctx.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening initial tab: %w", err)
	}
	s.pages = []*playwrightPage{{page: page, opts: opts}}
	return s, nil
}

func (s *PlaywrightSession) ActivePage() Page { return s.pages[s.active] }

func (s *PlaywrightSession) Pages() []Page {
	out := make([]Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = p
	}
	return out
}

// NewPage opens a fresh tab, makes it active and optionally navigates it.
func (s *PlaywrightSession) NewPage(ctx context.Context, url string) (Page, error) {
	raw, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	p := &playwrightPage{page: raw, opts: s.opts}
	s.pages = append(s.pages, p)
	s.active = len(s.pages) - 1
	if url != "" {
		if err := p.Goto(ctx, url); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *PlaywrightSession) SwitchTab(index int) error {
	if index < 0 || index >= len(s.pages) {
		return fmt.Errorf("tab index %d out of range, %d tabs open", index, len(s.pages))
	}
	s.active = index
	return nil
}

func (s *PlaywrightSession) Close() error {
	var first error
	if s.context != nil {
		if err := s.context.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && first == nil {
			first = err
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// -- Page adapter --

type playwrightPage struct {
	page playwright.Page
	opts Options
}

func (p *playwrightPage) timeout(ctx context.Context) *float64 {
	d := p.opts.DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d {
			d = remaining
		}
	}
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *playwrightPage) URL() string { return p.page.URL() }

func (p *playwrightPage) Title(context.Context) (string, error) { return p.page.Title() }

func (p *playwrightPage) Goto(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   p.timeout(ctx),
	})
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (p *playwrightPage) GoBack(ctx context.Context) error {
	_, err := p.page.GoBack(playwright.PageGoBackOptions{Timeout: p.timeout(ctx)})
	return err
}

func (p *playwrightPage) GoForward(ctx context.Context) error {
	_, err := p.page.GoForward(playwright.PageGoForwardOptions{Timeout: p.timeout(ctx)})
	return err
}

func (p *playwrightPage) Reload(ctx context.Context) error {
	_, err := p.page.Reload(playwright.PageReloadOptions{Timeout: p.timeout(ctx)})
	return err
}

func (p *playwrightPage) PressKey(_ context.Context, key string) error {
	return p.page.Keyboard().Press(key)
}

func (p *playwrightPage) ScrollBy(_ context.Context, deltaY int) error {
	return p.page.Mouse().Wheel(0, float64(deltaY))
}

func (p *playwrightPage) Content(context.Context) (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Structure(context.Context) ([]byte, error) {
	raw, err := p.page.Evaluate(domTreeScript)
	if err != nil {
		return nil, fmt.Errorf("evaluating extraction script: %w", err)
	}
	payload, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("extraction script returned %T, expected string", raw)
	}
	return []byte(payload), nil
}

func (p *playwrightPage) Locator(selector string) Locator {
	return &playwrightLocator{locator: p.page.Locator(selector), page: p}
}

func (p *playwrightPage) FrameLocator(selector string) Scope {
	return &playwrightFrameScope{frame: p.page.FrameLocator(selector), page: p}
}

// playwrightFrameScope scopes selector evaluation to an iframe's content
// document. Nested frames chain naturally.
type playwrightFrameScope struct {
	frame playwright.FrameLocator
	page  *playwrightPage
}

func (f *playwrightFrameScope) Locator(selector string) Locator {
	return &playwrightLocator{locator: f.frame.Locator(selector), page: f.page}
}

func (f *playwrightFrameScope) FrameLocator(selector string) Scope {
	return &playwrightFrameScope{frame: f.frame.FrameLocator(selector), page: f.page}
}

// -- Locator adapter --

type playwrightLocator struct {
	locator playwright.Locator
	page    *playwrightPage
}

func (l *playwrightLocator) Count(context.Context) (int, error) {
	return l.locator.Count()
}

func (l *playwrightLocator) Click(ctx context.Context) error {
	return l.locator.Click(playwright.LocatorClickOptions{Timeout: l.page.timeout(ctx)})
}

func (l *playwrightLocator) Fill(ctx context.Context, value string) error {
	return l.locator.Fill(value, playwright.LocatorFillOptions{Timeout: l.page.timeout(ctx)})
}

func (l *playwrightLocator) SetChecked(ctx context.Context, checked bool) error {
	return l.locator.SetChecked(checked, playwright.LocatorSetCheckedOptions{Timeout: l.page.timeout(ctx)})
}

func (l *playwrightLocator) SelectOption(ctx context.Context, value string) error {
	_, err := l.locator.SelectOption(playwright.SelectOptionValues{
		ValuesOrLabels: &[]string{value},
	}, playwright.LocatorSelectOptionOptions{Timeout: l.page.timeout(ctx)})
	return err
}

func (l *playwrightLocator) Press(ctx context.Context, key string) error {
	return l.locator.Press(key, playwright.LocatorPressOptions{Timeout: l.page.timeout(ctx)})
}

func (l *playwrightLocator) InnerText(ctx context.Context) (string, error) {
	return l.locator.InnerText(playwright.LocatorInnerTextOptions{Timeout: l.page.timeout(ctx)})
}
