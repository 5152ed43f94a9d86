// File: internal/browser/snapshotter.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Snapshotter captures page structure without keeping a session alive. It
// spins up a headless instance per batch, which suits one-shot capture jobs
// where the interactive session machinery would be overhead.
type Snapshotter struct {
	opts   Options
	logger *zap.Logger
}

// NewSnapshotter builds a one-shot capturer with the given session options.
func NewSnapshotter(opts Options, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = DefaultOptions().DefaultTimeout
	}
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		def := DefaultOptions()
		opts.ViewportWidth, opts.ViewportHeight = def.ViewportWidth, def.ViewportHeight
	}
	return &Snapshotter{opts: opts, logger: logger.Named("snapshotter")}
}

// CapturedPage is the outcome of one capture: the raw structure payload plus
// the page facts needed to normalize it.
type CapturedPage struct {
	URL       string
	Title     string
	Structure []byte
	Elapsed   time.Duration
}

// Capture navigates to the url, waits for the document to settle and runs the
// extraction script. Each call uses its own browser context, so concurrent
// captures do not share state.
func (s *Snapshotter) Capture(ctx context.Context, url string) (*CapturedPage, error) {
	start := time.Now()

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if !s.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if s.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(s.opts.UserAgent))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, s.opts.DefaultTimeout)
	defer cancelRun()

	var payload, title string
	err := chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(
			int64(s.opts.ViewportWidth), int64(s.opts.ViewportHeight), 1, false),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Title(&title),
		chromedp.Evaluate(domTreeScript, &payload),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing %s: %w", url, err)
	}

	elapsed := time.Since(start)
	s.logger.Debug("page captured",
		zap.String("url", url),
		zap.Int("payload_bytes", len(payload)),
		zap.Duration("elapsed", elapsed))

	return &CapturedPage{URL: url, Title: title, Structure: []byte(payload), Elapsed: elapsed}, nil
}
