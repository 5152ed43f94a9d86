// File: internal/session/session.go

// Package session ties the pipeline together: observe a page into a
// normalized snapshot, derive its action space, and execute chosen actions.
// One session manipulates one browser sequentially; there is no concurrent
// mutation of a snapshot.
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/actionspace"
	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/controller"
	"github.com/pagelens/pagelens/internal/dom"
)

// Observation is the outcome of one observe cycle.
type Observation struct {
	Snapshot *dom.Snapshot
	Space    *actionspace.ActionSpace
}

// Session drives the observe/act loop against one browser. The previous
// action list is threaded into each build so incremental tagging only pays
// for what changed.
type Session struct {
	driver     browser.Session
	normalizer *dom.Normalizer
	builder    actionspace.Builder
	proxy      controller.Proxy
	executor   *controller.Executor
	pagination actionspace.Pagination
	logger     *zap.Logger

	snapshot *dom.Snapshot
	previous []actionspace.PerceivedAction
	lastURL  string
}

// New assembles a session over a live browser.
func New(driver browser.Session, builder actionspace.Builder, executor *controller.Executor,
	pagination actionspace.Pagination, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		driver:     driver,
		normalizer: dom.NewNormalizer(logger),
		builder:    builder,
		executor:   executor,
		pagination: pagination,
		logger:     logger.Named("session"),
	}
}

// Goto navigates the active tab. The next observation starts from a clean
// incremental baseline.
func (s *Session) Goto(ctx context.Context, url string) error {
	if err := s.driver.ActivePage().Goto(ctx, url); err != nil {
		return err
	}
	s.resetBaseline()
	return nil
}

// Observe captures, normalizes and tags the current page. Returning to the
// same URL reuses the previous actions as the incremental baseline; a URL
// change resets it, because identifiers never carry across pages.
func (s *Session) Observe(ctx context.Context) (*Observation, error) {
	page := s.driver.ActivePage()
	if page.URL() != s.lastURL {
		s.resetBaseline()
	}

	payload, err := page.Structure(ctx)
	if err != nil {
		return nil, fmt.Errorf("capturing page structure: %w", err)
	}
	dump, err := dom.DecodeRawDump(payload)
	if err != nil {
		return nil, err
	}
	title, err := page.Title(ctx)
	if err != nil {
		title = ""
	}

	snap, err := s.normalizer.Normalize(page.URL(), title, dump)
	if err != nil {
		return nil, err
	}
	space, err := s.builder.Build(ctx, snap, s.previous, s.pagination)
	if err != nil {
		return nil, err
	}

	s.snapshot = snap
	s.previous = space.Actions
	s.lastURL = page.URL()
	s.logger.Info("page observed",
		zap.String("url", page.URL()),
		zap.Int("actions", len(space.Actions)))
	return &Observation{Snapshot: snap, Space: space}, nil
}

// Execute maps the chosen action against the last snapshot and applies it.
// Navigating kinds clear the incremental baseline.
func (s *Session) Execute(ctx context.Context, action controller.AbstractAction) (*browser.ExecutionResult, error) {
	if s.snapshot == nil && actionspace.RoleFromID(action.ID) != actionspace.RoleSpecial {
		return nil, fmt.Errorf("no observation yet, observe before acting")
	}
	resolved, err := s.proxy.Resolve(action, s.snapshot)
	if err != nil {
		return nil, err
	}
	result, err := s.executor.Execute(ctx, s.driver, resolved)
	if err != nil {
		return nil, err
	}
	if navigates(resolved.Kind) {
		s.resetBaseline()
	}
	return result, nil
}

// Close shuts the underlying browser down.
func (s *Session) Close() error { return s.driver.Close() }

func (s *Session) resetBaseline() {
	s.snapshot = nil
	s.previous = nil
	s.lastURL = ""
}

// navigates reports whether an action kind invalidates the page identity.
func navigates(kind controller.ActionKind) bool {
	switch kind {
	case controller.KindGoto, controller.KindGotoNewTab, controller.KindGoBack,
		controller.KindGoForward, controller.KindReload, controller.KindSwitchTab:
		return true
	}
	return false
}
