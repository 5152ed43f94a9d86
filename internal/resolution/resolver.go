// File: internal/resolution/resolver.go

// Package resolution turns snapshot nodes back into live element handles. It
// owns the selector strategy ordering, shadow boundary composition and iframe
// scoping rules.
package resolution

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/dom"
)

// Resolver maps identified nodes to unique live locators.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a resolver. A nil logger falls back to zap.NewNop.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger.Named("resolution")}
}

// ResolveSelectors returns the selector bundle to use for a node. For shadow
// DOM descendants the recorded per-boundary selectors are composed into
// boundary-crossing strategies; everything else passes through unchanged.
func (r *Resolver) ResolveSelectors(node *dom.Node) (*dom.SelectorsBundle, error) {
	if node == nil || node.Computed.Selectors == nil {
		id := ""
		if node != nil {
			id = node.ID
		}
		return nil, &FailedNodeResolutionError{NodeID: id}
	}
	if node.Computed.Selectors.InShadowRoot {
		return SelectorsThroughShadowDOM(node), nil
	}
	return node.Computed.Selectors, nil
}

// SelectorsThroughShadowDOM composes a boundary-crossing selector for a node
// inside one or more shadow roots. Walking up from the node, every ancestor
// hosting a shadow root contributes one segment; each inner segment's xpath
// is stripped of its host's xpath prefix so segments stay relative to their
// own boundary, and segments are joined outermost first with " >> ".
func SelectorsThroughShadowDOM(node *dom.Node) *dom.SelectorsBundle {
	base := node.Computed.Selectors

	// Innermost first: the node itself, then each enclosing shadow host.
	bundles := []*dom.SelectorsBundle{base}
	for cur := node.Parent; cur != nil; cur = cur.Parent {
		if cur.Attrs != nil && cur.Attrs.ShadowRoot && cur.Computed.Selectors != nil {
			bundles = append(bundles, cur.Computed.Selectors)
		}
	}

	xpathParts := make([]string, 0, len(bundles))
	cssParts := make([]string, 0, len(bundles))
	for i := len(bundles) - 1; i >= 0; i-- {
		xp := bundles[i].XPath
		if i < len(bundles)-1 {
			// The host one level out recorded the prefix up to its boundary.
			if host := bundles[i+1].XPath; host != "" && strings.HasPrefix(xp, host) {
				xp = strings.TrimPrefix(xp, host)
			}
		}
		xpathParts = append(xpathParts, "xpath="+xp)
		cssParts = append(cssParts, bundles[i].CSSPath)
	}

	return &dom.SelectorsBundle{
		XPath:           strings.Join(xpathParts, " >> "),
		CSSPath:         strings.Join(cssParts, " >> "),
		Playwright:      base.Playwright,
		PagePath:        base.PagePath,
		InIframe:        base.InIframe,
		IframeParentCSS: base.IframeParentCSS,
		InShadowRoot:    true,
	}
}

// Locate evaluates the bundle's strategies against the page and returns the
// first one matching exactly one element. Iframe ancestry is honored by
// narrowing the scope through each recorded frame selector before trying
// anything. Ambiguous strategies are logged and skipped rather than trusted.
func (r *Resolver) Locate(ctx context.Context, page browser.Page, nodeID string, sel *dom.SelectorsBundle) (browser.Locator, error) {
	if sel == nil {
		return nil, &FailedNodeResolutionError{NodeID: nodeID}
	}

	var scope browser.Scope = page
	for _, frameSel := range sel.IframeParentCSS {
		scope = scope.FrameLocator(frameSel)
	}

	strategies := sel.Strategies()
	for _, strategy := range strategies {
		locator := scope.Locator(strategy)
		count, err := locator.Count(ctx)
		if err != nil {
			r.logger.Debug("strategy evaluation failed",
				zap.String("node_id", nodeID),
				zap.String("strategy", strategy),
				zap.Error(err))
			continue
		}
		switch {
		case count == 1:
			return locator, nil
		case count > 1:
			r.logger.Debug("strategy is ambiguous, skipping",
				zap.String("node_id", nodeID),
				zap.String("strategy", strategy),
				zap.Int("matches", count))
		}
	}

	return nil, &InvalidLocatorRuntimeError{NodeID: nodeID, URL: page.URL(), Strategies: strategies}
}

// LocateNode is the common path: resolve the node's bundle, then locate it.
func (r *Resolver) LocateNode(ctx context.Context, page browser.Page, node *dom.Node) (browser.Locator, error) {
	sel, err := r.ResolveSelectors(node)
	if err != nil {
		return nil, err
	}
	return r.Locate(ctx, page, node.ID, sel)
}
