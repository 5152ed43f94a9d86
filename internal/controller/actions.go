// File: internal/controller/actions.go

// Package controller maps chosen action identifiers onto concrete browser
// operations and executes them. The mapping step (the proxy) is pure; the
// live selector resolution and the driver calls happen only at execution
// time, because the page may have mutated since the space was built.
package controller

import (
	"github.com/pagelens/pagelens/internal/dom"
)

// ActionKind names the concrete operation a resolved action performs.
type ActionKind string

const (
	KindClick        ActionKind = "click"
	KindFill         ActionKind = "fill"
	KindCheck        ActionKind = "check"
	KindSelectOption ActionKind = "select_option"

	KindGoto       ActionKind = "goto"
	KindGotoNewTab ActionKind = "goto_new_tab"
	KindGoBack     ActionKind = "go_back"
	KindGoForward  ActionKind = "go_forward"
	KindReload     ActionKind = "reload"
	KindPressKey   ActionKind = "press_key"
	KindScrollUp   ActionKind = "scroll_up"
	KindScrollDown ActionKind = "scroll_down"
	KindWait       ActionKind = "wait"
	KindSwitchTab  ActionKind = "switch_tab"
	KindScrape     ActionKind = "scrape"
	KindCompletion ActionKind = "completion"
)

// AbstractAction is what comes back across the decision-maker boundary: a
// chosen identifier plus an optional typed value.
type AbstractAction struct {
	ID    string  `json:"id"`
	Value *string `json:"value,omitempty"`
}

// ResolvedAction is the concrete operation derived from an AbstractAction.
// Node is set for element-bound kinds and nil for browser-level ones.
type ResolvedAction struct {
	Kind ActionKind
	Node *dom.Node

	// Value carries the fill text, option value, url, key or answer,
	// depending on Kind.
	Value string
	// Checked is the parsed boolean for KindCheck.
	Checked bool
	// WaitMillis is the duration for KindWait.
	WaitMillis int
	// TabIndex is the target for KindSwitchTab.
	TabIndex int
}
