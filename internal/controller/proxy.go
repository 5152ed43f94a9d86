// File: internal/controller/proxy.go
package controller

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pagelens/pagelens/internal/actionspace"
	"github.com/pagelens/pagelens/internal/dom"
)

// Proxy turns abstract actions into resolved ones. It is a pure mapping over
// the snapshot: no driver call, no side effect.
type Proxy struct{}

// Resolve dispatches on the identifier's declared role, the node's semantic
// role and the node's editable flag. Browser-level identifiers dispatch
// through the fixed registry instead of the tree.
func (Proxy) Resolve(action AbstractAction, snap *dom.Snapshot) (*ResolvedAction, error) {
	role := actionspace.RoleFromID(action.ID)
	if role == actionspace.RoleSpecial {
		return resolveBrowserAction(action)
	}
	if role == actionspace.RoleOther {
		return nil, &InvalidActionError{ActionID: action.ID, Reason: "identifier prefix encodes no known role"}
	}

	if snap == nil || snap.Root == nil {
		return nil, &InvalidActionError{ActionID: action.ID, Reason: "no snapshot to resolve against"}
	}
	node := snap.Root.Find(action.ID)
	if node == nil {
		return nil, &InvalidActionError{ActionID: action.ID, Reason: "identifier not present in the current snapshot"}
	}

	value := ""
	if action.Value != nil {
		value = *action.Value
	}

	switch {
	case role == actionspace.RoleInput && node.Role == dom.RoleTextbox,
		role == actionspace.RoleInput && node.Computed.IsEditable,
		node.Computed.IsEditable:
		if action.Value == nil {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: "fill requires a value"}
		}
		return &ResolvedAction{Kind: KindFill, Node: node, Value: value}, nil

	case role == actionspace.RoleInput && node.Role == dom.RoleCheckbox:
		checked, err := ParseBoolean(value)
		if err != nil {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: err.Error()}
		}
		return &ResolvedAction{Kind: KindCheck, Node: node, Checked: checked}, nil

	case role == actionspace.RoleInput && node.Role == dom.RoleCombobox:
		if action.Value == nil {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: "selecting an option requires a value"}
		}
		return &ResolvedAction{Kind: KindSelectOption, Node: node, Value: value}, nil

	case role == actionspace.RoleInput:
		if action.Value == nil {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: "fill requires a value"}
		}
		return &ResolvedAction{Kind: KindFill, Node: node, Value: value}, nil

	case role == actionspace.RoleButton, role == actionspace.RoleLink,
		role == actionspace.RoleImage, role == actionspace.RoleMisc:
		return &ResolvedAction{Kind: KindClick, Node: node}, nil

	case role == actionspace.RoleOption:
		if value == "" {
			// The option's own value (or its identifier) stands in when the
			// decision-maker supplies none.
			value = node.Attrs.Get("value")
			if value == "" {
				value = node.ID
			}
		}
		return &ResolvedAction{Kind: KindSelectOption, Node: node, Value: value}, nil
	}

	return nil, &InvalidActionError{
		ActionID: action.ID,
		Reason:   fmt.Sprintf("no rule for declared role %q on page role %q", role, node.Role),
	}
}

// resolveBrowserAction maps the fixed S identifiers. A missing required
// parameter is a hard error, never defaulted.
func resolveBrowserAction(action AbstractAction) (*ResolvedAction, error) {
	spec, ok := actionspace.BrowserActionByID(action.ID)
	if !ok {
		return nil, &InvalidActionError{ActionID: action.ID, Reason: "unknown browser action"}
	}
	value := ""
	if action.Value != nil {
		value = strings.TrimSpace(*action.Value)
	}
	if spec.Param != nil && value == "" {
		return nil, &InvalidActionError{
			ActionID: action.ID,
			Reason:   fmt.Sprintf("missing required parameter %q", spec.Param.Name),
		}
	}

	switch action.ID {
	case actionspace.ActionGoto:
		return &ResolvedAction{Kind: KindGoto, Value: value}, nil
	case actionspace.ActionScrape:
		return &ResolvedAction{Kind: KindScrape}, nil
	case actionspace.ActionGoBack:
		return &ResolvedAction{Kind: KindGoBack}, nil
	case actionspace.ActionGoForward:
		return &ResolvedAction{Kind: KindGoForward}, nil
	case actionspace.ActionReload:
		return &ResolvedAction{Kind: KindReload}, nil
	case actionspace.ActionGotoNewTab:
		return &ResolvedAction{Kind: KindGotoNewTab, Value: value}, nil
	case actionspace.ActionSwitchTab:
		index, err := strconv.Atoi(value)
		if err != nil {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: fmt.Sprintf("tab index %q is not an integer", value)}
		}
		return &ResolvedAction{Kind: KindSwitchTab, TabIndex: index}, nil
	case actionspace.ActionPressKey:
		return &ResolvedAction{Kind: KindPressKey, Value: value}, nil
	case actionspace.ActionScrollUp:
		return &ResolvedAction{Kind: KindScrollUp}, nil
	case actionspace.ActionScrollDown:
		return &ResolvedAction{Kind: KindScrollDown}, nil
	case actionspace.ActionWait:
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return nil, &InvalidActionError{ActionID: action.ID, Reason: fmt.Sprintf("wait duration %q is not a non-negative integer", value)}
		}
		return &ResolvedAction{Kind: KindWait, WaitMillis: ms}, nil
	case actionspace.ActionCompletion:
		return &ResolvedAction{Kind: KindCompletion, Value: value}, nil
	}
	return nil, &InvalidActionError{ActionID: action.ID, Reason: "unknown browser action"}
}

// ParseBoolean reads the checkbox value literals. Anything outside the two
// sets is an error rather than a guess.
func ParseBoolean(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("value %q is not a recognized boolean literal", s)
	}
}
