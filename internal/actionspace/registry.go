// File: internal/actionspace/registry.go
package actionspace

// Browser-level action identifiers. These are fixed: the decision-maker
// boundary addresses them by id exactly like node actions, but they exist on
// every page and never resolve to an element.
const (
	ActionGoto       = "S1"
	ActionScrape     = "S2"
	ActionGoBack     = "S3"
	ActionGoForward  = "S4"
	ActionReload     = "S5"
	ActionGotoNewTab = "S6"
	ActionSwitchTab  = "S7"
	ActionPressKey   = "S8"
	ActionScrollUp   = "S9"
	ActionScrollDown = "S10"
	ActionWait       = "S11"
	ActionCompletion = "S12"
)

// BrowserAction is one entry of the fixed browser-level set.
type BrowserAction struct {
	ID          string
	Name        string
	Description string
	// Param is the single required parameter, nil for parameterless actions.
	Param *ActionParameter
}

// browserActions is ordered by identifier; the order is part of the rendered
// listing and must stay stable.
var browserActions = []BrowserAction{
	{ID: ActionGoto, Name: "goto", Description: "Navigate the current tab to a URL",
		Param: &ActionParameter{Name: "url", Type: "string"}},
	{ID: ActionScrape, Name: "scrape", Description: "Extract the readable content of the current page"},
	{ID: ActionGoBack, Name: "go_back", Description: "Navigate back in the tab history"},
	{ID: ActionGoForward, Name: "go_forward", Description: "Navigate forward in the tab history"},
	{ID: ActionReload, Name: "reload", Description: "Reload the current page"},
	{ID: ActionGotoNewTab, Name: "goto_new_tab", Description: "Open a URL in a new tab and switch to it",
		Param: &ActionParameter{Name: "url", Type: "string"}},
	{ID: ActionSwitchTab, Name: "switch_tab", Description: "Switch to an open tab by index",
		Param: &ActionParameter{Name: "tab_index", Type: "int"}},
	{ID: ActionPressKey, Name: "press_key", Description: "Press a keyboard key (e.g. Enter, Escape)",
		Param: &ActionParameter{Name: "key", Type: "string"}},
	{ID: ActionScrollUp, Name: "scroll_up", Description: "Scroll the viewport up by one screen"},
	{ID: ActionScrollDown, Name: "scroll_down", Description: "Scroll the viewport down by one screen"},
	{ID: ActionWait, Name: "wait", Description: "Wait for the given number of milliseconds",
		Param: &ActionParameter{Name: "duration_ms", Type: "int"}},
	{ID: ActionCompletion, Name: "completion", Description: "Declare the task complete and return the answer",
		Param: &ActionParameter{Name: "answer", Type: "string"}},
}

// BrowserActions returns the fixed browser-level action set.
func BrowserActions() []BrowserAction {
	out := make([]BrowserAction, len(browserActions))
	copy(out, browserActions)
	return out
}

// BrowserActionByID looks up a browser-level action.
func BrowserActionByID(id string) (BrowserAction, bool) {
	for _, a := range browserActions {
		if a.ID == id {
			return a, true
		}
	}
	return BrowserAction{}, false
}
