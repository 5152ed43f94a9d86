// File: internal/browser/driver.go
package browser

import (
	"context"
	"time"
)

// Locator is a lazy handle to the elements matched by one selector inside one
// scope. Nothing touches the page until a method is called, so building a
// locator for a selector that matches nothing is not an error.
type Locator interface {
	// Count returns how many live elements the selector currently matches.
	Count(ctx context.Context) (int, error)
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	SetChecked(ctx context.Context, checked bool) error
	SelectOption(ctx context.Context, value string) error
	Press(ctx context.Context, key string) error
	// InnerText returns the rendered text of the first match.
	InnerText(ctx context.Context) (string, error)
}

// Scope is anything a selector can be evaluated against: a page, or the
// content document of an iframe entered through FrameLocator. Frame scoping
// nests, one level per ancestor iframe.
type Scope interface {
	Locator(selector string) Locator
	FrameLocator(selector string) Scope
}

// Page is one open tab.
type Page interface {
	Scope

	URL() string
	Title(ctx context.Context) (string, error)
	Goto(ctx context.Context, url string) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	Reload(ctx context.Context) error
	PressKey(ctx context.Context, key string) error
	// ScrollBy scrolls the viewport vertically by the given pixel delta.
	// Negative values scroll up.
	ScrollBy(ctx context.Context, deltaY int) error
	// Content returns the page's current HTML.
	Content(ctx context.Context) (string, error)
	// Structure runs the in-page extraction script and returns its raw JSON
	// payload (the flattened node dump).
	Structure(ctx context.Context) ([]byte, error)
}

// Session is one live browser with its set of tabs. The active tab is where
// resolution and execution happen; SwitchTab changes it.
type Session interface {
	ActivePage() Page
	Pages() []Page
	NewPage(ctx context.Context, url string) (Page, error)
	SwitchTab(index int) error
	Close() error
}

// ExecutionResult is the uniform outcome of one resolved action.
type ExecutionResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	ActionID string        `json:"action_id,omitempty"`
	URL      string        `json:"url,omitempty"`
	Duration time.Duration `json:"duration"`
	// Data carries operation output for actions that produce one, such as
	// scraped page content.
	Data string `json:"data,omitempty"`
}
