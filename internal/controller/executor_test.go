// File: internal/controller/executor_test.go
package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/dom"
	"github.com/pagelens/pagelens/internal/resolution"
)

// -- Fakes --

type recordedCall struct {
	method string
	arg    string
}

type fakeLocator struct {
	count int
	err   error
	calls *[]recordedCall
}

func (f *fakeLocator) record(method, arg string) {
	if f.calls != nil {
		*f.calls = append(*f.calls, recordedCall{method, arg})
	}
}

func (f *fakeLocator) Count(context.Context) (int, error) { return f.count, nil }
func (f *fakeLocator) Click(context.Context) error        { f.record("click", ""); return f.err }
func (f *fakeLocator) Fill(_ context.Context, v string) error {
	f.record("fill", v)
	return f.err
}
func (f *fakeLocator) SetChecked(_ context.Context, checked bool) error {
	if checked {
		f.record("check", "true")
	} else {
		f.record("check", "false")
	}
	return f.err
}
func (f *fakeLocator) SelectOption(_ context.Context, v string) error {
	f.record("select", v)
	return f.err
}
func (f *fakeLocator) Press(_ context.Context, k string) error { f.record("press", k); return f.err }
func (f *fakeLocator) InnerText(context.Context) (string, error) {
	return "", nil
}

type fakePage struct {
	locators map[string]*fakeLocator
	calls    []recordedCall
	content  string
}

func (f *fakePage) Locator(selector string) browser.Locator {
	if loc, ok := f.locators[selector]; ok {
		return loc
	}
	return &fakeLocator{count: 0}
}
func (f *fakePage) FrameLocator(string) browser.Scope { return f }
func (f *fakePage) URL() string                       { return "https://example.com" }
func (f *fakePage) Title(context.Context) (string, error) {
	return "Example", nil
}
func (f *fakePage) Goto(_ context.Context, url string) error {
	f.calls = append(f.calls, recordedCall{"goto", url})
	return nil
}
func (f *fakePage) GoBack(context.Context) error {
	f.calls = append(f.calls, recordedCall{"back", ""})
	return nil
}
func (f *fakePage) GoForward(context.Context) error {
	f.calls = append(f.calls, recordedCall{"forward", ""})
	return nil
}
func (f *fakePage) Reload(context.Context) error {
	f.calls = append(f.calls, recordedCall{"reload", ""})
	return nil
}
func (f *fakePage) PressKey(_ context.Context, key string) error {
	f.calls = append(f.calls, recordedCall{"press", key})
	return nil
}
func (f *fakePage) ScrollBy(_ context.Context, delta int) error {
	if delta < 0 {
		f.calls = append(f.calls, recordedCall{"scroll", "up"})
	} else {
		f.calls = append(f.calls, recordedCall{"scroll", "down"})
	}
	return nil
}
func (f *fakePage) Content(context.Context) (string, error)   { return f.content, nil }
func (f *fakePage) Structure(context.Context) ([]byte, error) { return nil, nil }

type fakeSession struct {
	pages  []*fakePage
	active int
	opened []string
}

func (s *fakeSession) ActivePage() browser.Page { return s.pages[s.active] }
func (s *fakeSession) Pages() []browser.Page {
	out := make([]browser.Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = p
	}
	return out
}
func (s *fakeSession) NewPage(_ context.Context, url string) (browser.Page, error) {
	s.opened = append(s.opened, url)
	page := &fakePage{}
	s.pages = append(s.pages, page)
	s.active = len(s.pages) - 1
	return page, nil
}
func (s *fakeSession) SwitchTab(index int) error {
	if index < 0 || index >= len(s.pages) {
		return errors.New("index out of range")
	}
	s.active = index
	return nil
}
func (s *fakeSession) Close() error { return nil }

func locatableNode(id string) *dom.Node {
	return &dom.Node{
		ID: id, Role: dom.RoleButton, Kind: dom.KindInteraction,
		Computed: dom.Computed{Selectors: &dom.SelectorsBundle{XPath: "/html/body/button[1]"}},
	}
}

func newTestExecutor() *Executor {
	return NewExecutor(resolution.NewResolver(nil), nil)
}

// -- Tests --

func TestExecutorElementActions(t *testing.T) {
	var calls []recordedCall
	page := &fakePage{locators: map[string]*fakeLocator{
		"xpath=/html/body/button[1]": {count: 1, calls: &calls},
	}}
	session := &fakeSession{pages: []*fakePage{page}}
	exec := newTestExecutor()

	tests := []struct {
		action *ResolvedAction
		want   recordedCall
	}{
		{&ResolvedAction{Kind: KindClick, Node: locatableNode("B1")}, recordedCall{"click", ""}},
		{&ResolvedAction{Kind: KindFill, Node: locatableNode("I1"), Value: "Ada"}, recordedCall{"fill", "Ada"}},
		{&ResolvedAction{Kind: KindCheck, Node: locatableNode("B2"), Checked: true}, recordedCall{"check", "true"}},
		{&ResolvedAction{Kind: KindSelectOption, Node: locatableNode("I2"), Value: "fr"}, recordedCall{"select", "fr"}},
	}
	for _, tc := range tests {
		calls = calls[:0]
		result, err := exec.Execute(context.Background(), session, tc.action)
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.Len(t, calls, 1)
		assert.Equal(t, tc.want, calls[0])
	}
}

func TestExecutorBrowserActions(t *testing.T) {
	page := &fakePage{}
	session := &fakeSession{pages: []*fakePage{page, {}}}
	exec := newTestExecutor()

	run := func(a *ResolvedAction) *browser.ExecutionResult {
		t.Helper()
		result, err := exec.Execute(context.Background(), session, a)
		require.NoError(t, err)
		require.True(t, result.Success, result.Message)
		return result
	}

	run(&ResolvedAction{Kind: KindGoto, Value: "https://example.com/next"})
	run(&ResolvedAction{Kind: KindGoBack})
	run(&ResolvedAction{Kind: KindReload})
	run(&ResolvedAction{Kind: KindPressKey, Value: "Enter"})
	run(&ResolvedAction{Kind: KindScrollDown})
	assert.Equal(t, []recordedCall{
		{"goto", "https://example.com/next"}, {"back", ""}, {"reload", ""},
		{"press", "Enter"}, {"scroll", "down"},
	}, page.calls)

	run(&ResolvedAction{Kind: KindSwitchTab, TabIndex: 1})
	assert.Equal(t, 1, session.active)

	run(&ResolvedAction{Kind: KindGotoNewTab, Value: "https://example.com/tab"})
	assert.Equal(t, []string{"https://example.com/tab"}, session.opened)
	assert.Equal(t, 2, session.active)
}

func TestExecutorWaitHonorsContext(t *testing.T) {
	session := &fakeSession{pages: []*fakePage{{}}}
	exec := newTestExecutor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	result, err := exec.Execute(ctx, session, &ResolvedAction{Kind: KindWait, WaitMillis: 5000})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestExecutorScrape(t *testing.T) {
	page := &fakePage{content: `<html><head><style>p{}</style></head><body>
		<h1>Prices</h1><p>Coffee <b>3.50</b></p><script>track()</script></body></html>`}
	session := &fakeSession{pages: []*fakePage{page}}

	result, err := newTestExecutor().Execute(context.Background(), session, &ResolvedAction{Kind: KindScrape})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, result.Data, "Prices")
	assert.Contains(t, result.Data, "Coffee 3.50")
	assert.NotContains(t, result.Data, "track()")
	assert.NotContains(t, result.Data, "p{}")
}

func TestExecutorCompletionReturnsAnswer(t *testing.T) {
	session := &fakeSession{pages: []*fakePage{{}}}
	result, err := newTestExecutor().Execute(context.Background(), session,
		&ResolvedAction{Kind: KindCompletion, Value: "the total is 12.99"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "the total is 12.99", result.Data)
}

func TestExecutorUnresolvableElementIsAFailedResult(t *testing.T) {
	// The node's selector matches nothing: a page condition, not a defect.
	session := &fakeSession{pages: []*fakePage{{locators: map[string]*fakeLocator{}}}}
	result, err := newTestExecutor().Execute(context.Background(), session,
		&ResolvedAction{Kind: KindClick, Node: locatableNode("B1")})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "B1")
}

func TestExecutorMissingSelectorsIsADefect(t *testing.T) {
	session := &fakeSession{pages: []*fakePage{{}}}
	node := &dom.Node{ID: "B1", Role: dom.RoleButton, Kind: dom.KindInteraction}
	_, err := newTestExecutor().Execute(context.Background(), session,
		&ResolvedAction{Kind: KindClick, Node: node})
	var defect *resolution.FailedNodeResolutionError
	require.ErrorAs(t, err, &defect)
}
