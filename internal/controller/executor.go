// File: internal/controller/executor.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/browser"
	"github.com/pagelens/pagelens/internal/resolution"
)

// scrollStep is the vertical distance of one scroll action, slightly under a
// typical viewport height so consecutive scrolls overlap.
const scrollStep = 720

// Executor applies resolved actions to a live session. Element-bound actions
// resolve their selector immediately before acting; handles are never cached
// across actions.
type Executor struct {
	resolver *resolution.Resolver
	logger   *zap.Logger
}

// NewExecutor wires an executor to a resolver.
func NewExecutor(resolver *resolution.Resolver, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{resolver: resolver, logger: logger.Named("executor")}
}

// Execute runs one resolved action and reports the uniform outcome. Driver
// errors become failed results; pipeline-defect errors (no selectors, no
// matching rule) propagate as errors.
func (e *Executor) Execute(ctx context.Context, session browser.Session, action *ResolvedAction) (*browser.ExecutionResult, error) {
	start := time.Now()
	page := session.ActivePage()

	var (
		data string
		err  error
	)
	switch action.Kind {
	case KindClick, KindFill, KindCheck, KindSelectOption:
		err = e.executeElementAction(ctx, page, action)
	case KindGoto:
		err = page.Goto(ctx, action.Value)
	case KindGotoNewTab:
		_, err = session.NewPage(ctx, action.Value)
	case KindGoBack:
		err = page.GoBack(ctx)
	case KindGoForward:
		err = page.GoForward(ctx)
	case KindReload:
		err = page.Reload(ctx)
	case KindPressKey:
		err = page.PressKey(ctx, action.Value)
	case KindScrollUp:
		err = page.ScrollBy(ctx, -scrollStep)
	case KindScrollDown:
		err = page.ScrollBy(ctx, scrollStep)
	case KindSwitchTab:
		err = session.SwitchTab(action.TabIndex)
	case KindWait:
		err = waitFor(ctx, time.Duration(action.WaitMillis)*time.Millisecond)
	case KindScrape:
		data, err = e.scrape(ctx, page)
	case KindCompletion:
		data = action.Value
	default:
		return nil, fmt.Errorf("unknown action kind %q", action.Kind)
	}

	result := &browser.ExecutionResult{
		Success:  err == nil,
		ActionID: actionID(action),
		URL:      page.URL(),
		Duration: time.Since(start),
		Data:     data,
	}
	if err != nil {
		result.Message = classifyFailure(err)
		e.logger.Warn("action failed",
			zap.String("kind", string(action.Kind)),
			zap.String("action_id", result.ActionID),
			zap.Error(err))
		var defect *resolution.FailedNodeResolutionError
		if errors.As(err, &defect) {
			// Internal-consistency violation, not a page condition.
			return nil, err
		}
		return result, nil
	}

	result.Message = fmt.Sprintf("%s succeeded", action.Kind)
	e.logger.Debug("action executed",
		zap.String("kind", string(action.Kind)),
		zap.String("action_id", result.ActionID),
		zap.Duration("elapsed", result.Duration))
	return result, nil
}

func (e *Executor) executeElementAction(ctx context.Context, page browser.Page, action *ResolvedAction) error {
	locator, err := e.resolver.LocateNode(ctx, page, action.Node)
	if err != nil {
		return err
	}
	switch action.Kind {
	case KindClick:
		return locator.Click(ctx)
	case KindFill:
		return locator.Fill(ctx, action.Value)
	case KindCheck:
		return locator.SetChecked(ctx, action.Checked)
	case KindSelectOption:
		return locator.SelectOption(ctx, action.Value)
	}
	return fmt.Errorf("kind %q is not element-bound", action.Kind)
}

func (e *Executor) scrape(ctx context.Context, page browser.Page) (string, error) {
	content, err := page.Content(ctx)
	if err != nil {
		return "", err
	}
	return ExtractReadableText(content)
}

func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func actionID(action *ResolvedAction) string {
	if action.Node != nil {
		return action.Node.ID
	}
	return string(action.Kind)
}

// classifyFailure folds driver errors into decision-maker friendly messages.
// Timeouts read as the element being gone: that is what they almost always
// mean after a page mutation.
func classifyFailure(err error) string {
	var invalid *resolution.InvalidLocatorRuntimeError
	if errors.As(err, &invalid) {
		return fmt.Sprintf("element %s not found on the current page, observe again", invalid.NodeID)
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return "element did not become actionable before the timeout, the page may have changed"
	}
	return err.Error()
}
