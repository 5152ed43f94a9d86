// File: internal/controller/errors.go
package controller

import "fmt"

// InvalidActionError reports an abstract action that cannot map onto any
// concrete operation: unknown identifier, missing required parameter, or a
// role combination the proxy has no rule for.
type InvalidActionError struct {
	ActionID string
	Reason   string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %s: %s", e.ActionID, e.Reason)
}
