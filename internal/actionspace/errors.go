// File: internal/actionspace/errors.go
package actionspace

import "fmt"

// NotEnoughActionsListedError reports that incremental tagging could not
// reach the required coverage within its retry budget. It is a reportable
// defect, never silently degraded into a truncated space.
type NotEnoughActionsListedError struct {
	Trials     int
	TotalNodes int
	Threshold  float64
}

func (e *NotEnoughActionsListedError) Error() string {
	return fmt.Sprintf("action tagging missed the %.0f%% coverage threshold over %d nodes after %d trials",
		e.Threshold*100, e.TotalNodes, e.Trials)
}
