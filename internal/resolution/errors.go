// File: internal/resolution/errors.go
package resolution

import "fmt"

// InvalidLocatorRuntimeError reports that no recorded selector strategy
// resolved to exactly one live element. The page has usually mutated since
// the snapshot; the remedy is a fresh observation, not a retry.
type InvalidLocatorRuntimeError struct {
	NodeID     string
	URL        string
	Strategies []string
}

func (e *InvalidLocatorRuntimeError) Error() string {
	return fmt.Sprintf("no selector strategy resolved node %s uniquely on %q (%d tried)",
		e.NodeID, e.URL, len(e.Strategies))
}

// FailedNodeResolutionError reports a node that carries no selector bundle at
// all. Snapshots always record selectors for identified nodes, so hitting
// this means the snapshot and the action id went out of sync.
type FailedNodeResolutionError struct {
	NodeID string
}

func (e *FailedNodeResolutionError) Error() string {
	return fmt.Sprintf("node %s has no recorded selectors", e.NodeID)
}
