// File: internal/dom/errors.go
package dom

import "fmt"

// SnapshotProcessingError reports that the page evaluation step returned no or
// invalid structure. It is never retried inside the pipeline; re-snapshotting
// is the caller's call.
type SnapshotProcessingError struct {
	URL    string
	Reason string
}

func (e *SnapshotProcessingError) Error() string {
	return fmt.Sprintf("snapshot processing failed for %q: %s", e.URL, e.Reason)
}

// NodeFilteringResultsInEmptyGraphError reports that an exclusion filter
// removed every remaining interactive node. Surfaced rather than returning an
// empty action space, since that would be indistinguishable from a page that
// truly has no actions.
type NodeFilteringResultsInEmptyGraphError struct {
	URL       string
	Operation string
}

func (e *NodeFilteringResultsInEmptyGraphError) Error() string {
	return fmt.Sprintf("node filtering left an empty graph for %q during %s", e.URL, e.Operation)
}
