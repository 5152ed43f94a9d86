// File: internal/browser/embed.go
package browser

import _ "embed"

// domTreeScript is the in-page extraction script shared by every driver. Both
// adapters evaluate it verbatim and hand the JSON payload to the normalizer.
//
//go:embed domtree.js
var domTreeScript string

// DomTreeScript exposes the script for drivers living outside this package.
func DomTreeScript() string { return domTreeScript }
