// File: internal/dom/csspath.go
package dom

import (
	"fmt"
	"regexp"
	"strings"
)

// xpathStepRe matches one structural xpath step, e.g. "div" or "div[3]".
var xpathStepRe = regexp.MustCompile(`^([a-zA-Z][\w-]*)(?:\[(\d+)\])?$`)

// stableLeafAttrs are the attributes worth embedding in a css path, in
// priority order. Volatile attributes (class soup, style) are deliberately
// not used: they churn between snapshots and break cross-pass comparison.
var stableLeafAttrs = []string{"id", "data-testid", "name", "aria-label", "placeholder", "type", "role"}

// BuildCSSPath synthesizes a css path for an element from its structural
// xpath and attribute map. When a stable id attribute is present the path is
// anchored there; otherwise the whole xpath chain is translated into
// tag:nth-of-type steps, which keeps the path unique for siblings sharing a
// tag signature.
func BuildCSSPath(tagName, xpath string, attrs map[string]string) string {
	if id := attrs["id"]; id != "" && !strings.ContainsAny(id, " \t") {
		return fmt.Sprintf("%s#%s", tagName, cssEscape(id))
	}

	steps := strings.Split(strings.Trim(xpath, "/"), "/")
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		if step == "" {
			continue
		}
		m := xpathStepRe.FindStringSubmatch(step)
		if m == nil {
			// Non-structural step (id() anchor or similar): restart the
			// chain from here, the prefix is already unique.
			parts = parts[:0]
			continue
		}
		tag := strings.ToLower(m[1])
		if m[2] != "" && m[2] != "1" {
			parts = append(parts, fmt.Sprintf("%s:nth-of-type(%s)", tag, m[2]))
		} else {
			parts = append(parts, tag)
		}
	}

	qualifier := ""
	for _, key := range stableLeafAttrs[1:] { // id handled above
		if v := attrs[key]; v != "" && len(v) < 64 && !strings.Contains(v, `"`) {
			qualifier = fmt.Sprintf(`[%s="%s"]`, key, v)
			break
		}
	}
	if len(parts) == 0 {
		return tagName + qualifier
	}
	// Keep the disambiguating index even when a qualifier is present.
	last := parts[len(parts)-1]
	suffix := ""
	if i := strings.Index(last, ":nth-of-type"); i >= 0 {
		suffix = last[i:]
	}
	parts[len(parts)-1] = tagName + qualifier + suffix
	return strings.Join(parts, " > ")
}

// cssEscape escapes the characters that commonly appear in machine-generated
// ids and would otherwise terminate a css identifier.
func cssEscape(s string) string {
	replacer := strings.NewReplacer(":", "\\:", ".", "\\.", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)")
	return replacer.Replace(s)
}
