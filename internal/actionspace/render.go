// File: internal/actionspace/render.go
package actionspace

import (
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/dom"
)

// RenderTree serializes a normalized tree into the indented text form used in
// tagging prompts. Identified nodes show their id and relevant attributes;
// structural nodes that add nothing (no id, no text, one child) are collapsed
// so prompt size tracks page content rather than markup depth.
func RenderTree(root *dom.Node) string {
	var b strings.Builder
	renderNode(&b, root, 0)
	return b.String()
}

func renderNode(b *strings.Builder, n *dom.Node, depth int) {
	// Collapse pass-through containers.
	for n.ID == "" && n.Text == "" && len(n.Children) == 1 {
		n = n.Children[0]
	}

	line := nodeLine(n)
	if line != "" {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(line)
		b.WriteByte('\n')
		depth++
	}
	for _, c := range n.Children {
		renderNode(b, c, depth)
	}
}

func nodeLine(n *dom.Node) string {
	if n.Kind == dom.KindText {
		return fmt.Sprintf("text %q", truncate(n.Text, 120))
	}
	if n.ID == "" {
		if n.Text == "" {
			return ""
		}
		return fmt.Sprintf("%s %q", n.Role, truncate(n.Text, 120))
	}

	parts := []string{string(n.Role), n.ID}
	if n.Text != "" {
		parts = append(parts, fmt.Sprintf("%q", truncate(n.Text, 120)))
	}
	if n.Attrs != nil {
		if n.Attrs.InputType != "" {
			parts = append(parts, "type="+n.Attrs.InputType)
		}
		for _, key := range []string{"name", "href", "value"} {
			if v := n.Attrs.Get(key); v != "" {
				parts = append(parts, key+"="+truncate(v, 80))
			}
		}
		if n.Attrs.Editable {
			parts = append(parts, "editable")
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
