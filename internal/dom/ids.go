// File: internal/dom/ids.go
package dom

import "strconv"

// AssignIdentifiers walks the tree in document order and gives every
// qualifying node a role-prefixed sequential identifier (L1, B1, B2, I1, ...).
// Counters are per prefix and start at 1. The walk always starts from a clean
// slate, so calling it twice on the same tree is idempotent and two
// structurally identical trees receive identical identifier sequences.
func AssignIdentifiers(root *Node) {
	if root == nil {
		return
	}
	counters := map[string]int{}

	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node.ID = ""
		if prefix := identifierPrefix(node); prefix != "" {
			counters[prefix]++
			node.ID = prefix + strconv.Itoa(counters[prefix])
		}

		// Push children reversed so the pop order is document order.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// identifierPrefix decides whether a node qualifies for an identifier and
// which prefix bucket it belongs to. Interaction nodes use their role bucket,
// addressable images use "F", and anything interactive that escaped role
// classification falls back to "M" so it stays reachable.
func identifierPrefix(n *Node) string {
	switch n.Kind {
	case KindInteraction:
		if p := RolePrefix(n.Role); p != "" {
			return p
		}
		return "M"
	case KindImage:
		if n.Attrs != nil && !n.Attrs.Visible {
			return ""
		}
		return "F"
	default:
		return ""
	}
}
