// File: internal/dom/node.go
package dom

import (
	"strings"
	"time"
)

// NodeKind is the coarse classification of a node, orthogonal to its semantic
// role. Interaction and image nodes are the only ones that ever receive a
// stable identifier.
type NodeKind string

const (
	KindInteraction NodeKind = "interaction"
	KindText        NodeKind = "text"
	KindImage       NodeKind = "image"
	KindOther       NodeKind = "other"
)

// Role is the semantic role of a node as reported by the page (ARIA role or
// derived from the tag name). Only a subset of roles qualifies for identifier
// assignment; see RolePrefix.
type Role string

const (
	RoleButton    Role = "button"
	RoleLink      Role = "link"
	RoleTextbox   Role = "textbox"
	RoleSearchbox Role = "searchbox"
	RoleCombobox  Role = "combobox"
	RoleListbox   Role = "listbox"
	RoleCheckbox  Role = "checkbox"
	RoleRadio     Role = "radio"
	RoleSlider    Role = "slider"
	RoleSwitch    Role = "switch"
	RoleTab       Role = "tab"
	RoleMenuItem  Role = "menuitem"
	RoleOption    Role = "option"
	RoleImage     Role = "image"
	RoleFigure    Role = "figure"
	RoleText      Role = "text"
	RoleGroup     Role = "group"
	RoleIframe    Role = "iframe"
	RoleGeneric   Role = "generic"
)

// RolePrefix returns the identifier prefix character for a role, or the empty
// string when the role never receives an identifier. The prefix is the wire
// convention the whole pipeline relies on: the first character of a StableId
// always encodes the role category.
//
// Checkbox, radio and switch are clickable toggles; they deliberately land in
// the "B" bucket rather than "I" so that a bare click resolves them.
func RolePrefix(r Role) string {
	switch r {
	case RoleLink:
		return "L"
	case RoleButton, RoleTab, RoleMenuItem, RoleRadio, RoleCheckbox, RoleSwitch:
		return "B"
	case RoleTextbox, RoleSearchbox, RoleCombobox, RoleListbox, RoleSlider:
		return "I"
	case RoleOption:
		return "O"
	case RoleImage, RoleFigure:
		return "F"
	default:
		return ""
	}
}

// interactionRoles is the set of roles that make a node actionable.
var interactionRoles = map[Role]struct{}{
	RoleButton: {}, RoleLink: {}, RoleTextbox: {}, RoleSearchbox: {},
	RoleCombobox: {}, RoleListbox: {}, RoleCheckbox: {}, RoleRadio: {},
	RoleSlider: {}, RoleSwitch: {}, RoleTab: {}, RoleMenuItem: {}, RoleOption: {},
}

// imageRoles is the set of roles treated as images of interest.
var imageRoles = map[Role]struct{}{RoleImage: {}, RoleFigure: {}}

// ImageRoleNames returns the role names excluded from tagging when images are
// filtered out of the action space context.
func ImageRoleNames() []string {
	return []string{string(RoleImage), string(RoleFigure)}
}

// BoundingBox is the layout rectangle of an element in page coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Attributes carries the raw facts the extraction script reported about an
// element. It is nil for text nodes.
type Attributes struct {
	TagName     string            `json:"tag_name,omitempty"`     // lowercase tag name
	InputType   string            `json:"input_type,omitempty"`   // value of type="" for input elements
	LabelFor    string            `json:"label_for,omitempty"`    // value of for="" on label elements
	ShadowRoot  bool              `json:"shadow_root,omitempty"`  // true when this element hosts a shadow root
	Interactive bool              `json:"interactive,omitempty"`  // interactivity flag computed in-page
	Editable    bool              `json:"editable,omitempty"`     // contenteditable or writable form control
	Visible     bool              `json:"visible,omitempty"`
	BoundingBox *BoundingBox      `json:"bounding_box,omitempty"`
	Values      map[string]string `json:"values,omitempty"` // remaining HTML attributes, verbatim
}

// Get returns a raw HTML attribute value, or "" when absent.
func (a *Attributes) Get(key string) string {
	if a == nil || a.Values == nil {
		return ""
	}
	return a.Values[key]
}

// SelectorsBundle holds the independent addressing strategies recorded for a
// node during normalization. At least one strategy must resolve to exactly one
// live element at execution time.
type SelectorsBundle struct {
	// XPath is the structural path from the document root (or from the
	// nearest shadow boundary for shadow-root descendants).
	XPath string `json:"xpath,omitempty"`
	// CSSPath is a css path built from tag names, stable attributes and a
	// disambiguating index.
	CSSPath string `json:"css_path,omitempty"`
	// Playwright is an optional driver-specific selector string.
	Playwright string `json:"playwright,omitempty"`
	// PagePath is the structural fingerprint of the node (url:hash chain),
	// used for diagnostics and cross-pass comparison, never for live lookup.
	PagePath string `json:"page_path,omitempty"`

	InIframe        bool     `json:"in_iframe,omitempty"`
	IframeParentCSS []string `json:"iframe_parent_css,omitempty"` // css selectors entering each ancestor iframe, outermost first
	InShadowRoot    bool     `json:"in_shadow_root,omitempty"`
}

// Strategies returns the locator strings to try, most specific first. The
// shadow-composed xpath (when present) already embeds the boundary-crossing
// separators, so it is always the first candidate.
func (s *SelectorsBundle) Strategies() []string {
	out := make([]string, 0, 3)
	if s.XPath != "" {
		if strings.HasPrefix(s.XPath, "xpath=") || strings.Contains(s.XPath, " >> ") {
			out = append(out, s.XPath)
		} else {
			out = append(out, "xpath="+s.XPath)
		}
	}
	if s.CSSPath != "" {
		out = append(out, s.CSSPath)
	}
	if s.Playwright != "" {
		out = append(out, s.Playwright)
	}
	return out
}

// Computed groups the attributes derived during normalization rather than
// reported by the page.
type Computed struct {
	Selectors    *SelectorsBundle `json:"selectors,omitempty"`
	IsEditable   bool             `json:"is_editable,omitempty"`
	InIframe     bool             `json:"in_iframe,omitempty"`
	InShadowRoot bool             `json:"in_shadow_root,omitempty"`
}

// Node is one element or text run in the normalized tree. Children are owned
// by their parent (the tree is a strict forest); Parent is a plain back
// reference used only for upward traversal during shadow-root path
// reconstruction.
type Node struct {
	// ID is the stable, role-prefixed identifier. Empty for nodes that
	// cannot be addressed (structural containers, plain text).
	ID       string      `json:"id,omitempty"`
	Role     Role        `json:"role"`
	Kind     NodeKind    `json:"kind"`
	Text     string      `json:"text,omitempty"`
	Attrs    *Attributes `json:"attrs,omitempty"`
	Computed Computed    `json:"computed"`
	Children []*Node     `json:"children,omitempty"`
	// Parent closes a reference cycle, so it is excluded from the wire
	// shape; RestoreParents rebuilds it after decoding.
	Parent *Node `json:"-"`
}

// IsInteraction reports whether the node is an addressable interactive node.
func (n *Node) IsInteraction() bool {
	if n.ID == "" {
		return false
	}
	_, ok := interactionRoles[n.Role]
	return ok
}

// IsImage reports whether the node is an addressable image node.
func (n *Node) IsImage() bool {
	if n.ID == "" {
		return false
	}
	_, ok := imageRoles[n.Role]
	return ok
}

// Find returns the node with the given identifier, or nil.
func (n *Node) Find(id string) *Node {
	if n.ID == id && id != "" {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Flatten returns the subtree in document order. With onlyInteraction set,
// non-interactive nodes are skipped (their children are still visited).
func (n *Node) Flatten(onlyInteraction bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		if !onlyInteraction || cur.IsInteraction() {
			out = append(out, cur)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// InteractionNodes returns all interactive nodes in document order. The
// document order here is what the coverage check's "first k nodes" mode keys
// on, so it must stay stable for a fixed tree.
func (n *Node) InteractionNodes() []*Node {
	return n.Flatten(true)
}

// ImageNodes returns all addressable image nodes in document order.
func (n *Node) ImageNodes() []*Node {
	var out []*Node
	for _, node := range n.Flatten(false) {
		if node.IsImage() {
			out = append(out, node)
		}
	}
	return out
}

// InnerText returns the node's own text joined with the text of its
// descendants, trimmed. Used as the human label for fill targets.
func (n *Node) InnerText() string {
	var parts []string
	var walk func(*Node)
	walk = func(cur *Node) {
		if t := strings.TrimSpace(cur.Text); t != "" {
			parts = append(parts, t)
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// SubtreeFilter returns a copy of the subtree keeping only nodes for which
// keep returns true (a rejected node drops its whole subtree). Returns nil if
// the root itself is rejected.
func (n *Node) SubtreeFilter(keep func(*Node) bool) *Node {
	if !keep(n) {
		return nil
	}
	clone := *n
	clone.Children = nil
	for _, c := range n.Children {
		if fc := c.SubtreeFilter(keep); fc != nil {
			fc.Parent = &clone
			clone.Children = append(clone.Children, fc)
		}
	}
	return &clone
}

// SubtreeWithoutRoles returns a copy of the tree with every node of the given
// roles removed. If filtering removes every interactive node, it fails with
// NodeFilteringResultsInEmptyGraphError: an empty result here is
// indistinguishable from a page with no actions, so it must surface.
func (n *Node) SubtreeWithoutRoles(url string, roles ...string) (*Node, error) {
	excluded := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		excluded[r] = struct{}{}
	}
	filtered := n.SubtreeFilter(func(node *Node) bool {
		_, drop := excluded[string(node.Role)]
		return !drop
	})
	if filtered == nil || len(filtered.InteractionNodes()) == 0 {
		return nil, &NodeFilteringResultsInEmptyGraphError{
			URL:       url,
			Operation: "subtree_without(roles=" + strings.Join(roles, ",") + ")",
		}
	}
	return filtered, nil
}

// SubtreeWithoutIDs returns a copy of the tree with the identified nodes
// removed, or nil when nothing interactive remains. This is the structural
// delta used by incremental tagging: nodes already covered by the previous
// action list are cut out before re-describing the page.
func (n *Node) SubtreeWithoutIDs(ids map[string]struct{}) *Node {
	filtered := n.SubtreeFilter(func(node *Node) bool {
		if node.ID == "" {
			return true
		}
		_, covered := ids[node.ID]
		return !covered
	})
	if filtered == nil || len(filtered.InteractionNodes()) == 0 {
		return nil
	}
	return filtered
}

// Metadata identifies one captured snapshot.
type Metadata struct {
	SnapshotID string    `json:"snapshot_id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	CapturedAt time.Time `json:"captured_at"`
}

// Snapshot is one normalized point-in-time capture of a page: the metadata
// plus the root of the normalized tree. Once built it is immutable; the
// builder, the proxy and the resolver all read it without synchronization.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Root     *Node    `json:"root"`
}

// InteractionNodes is a convenience passthrough to the root.
func (s *Snapshot) InteractionNodes() []*Node {
	if s.Root == nil {
		return nil
	}
	return s.Root.InteractionNodes()
}

// RestoreParents rebuilds the Parent back references, which the wire shape
// omits. Call it after decoding a persisted snapshot.
func (s *Snapshot) RestoreParents() {
	if s.Root == nil {
		return
	}
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			c.Parent = n
			walk(c)
		}
	}
	walk(s.Root)
}
