// File: internal/actionspace/space.go

// Package actionspace derives the set of possible actions from a normalized
// page snapshot. Two interchangeable strategies exist behind the Builder
// contract: a deterministic one-action-per-node builder and an incremental
// model-backed tagger with coverage validation.
package actionspace

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pagelens/pagelens/internal/dom"
)

// ActionRole is the action category encoded in an identifier's first
// character. It is deliberately coarser than dom.Role: the decision-maker
// boundary only needs to know how an action is exercised, not what widget
// backs it.
type ActionRole string

const (
	RoleLink    ActionRole = "link"
	RoleButton  ActionRole = "button"
	RoleInput   ActionRole = "input"
	RoleOption  ActionRole = "option"
	RoleImage   ActionRole = "image"
	RoleMisc    ActionRole = "misc"
	RoleSpecial ActionRole = "special"
	RoleOther   ActionRole = "other"
)

// RoleFromID derives the action role from an identifier prefix.
func RoleFromID(id string) ActionRole {
	if id == "" {
		return RoleOther
	}
	switch id[0] {
	case 'L':
		return RoleLink
	case 'B':
		return RoleButton
	case 'I':
		return RoleInput
	case 'O':
		return RoleOption
	case 'F':
		return RoleImage
	case 'M':
		return RoleMisc
	case 'S':
		return RoleSpecial
	default:
		return RoleOther
	}
}

// ActionParameter describes the single typed value an input-like action
// accepts. Values, when set, enumerates the allowed literals.
type ActionParameter struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Default string   `json:"default,omitempty"`
	Values  []string `json:"values,omitempty"`
}

func (p ActionParameter) String() string {
	out := fmt.Sprintf("%s: %s", p.Name, p.Type)
	if len(p.Values) > 0 {
		out += ` = ["` + strings.Join(p.Values, `", "`) + `"]`
	} else if p.Default != "" {
		out += fmt.Sprintf(" = %q", p.Default)
	}
	return out
}

// PerceivedAction is one candidate action bound to a node identifier. It is
// immutable after creation; the next build cycle supersedes it rather than
// patching it.
type PerceivedAction struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Param       *ActionParameter `json:"param,omitempty"`
}

// Role derives the action role from the identifier prefix.
func (a PerceivedAction) Role() ActionRole { return RoleFromID(a.ID) }

// SpaceCategory is the coarse page classification attached after a
// successful tagging pass.
type SpaceCategory string

const (
	CategoryHomepage      SpaceCategory = "homepage"
	CategorySearchResults SpaceCategory = "search-results"
	CategoryItemDetail    SpaceCategory = "item-detail"
	CategoryForm          SpaceCategory = "form"
	CategoryArticle       SpaceCategory = "article"
	CategoryAuth          SpaceCategory = "auth"
	CategoryOther         SpaceCategory = "other"
)

// ParseSpaceCategory normalizes a classifier answer, falling back to other.
func ParseSpaceCategory(s string) SpaceCategory {
	switch SpaceCategory(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryHomepage, CategorySearchResults, CategoryItemDetail,
		CategoryForm, CategoryArticle, CategoryAuth:
		return SpaceCategory(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryOther
	}
}

// ActionSpace is an immutable snapshot of the actions available on one page:
// the per-node interaction actions plus the fixed browser-level set, which is
// always available and never tied to a node.
type ActionSpace struct {
	Description string            `json:"description"`
	Category    SpaceCategory     `json:"category,omitempty"`
	Actions     []PerceivedAction `json:"actions"`
}

// Validate enforces the space invariants: every interaction action carries a
// description and a node-derived role. Special actions never live here.
func (s *ActionSpace) Validate() error {
	seen := make(map[string]struct{}, len(s.Actions))
	for _, a := range s.Actions {
		if a.ID == "" || a.Description == "" {
			return fmt.Errorf("action %q has no description", a.ID)
		}
		if a.Role() == RoleSpecial {
			return fmt.Errorf("action %s: browser-level actions do not belong in the interaction set", a.ID)
		}
		if a.Role() == RoleOther {
			return fmt.Errorf("action %s: identifier prefix encodes no known role", a.ID)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("action %s listed twice", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// ActionByID returns the interaction action with the given identifier.
func (s *ActionSpace) ActionByID(id string) (PerceivedAction, bool) {
	for _, a := range s.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return PerceivedAction{}, false
}

// CoveredIDs returns the set of node identifiers the space covers.
func (s *ActionSpace) CoveredIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Actions))
	for _, a := range s.Actions {
		out[a.ID] = struct{}{}
	}
	return out
}

// Render serializes the space for the decision-maker boundary: actions
// grouped under their category headers, one `* ID: description (params)` row
// each, with the browser-level set appended when includeBrowser is set.
func (s *ActionSpace) Render(includeBrowser bool) string {
	var b strings.Builder
	if s.Description != "" {
		b.WriteString(s.Description)
		b.WriteString("\n\n")
	}

	groups := make(map[string][]PerceivedAction)
	var order []string
	for _, a := range s.Actions {
		cat := a.Category
		if cat == "" {
			cat = "Other actions"
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], a)
	}
	sort.Strings(order)

	for _, cat := range order {
		fmt.Fprintf(&b, "# %s\n", cat)
		for _, a := range groups[cat] {
			if a.Param != nil {
				fmt.Fprintf(&b, "* %s: %s (%s)\n", a.ID, a.Description, a.Param)
			} else {
				fmt.Fprintf(&b, "* %s: %s\n", a.ID, a.Description)
			}
		}
		b.WriteString("\n")
	}

	if includeBrowser {
		b.WriteString("# Browser actions\n")
		for _, ba := range BrowserActions() {
			if ba.Param != nil {
				fmt.Fprintf(&b, "* %s: %s (%s)\n", ba.ID, ba.Description, ba.Param)
			} else {
				fmt.Fprintf(&b, "* %s: %s\n", ba.ID, ba.Description)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Pagination bounds how much of the page one build call must cover.
type Pagination struct {
	// MinActions, when positive, switches the coverage check to first-k
	// mode: the first MinActions interactive nodes in document order must
	// all be covered, regardless of overall ratio.
	MinActions int
	// MaxActions caps the required coverage count. Zero means the default.
	MaxActions int
}

// DefaultMaxActions caps coverage requirements when the caller sets no limit.
const DefaultMaxActions = 100

// EffectiveMax returns the action cap with the default applied.
func (p Pagination) EffectiveMax() int {
	if p.MaxActions > 0 {
		return p.MaxActions
	}
	return DefaultMaxActions
}

// Builder is the action space construction contract shared by the simple and
// the model-backed strategies.
type Builder interface {
	Build(ctx context.Context, snap *dom.Snapshot, previous []PerceivedAction, page Pagination) (*ActionSpace, error)
}
