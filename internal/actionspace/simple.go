// File: internal/actionspace/simple.go
package actionspace

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/dom"
)

// SimpleBuilder derives one action per interactive node with a synthesized
// description. No external calls, always complete, always terminates; the
// low-cost strategy for callers that do not need semantically rich listings.
type SimpleBuilder struct {
	// ExcludedRoles are removed from the tree before building. Defaults to
	// the image roles.
	ExcludedRoles []string
	logger        *zap.Logger
}

// NewSimpleBuilder creates the deterministic strategy.
func NewSimpleBuilder(logger *zap.Logger) *SimpleBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimpleBuilder{ExcludedRoles: dom.ImageRoleNames(), logger: logger.Named("simple_builder")}
}

// Build implements Builder. The previous action list is ignored: synthesis is
// cheap enough that incrementality buys nothing.
func (b *SimpleBuilder) Build(_ context.Context, snap *dom.Snapshot, _ []PerceivedAction, page Pagination) (*ActionSpace, error) {
	root := snap.Root
	if len(b.ExcludedRoles) > 0 {
		filtered, err := root.SubtreeWithoutRoles(snap.Metadata.URL, b.ExcludedRoles...)
		if err != nil {
			return nil, err
		}
		root = filtered
	}

	nodes := root.InteractionNodes()
	limit := page.EffectiveMax()
	actions := make([]PerceivedAction, 0, len(nodes))
	for _, n := range nodes {
		if len(actions) >= limit {
			break
		}
		actions = append(actions, synthesizeAction(n))
	}

	space := &ActionSpace{
		Description: fmt.Sprintf("%s (%s)", snap.Metadata.Title, snap.Metadata.URL),
		Actions:     actions,
	}
	if err := space.Validate(); err != nil {
		return nil, err
	}
	b.logger.Debug("action space built",
		zap.String("url", snap.Metadata.URL),
		zap.Int("actions", len(actions)))
	return space, nil
}

// synthesizeAction builds the deterministic description for one node.
func synthesizeAction(n *dom.Node) PerceivedAction {
	label := n.Text
	if label == "" {
		label = n.InnerText()
	}
	if label == "" && n.Attrs != nil {
		label = n.Attrs.Get("name")
	}
	label = truncate(label, 80)

	action := PerceivedAction{ID: n.ID}
	switch RoleFromID(n.ID) {
	case RoleLink:
		action.Category = "Navigation"
		action.Description = describe("Open the %q link", label, "Open link")
	case RoleButton:
		action.Category = "Controls"
		action.Description = describe("Press the %q button", label, "Press button")
	case RoleInput:
		action.Category = "Data input"
		action.Description = describe("Set the %q field", label, "Set field")
		action.Param = inputParameter(n)
	case RoleOption:
		action.Category = "Data input"
		action.Description = describe("Select the %q option", label, "Select option")
	case RoleImage:
		action.Category = "Media"
		action.Description = describe("Inspect the %q image", label, "Inspect image")
	default:
		action.Category = "Other actions"
		action.Description = describe("Interact with %q", label, "Interact with element")
	}
	return action
}

func describe(format, label, fallback string) string {
	if label == "" {
		return fallback
	}
	return fmt.Sprintf(format, label)
}

// inputParameter derives the typed parameter descriptor for an input node.
// Combobox values come from the option children.
func inputParameter(n *dom.Node) *ActionParameter {
	name := ""
	if n.Attrs != nil {
		name = n.Attrs.Get("name")
	}
	if name == "" {
		name = "value"
	}

	switch n.Role {
	case dom.RoleCombobox, dom.RoleListbox:
		var values []string
		for _, c := range n.Flatten(false) {
			if c.Role == dom.RoleOption {
				v := c.Attrs.Get("value")
				if v == "" {
					v = strings.TrimSpace(c.Text)
				}
				if v != "" {
					values = append(values, v)
				}
			}
		}
		return &ActionParameter{Name: name, Type: "string", Values: values}
	case dom.RoleSlider:
		return &ActionParameter{Name: name, Type: "number"}
	default:
		return &ActionParameter{Name: name, Type: "string"}
	}
}
