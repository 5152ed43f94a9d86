// File: internal/dom/node_test.go
package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interactionTree() *Node {
	root := &Node{Role: RoleGroup, Kind: KindOther}
	link := &Node{Role: RoleLink, Kind: KindInteraction, Text: "Home", Parent: root}
	button := &Node{Role: RoleButton, Kind: KindInteraction, Text: "Buy", Parent: root}
	image := &Node{Role: RoleImage, Kind: KindImage, Text: "Logo", Parent: root, Attrs: &Attributes{TagName: "img", Visible: true}}
	box := &Node{Role: RoleGroup, Kind: KindOther, Parent: root}
	field := &Node{Role: RoleTextbox, Kind: KindInteraction, Text: "Email", Parent: box}
	box.Children = []*Node{field}
	root.Children = []*Node{link, button, image, box}
	AssignIdentifiers(root)
	return root
}

func TestAssignIdentifiersIsIdempotent(t *testing.T) {
	root := interactionTree()
	first := make([]string, 0)
	for _, n := range root.Flatten(false) {
		first = append(first, n.ID)
	}
	AssignIdentifiers(root)
	second := make([]string, 0)
	for _, n := range root.Flatten(false) {
		second = append(second, n.ID)
	}
	assert.Equal(t, first, second)
}

func TestInteractionNodesDocumentOrder(t *testing.T) {
	root := interactionTree()
	var ids []string
	for _, n := range root.InteractionNodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"L1", "B1", "I1"}, ids)

	images := root.ImageNodes()
	require.Len(t, images, 1)
	assert.Equal(t, "F1", images[0].ID)
}

func TestSubtreeWithoutRoles(t *testing.T) {
	root := interactionTree()

	filtered, err := root.SubtreeWithoutRoles("https://example.com", ImageRoleNames()...)
	require.NoError(t, err)
	assert.Empty(t, filtered.ImageNodes())
	assert.Len(t, filtered.InteractionNodes(), 3)
	// The original tree is untouched.
	assert.Len(t, root.ImageNodes(), 1)

	_, err = root.SubtreeWithoutRoles("https://example.com",
		string(RoleLink), string(RoleButton), string(RoleTextbox))
	var emptyErr *NodeFilteringResultsInEmptyGraphError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "https://example.com", emptyErr.URL)
}

func TestSubtreeWithoutIDs(t *testing.T) {
	root := interactionTree()

	delta := root.SubtreeWithoutIDs(map[string]struct{}{"L1": {}})
	require.NotNil(t, delta)
	var ids []string
	for _, n := range delta.InteractionNodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"B1", "I1"}, ids)

	// Covering everything collapses the delta to nil, not to an error.
	all := map[string]struct{}{"L1": {}, "B1": {}, "I1": {}}
	assert.Nil(t, root.SubtreeWithoutIDs(all))
}

func TestSelectorStrategies(t *testing.T) {
	tests := []struct {
		name   string
		bundle SelectorsBundle
		want   []string
	}{
		{
			name:   "plain xpath gets prefixed",
			bundle: SelectorsBundle{XPath: "/html/body/a[1]", CSSPath: "body > a"},
			want:   []string{"xpath=/html/body/a[1]", "body > a"},
		},
		{
			name:   "shadow composed xpath passes through",
			bundle: SelectorsBundle{XPath: "xpath=/html/body/div[1] >> xpath=/div/input[1]"},
			want:   []string{"xpath=/html/body/div[1] >> xpath=/div/input[1]"},
		},
		{
			name:   "driver selector comes last",
			bundle: SelectorsBundle{XPath: "/a", CSSPath: "a#x", Playwright: "text=Home"},
			want:   []string{"xpath=/a", "a#x", "text=Home"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.bundle.Strategies())
		})
	}
}

func TestRolePrefixBuckets(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleLink, "L"},
		{RoleButton, "B"},
		{RoleCheckbox, "B"},
		{RoleRadio, "B"},
		{RoleSwitch, "B"},
		{RoleTab, "B"},
		{RoleMenuItem, "B"},
		{RoleTextbox, "I"},
		{RoleSearchbox, "I"},
		{RoleCombobox, "I"},
		{RoleListbox, "I"},
		{RoleSlider, "I"},
		{RoleOption, "O"},
		{RoleImage, "F"},
		{RoleFigure, "F"},
		{RoleText, ""},
		{RoleGroup, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, RolePrefix(tc.role), "role %s", tc.role)
	}
}

func TestInnerText(t *testing.T) {
	root := &Node{Role: RoleGroup, Children: []*Node{
		{Role: RoleText, Kind: KindText, Text: "  Hello "},
		{Role: RoleGroup, Children: []*Node{{Role: RoleText, Kind: KindText, Text: "world"}}},
	}}
	assert.Equal(t, "Hello world", root.InnerText())
}
