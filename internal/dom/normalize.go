// File: internal/dom/normalize.go
package dom

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RawNode is one entry of the flattened dump produced by the in-page
// extraction script. Children hold map keys, not nested structures, so the
// transport can share subtrees.
type RawNode struct {
	Type          string            `json:"type"`
	Text          string            `json:"text"`
	TagName       string            `json:"tagName"`
	XPath         string            `json:"xpath"`
	Attributes    map[string]string `json:"attributes"`
	IsVisible     bool              `json:"isVisible"`
	IsInteractive bool              `json:"isInteractive"`
	IsTopElement  bool              `json:"isTopElement"`
	IsEditable    bool              `json:"isEditable"`
	ShadowRoot    bool              `json:"shadowRoot"`
	ChildIDs      []string          `json:"children"`
	BBox          *BoundingBox      `json:"bbox"`
}

// RawDump is the loosely-typed page structure returned by the extraction
// script: a node map plus a root reference.
type RawDump struct {
	RootID string              `json:"rootId"`
	Map    map[string]*RawNode `json:"map"`
}

// DecodeRawDump parses the JSON payload of the extraction script.
func DecodeRawDump(data []byte) (*RawDump, error) {
	var dump RawDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decoding raw dom dump: %w", err)
	}
	return &dump, nil
}

// Normalizer converts a raw page dump into a normalized Snapshot. It is
// stateless between calls apart from a transient diagnostic buffer, which is
// flushed to the logger before every return.
type Normalizer struct {
	logger *zap.Logger
	diag   []string
}

// NewNormalizer creates a normalizer. A nil logger falls back to zap.NewNop.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger.Named("dom_normalizer")}
}

// Normalize reconstructs the tree from the flattened dump, converts it into
// the canonical node model and assigns stable identifiers. Two calls with the
// same dump yield identical identifier sequences and selector bundles.
func (nz *Normalizer) Normalize(pageURL, title string, dump *RawDump) (*Snapshot, error) {
	defer nz.flushDiagnostics()

	if dump == nil || len(dump.Map) == 0 {
		return nil, &SnapshotProcessingError{URL: pageURL, Reason: "page evaluation returned no data"}
	}
	rawRoot, ok := dump.Map[dump.RootID]
	if !ok {
		return nil, &SnapshotProcessingError{URL: pageURL, Reason: fmt.Sprintf("root reference %q not present in node map", dump.RootID)}
	}

	root := nz.convert(dump, rawRoot, nil, state{pagePath: pageURL})
	if root == nil {
		return nil, &SnapshotProcessingError{URL: pageURL, Reason: "reconstructed tree has no root"}
	}
	AssignIdentifiers(root)

	return &Snapshot{
		Metadata: Metadata{
			SnapshotID: uuid.NewString(),
			URL:        pageURL,
			Title:      title,
			CapturedAt: time.Now().UTC(),
		},
		Root: root,
	}, nil
}

// state is the ancestry context threaded through the recursive conversion.
type state struct {
	inIframe        bool
	inShadowRoot    bool
	iframeParentCSS []string
	pagePath        string
}

func (nz *Normalizer) convert(dump *RawDump, raw *RawNode, parent *Node, st state) *Node {
	if raw == nil {
		return nil
	}

	if raw.Type == "TEXT_NODE" {
		if strings.TrimSpace(raw.Text) == "" {
			return nil
		}
		return &Node{
			Role:   RoleText,
			Kind:   KindText,
			Text:   raw.Text,
			Parent: parent,
			Computed: Computed{
				InIframe:     st.inIframe,
				InShadowRoot: st.inShadowRoot,
			},
		}
	}

	if raw.TagName == "" {
		// Structurally empty entries are parsing artifacts, not errors.
		if raw.XPath == "" && len(raw.Attributes) == 0 && len(raw.ChildIDs) == 0 {
			return nil
		}
		nz.diag = append(nz.diag, fmt.Sprintf("element node without tag name at xpath %q", raw.XPath))
		return nil
	}
	if raw.XPath == "" {
		nz.diag = append(nz.diag, fmt.Sprintf("<%s> node without xpath, dropped", raw.TagName))
		return nil
	}

	tag := strings.ToLower(raw.TagName)
	cssPath := BuildCSSPath(tag, raw.XPath, raw.Attributes)
	pagePath := fmt.Sprintf("%s:%d:%d", st.pagePath, hash32(raw.XPath), hash32(cssPath))

	if raw.ShadowRoot {
		st.inShadowRoot = true
	}

	childState := st
	childState.pagePath = pagePath
	if tag == "iframe" {
		childState.inIframe = true
		childState.iframeParentCSS = append(append([]string{}, st.iframeParentCSS...), cssPath)
	}

	role := deriveRole(tag, raw)
	node := &Node{
		Role:   role,
		Kind:   kindOf(role, raw),
		Text:   elementText(raw),
		Parent: parent,
		Attrs: &Attributes{
			TagName:     tag,
			InputType:   raw.Attributes["type"],
			LabelFor:    raw.Attributes["for"],
			ShadowRoot:  raw.ShadowRoot,
			Interactive: raw.IsInteractive,
			Editable:    raw.IsEditable,
			Visible:     raw.IsVisible,
			BoundingBox: raw.BBox,
			Values:      raw.Attributes,
		},
		Computed: Computed{
			Selectors: &SelectorsBundle{
				XPath:           raw.XPath,
				CSSPath:         cssPath,
				PagePath:        pagePath,
				InIframe:        st.inIframe,
				IframeParentCSS: st.iframeParentCSS,
				InShadowRoot:    st.inShadowRoot,
			},
			IsEditable:   raw.IsEditable,
			InIframe:     st.inIframe,
			InShadowRoot: st.inShadowRoot,
		},
	}

	for _, childID := range raw.ChildIDs {
		child, ok := dump.Map[childID]
		if !ok {
			nz.diag = append(nz.diag, fmt.Sprintf("dangling child reference %q under <%s>", childID, tag))
			continue
		}
		if converted := nz.convert(dump, child, node, childState); converted != nil {
			node.Children = append(node.Children, converted)
		}
	}
	return node
}

func (nz *Normalizer) flushDiagnostics() {
	for _, msg := range nz.diag {
		nz.logger.Debug("normalization diagnostic", zap.String("detail", msg))
	}
	nz.diag = nz.diag[:0]
}

// deriveRole maps the tag name, explicit ARIA role and input type onto the
// typed Role. The explicit role attribute wins when it names a role the
// pipeline knows about; the tag-based mapping is the fallback.
func deriveRole(tag string, raw *RawNode) Role {
	if aria, ok := knownRoles[strings.ToLower(raw.Attributes["role"])]; ok {
		return aria
	}
	switch tag {
	case "a":
		if raw.Attributes["href"] != "" {
			return RoleLink
		}
	case "button", "summary":
		return RoleButton
	case "select":
		return RoleCombobox
	case "option":
		return RoleOption
	case "textarea":
		return RoleTextbox
	case "img", "picture":
		return RoleImage
	case "figure":
		return RoleFigure
	case "iframe":
		return RoleIframe
	case "input":
		switch strings.ToLower(raw.Attributes["type"]) {
		case "checkbox":
			return RoleCheckbox
		case "radio":
			return RoleRadio
		case "range":
			return RoleSlider
		case "search":
			return RoleSearchbox
		case "button", "submit", "reset", "image":
			return RoleButton
		case "hidden":
			return RoleGeneric
		default:
			return RoleTextbox
		}
	}
	if raw.IsEditable {
		return RoleTextbox
	}
	if raw.IsInteractive {
		// Interactive but role-less (onclick div and friends): clickable.
		return RoleButton
	}
	return RoleGroup
}

// knownRoles maps ARIA role attribute values to typed roles. Unknown values
// fall through to the tag-based mapping.
var knownRoles = map[string]Role{
	"button": RoleButton, "link": RoleLink, "textbox": RoleTextbox,
	"searchbox": RoleSearchbox, "combobox": RoleCombobox, "listbox": RoleListbox,
	"checkbox": RoleCheckbox, "radio": RoleRadio, "slider": RoleSlider,
	"switch": RoleSwitch, "tab": RoleTab, "menuitem": RoleMenuItem,
	"option": RoleOption, "img": RoleImage, "image": RoleImage, "figure": RoleFigure,
}

func kindOf(role Role, raw *RawNode) NodeKind {
	if _, ok := interactionRoles[role]; ok && (raw.IsInteractive || raw.IsEditable || role == RoleOption) {
		return KindInteraction
	}
	if _, ok := imageRoles[role]; ok {
		return KindImage
	}
	return KindOther
}

// elementText picks the human label for an element: explicit text content,
// else aria-label, alt, placeholder or value.
func elementText(raw *RawNode) string {
	if t := strings.TrimSpace(raw.Text); t != "" {
		return t
	}
	for _, key := range []string{"aria-label", "alt", "placeholder", "value", "title"} {
		if v := strings.TrimSpace(raw.Attributes[key]); v != "" {
			return v
		}
	}
	return ""
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}
