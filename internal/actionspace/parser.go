// File: internal/actionspace/parser.go
package actionspace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// fencedBlockRe grabs the body of the first fenced code block, with or
// without a language tag. Models frequently wrap the table in one.
var fencedBlockRe = regexp.MustCompile("(?s)```(?:markdown|md)?\\s*\\n(.*?)```")

// idRangeRe matches compact ranges: "B9-17" and "B1-B3".
var idRangeRe = regexp.MustCompile(`^([A-Z])(\d+)\s*-\s*(?:[A-Z])?(\d+)$`)

// idTokenRe matches one well-formed identifier.
var idTokenRe = regexp.MustCompile(`^[A-Z]\d+$`)

// paramRe matches one parameter descriptor: name, type, optional default or
// allowed-values list.
var paramRe = regexp.MustCompile(`^\s*([\w-]+)\s*:\s*([\w\[\]]+)\s*(?:=\s*(.+))?$`)

// summaryTagRe grabs the body of a <document-summary> block. The closing tag
// is optional; models sometimes drop it before moving on to the table.
var summaryTagRe = regexp.MustCompile(`(?s)<document-summary>\s*(.*?)\s*(?:</document-summary>|<[a-z][\w-]*>|\z)`)

// ParseWebpageDescription extracts the page-description section the listing
// response opens with. A tagged <document-summary> block wins; otherwise the
// prose preceding the table stands in. Returns "" when the response holds no
// description at all.
func ParseWebpageDescription(text string) string {
	if m := summaryTagRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	var prose []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "|") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			break
		}
		if line != "" {
			prose = append(prose, line)
		}
	}
	return strings.Join(prose, " ")
}

// ParseActionTable extracts the action listing from a model response. The
// expected shape is a markdown table with ID, Description, Parameters and
// Category columns; id cells may name a single identifier, an "ID B1" style
// prefix, a compact range, or a bracketed list, each expanding to one action
// per identifier.
func ParseActionTable(text string) ([]PerceivedAction, error) {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	var out []PerceivedAction
	currentCategory := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			// Section headers double as category labels for rows with an
			// empty category cell.
			currentCategory = strings.TrimSpace(strings.TrimLeft(line, "# "))
			continue
		}
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if len(cells) < 2 || isHeaderRow(cells) || isSeparatorRow(cells) {
			continue
		}

		ids, err := expandIDs(cells[0])
		if err != nil {
			return nil, err
		}
		description := cells[1]
		var param *ActionParameter
		if len(cells) > 2 {
			param = parseParameter(cells[2])
		}
		category := currentCategory
		if len(cells) > 3 && cells[3] != "" {
			category = cells[3]
		}

		for _, id := range ids {
			out = append(out, PerceivedAction{
				ID:          id,
				Description: description,
				Category:    category,
				Param:       param,
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no action rows found in response (%d bytes)", len(text))
	}
	return out, nil
}

func splitRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	raw := strings.Split(trimmed, "|")
	cells := make([]string, len(raw))
	for i, c := range raw {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func isHeaderRow(cells []string) bool {
	head := strings.ToLower(cells[0])
	return head == "id" || head == "identifier"
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if strings.Trim(c, ":- ") != "" {
			return false
		}
	}
	return true
}

// expandIDs turns one id cell into the identifiers it names.
func expandIDs(cell string) ([]string, error) {
	cell = strings.TrimSpace(strings.TrimPrefix(cell, "ID "))
	cell = strings.Trim(cell, "`")

	if strings.HasPrefix(cell, "[") && strings.HasSuffix(cell, "]") {
		var out []string
		for _, part := range strings.Split(strings.Trim(cell, "[]"), ",") {
			expanded, err := expandIDs(part)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil
	}

	if m := idRangeRe.FindStringSubmatch(cell); m != nil {
		prefix := m[1]
		lo, _ := strconv.Atoi(m[2])
		hi, _ := strconv.Atoi(m[3])
		if hi < lo {
			return nil, fmt.Errorf("identifier range %q runs backwards", cell)
		}
		out := make([]string, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			out = append(out, prefix+strconv.Itoa(i))
		}
		return out, nil
	}

	if idTokenRe.MatchString(cell) {
		return []string{cell}, nil
	}
	return nil, fmt.Errorf("unparseable identifier cell %q", cell)
}

// parseParameter reads the first parameter descriptor in a cell. Empty cells
// and placeholder dashes mean the action takes no value.
func parseParameter(cell string) *ActionParameter {
	cell = strings.Trim(cell, "` ")
	if cell == "" || cell == "-" || strings.EqualFold(cell, "none") {
		return nil
	}
	// Only the first descriptor counts; actions carry at most one value.
	if i := strings.Index(cell, ","); i >= 0 && !strings.Contains(cell[:i], "[") {
		cell = cell[:i]
	}

	m := paramRe.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	p := &ActionParameter{Name: m[1], Type: m[2]}
	if rest := strings.TrimSpace(m[3]); rest != "" {
		if strings.HasPrefix(rest, "[") {
			for _, v := range strings.Split(strings.Trim(rest, "[]"), ",") {
				v = strings.Trim(strings.TrimSpace(v), `"'`)
				if v != "" {
					p.Values = append(p.Values, v)
				}
			}
		} else {
			p.Default = strings.Trim(rest, `"'`)
		}
	}
	return p
}
