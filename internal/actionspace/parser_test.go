// File: internal/actionspace/parser_test.go
package actionspace

import (
	"testing"

	fuzzheaders "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionTableBasicRows(t *testing.T) {
	text := `| ID | Description | Parameters | Category |
| --- | --- | --- | --- |
| L1 | Open the homepage | | Navigation |
| I1 | Enter the search query | query: string | Search |
| B1 | Start the search | | Search |`

	actions, err := ParseActionTable(text)
	require.NoError(t, err)
	require.Len(t, actions, 3)

	assert.Equal(t, PerceivedAction{ID: "L1", Description: "Open the homepage", Category: "Navigation"}, actions[0])
	require.NotNil(t, actions[1].Param)
	assert.Equal(t, "query", actions[1].Param.Name)
	assert.Equal(t, "string", actions[1].Param.Type)
}

func TestParseActionTableIdentifierForms(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"single", "B1", []string{"B1"}},
		{"id prefix", "ID B1", []string{"B1"}},
		{"compact range", "B9-12", []string{"B9", "B10", "B11", "B12"}},
		{"prefixed range", "B1-B3", []string{"B1", "B2", "B3"}},
		{"bracketed list", "[L2, L3]", []string{"L2", "L3"}},
		{"bracketed ranges", "[B1-B2, L5]", []string{"B1", "B2", "L5"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := expandIDs(tc.cell)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := expandIDs("links")
	assert.Error(t, err)
	_, err = expandIDs("B9-3")
	assert.Error(t, err)
}

func TestParseActionTableRangeRowExpansion(t *testing.T) {
	text := `| ID | Description | Parameters | Category |
| --- | --- | --- | --- |
| L4-6 | Open a result | | Results |`

	actions, err := ParseActionTable(text)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	for i, id := range []string{"L4", "L5", "L6"} {
		assert.Equal(t, id, actions[i].ID)
		assert.Equal(t, "Open a result", actions[i].Description)
	}
}

func TestParseActionTableFencedBlockAndHeaders(t *testing.T) {
	text := "Here is the listing you asked for:\n\n```markdown\n" +
		"# Account\n" +
		"| ID | Description | Parameters |\n" +
		"| --- | --- | --- |\n" +
		"| B2 | Log out | |\n" +
		"```\nAnything else?"

	actions, err := ParseActionTable(text)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "B2", actions[0].ID)
	// The section header supplies the category for rows without one.
	assert.Equal(t, "Account", actions[0].Category)
}

func TestParseParameterForms(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want *ActionParameter
	}{
		{"empty", "", nil},
		{"dash placeholder", "-", nil},
		{"plain", "email: string", &ActionParameter{Name: "email", Type: "string"}},
		{"default", `lang: string = "en"`, &ActionParameter{Name: "lang", Type: "string", Default: "en"}},
		{
			"allowed values",
			`country: string = ["France", "Germany"]`,
			&ActionParameter{Name: "country", Type: "string", Values: []string{"France", "Germany"}},
		},
		{"extra descriptors ignored", "a: int, b: int", &ActionParameter{Name: "a", Type: "int"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseParameter(tc.cell))
		})
	}
}

func TestParseWebpageDescription(t *testing.T) {
	table := "| ID | Description |\n| --- | --- |\n| B1 | Press |"
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"tagged block",
			"<document-summary>\nA grocery checkout page.\n</document-summary>\n" + table,
			"A grocery checkout page.",
		},
		{
			"missing closing tag",
			"<document-summary>\nA grocery checkout page.\n" + table,
			"A grocery checkout page.",
		},
		{
			"prose before table",
			"The page is a login form.\n\n" + table,
			"The page is a login form.",
		},
		{
			"prose before fenced table",
			"Search results for shoes.\n```markdown\n" + table + "\n```",
			"Search results for shoes.",
		},
		{"table only", table, ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseWebpageDescription(tc.text))
		})
	}
}

func TestParseActionTableIgnoresDescriptionSection(t *testing.T) {
	text := "<document-summary>\nA page with one button.\n</document-summary>\n" +
		"| ID | Description | Parameters | Category |\n" +
		"| --- | --- | --- | --- |\n" +
		"| B1 | Press the button | | Controls |"

	actions, err := ParseActionTable(text)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "B1", actions[0].ID)
}

func TestParseActionTableRejectsEmptyListings(t *testing.T) {
	_, err := ParseActionTable("I could not find any interactive elements.")
	assert.Error(t, err)
}

func FuzzParseActionTable(f *testing.F) {
	f.Add([]byte("| ID | Description |\n| B1 | Press |"))
	f.Add([]byte("| [B1-B3, L9] | Things | x: int = [\"1\"] | Cat |"))
	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzzheaders.NewConsumer(data)
		text, err := consumer.GetString()
		if err != nil {
			return
		}
		// Must never panic; errors are fine.
		_, _ = ParseActionTable(text)
	})
}
