// File: internal/dom/csspath_test.go
package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCSSPath(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		xpath string
		attrs map[string]string
		want  string
	}{
		{
			name:  "id anchored",
			tag:   "input",
			xpath: "/html/body/div[2]/input[1]",
			attrs: map[string]string{"id": "email"},
			want:  "input#email",
		},
		{
			name:  "id with colon escaped",
			tag:   "div",
			xpath: "/html/body/div[1]",
			attrs: map[string]string{"id": "react:r1:"},
			want:  `div#react\:r1\:`,
		},
		{
			name:  "structural chain with nth-of-type",
			tag:   "a",
			xpath: "/html/body/div[2]/a[3]",
			attrs: map[string]string{},
			want:  "html > body > div:nth-of-type(2) > a:nth-of-type(3)",
		},
		{
			name:  "first sibling omits index",
			tag:   "button",
			xpath: "/html/body/button[1]",
			attrs: nil,
			want:  "html > body > button",
		},
		{
			name:  "stable leaf attribute qualifier",
			tag:   "input",
			xpath: "/html/body/form/input[2]",
			attrs: map[string]string{"name": "q", "class": "f f-lg"},
			want:  `html > body > form > input[name="q"]:nth-of-type(2)`,
		},
		{
			name:  "data-testid preferred over name",
			tag:   "button",
			xpath: "/html/body/button[2]",
			attrs: map[string]string{"data-testid": "submit-cta", "name": "go"},
			want:  `html > body > button[data-testid="submit-cta"]:nth-of-type(2)`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildCSSPath(tc.tag, tc.xpath, tc.attrs))
		})
	}
}
