package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sqliRecipe = "name: SQLi\nShort Description:\nUse parameterized queries.\n\nSecure Coding Checklist:\n- validate input\n\nSample Fix Idea\nUse prepared statements."

func TestExtract(t *testing.T) {
	testCases := []struct {
		description string
		content     string
		want        string
	}{
		{
			description: "all sections",
			content:     sqliRecipe,
			want:        "**SQLi**\n\nUse parameterized queries.\n\n**Checklist:**\n- validate input\n\n**Fix Idea:**\nSample Fix Idea\nUse prepared statements.",
		},
		{
			description: "title only",
			content:     "languages: go\nname:   Path Traversal  \nfree text",
			want:        "**Path Traversal**",
		},
		{
			description: "name must open a line",
			content:     "filename: x.go\nShort Description: keep it short",
			want:        "keep it short",
		},
		{
			description: "lowercase continuation stays in description",
			content:     "Short Description: first\n\nsecond paragraph\n\nNext Section: ignored",
			want:        "first\n\nsecond paragraph",
		},
		{
			description: "capitalized continuation ends description",
			content:     "Short Description: first\n\nSecond paragraph",
			want:        "first",
		},
		{
			description: "extra blank line before next section",
			content:     "Secure Coding Checklist:\n- a\n\n\nSample Fix Idea: b",
			want:        "**Checklist:**\n- a\n\n**Fix Idea:**\nSample Fix Idea: b",
		},
		{
			description: "empty fields dropped",
			content:     "name:\nShort Description:\n\nSample Fix Idea",
			want:        "**Fix Idea:**\nSample Fix Idea",
		},
		{
			description: "no sections",
			content:     "just some prose about security",
			want:        NoGuidance,
		},
		{
			description: "empty content",
			content:     "",
			want:        NoGuidance,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.content))
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	for _, content := range []string{sqliRecipe, "nothing here", "name: only"} {
		first := Extract(content)
		assert.Equal(t, first, Extract(content))
	}
}
