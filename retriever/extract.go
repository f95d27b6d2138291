package retriever

import "strings"

// NoGuidance is returned when no recipe matches or a recipe has no
// recognizable sections.
const NoGuidance = "No specific guidance found."

type spanRule int

const (
	// restOfLine takes the text after the label up to the end of its line.
	restOfLine spanRule = iota
	// untilSection takes the text after the label up to a blank line that is
	// followed by an ASCII capital letter, or the end of the content.
	untilSection
	// toEnd takes everything from the start of the label to the end.
	toEnd
)

type section struct {
	label string
	// lineStart requires the label to open a line.
	lineStart bool
	span      spanRule
	prefix    string
	suffix    string
}

// sections lists the extracted fields in output order.
var sections = []section{
	{label: "name:", lineStart: true, span: restOfLine, prefix: "**", suffix: "**"},
	{label: "Short Description:", span: untilSection},
	{label: "Secure Coding Checklist:", span: untilSection, prefix: "**Checklist:**\n"},
	{label: "Sample Fix Idea", span: toEnd, prefix: "**Fix Idea:**\n"},
}

// Extract reduces recipe content to its title, short description, checklist
// and fix idea. Missing or empty fields are dropped and the rest joined with
// a blank line. Content without any field yields NoGuidance. Extract is pure
// and Extract(x) is stable across calls.
func Extract(content string) string {
	var parts []string
	for _, sec := range sections {
		value, ok := sec.find(content)
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		parts = append(parts, sec.prefix+value+sec.suffix)
	}
	if len(parts) == 0 {
		return NoGuidance
	}
	return strings.Join(parts, "\n\n")
}

func (s section) find(content string) (string, bool) {
	start := s.locate(content)
	if start < 0 {
		return "", false
	}
	switch s.span {
	case toEnd:
		return content[start:], true
	case restOfLine:
		rest := content[start+len(s.label):]
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			rest = rest[:i]
		}
		return rest, true
	default:
		rest := content[start+len(s.label):]
		return rest[:sectionEnd(rest)], true
	}
}

func (s section) locate(content string) int {
	if !s.lineStart {
		return strings.Index(content, s.label)
	}
	offset := 0
	for {
		line := content[offset:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if trimmed := strings.TrimLeft(line, " \t"); strings.HasPrefix(trimmed, s.label) {
			return offset + len(line) - len(trimmed)
		}
		next := strings.IndexByte(content[offset:], '\n')
		if next < 0 {
			return -1
		}
		offset += next + 1
	}
}

// sectionEnd returns the offset of the first "\n\n" followed by 'A'..'Z'.
func sectionEnd(s string) int {
	for from := 0; ; {
		i := strings.Index(s[from:], "\n\n")
		if i < 0 {
			return len(s)
		}
		at := from + i
		if next := at + 2; next < len(s) && s[next] >= 'A' && s[next] <= 'Z' {
			return at
		}
		from = at + 1
	}
}
