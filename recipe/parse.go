package recipe

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

var (
	// ErrMissingHeader reports a file whose first line is not "weakness: <id>".
	ErrMissingHeader = errors.New("recipe: first line is not a weakness header")

	// ErrInvalidEncoding reports a file that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("recipe: file is not valid UTF-8")
)

const (
	weaknessLabel  = "weakness:"
	languagesLabel = "languages:"
	tagsLabel      = "tags:"
)

// Parse builds a document from one recipe file. The returned document has
// ID 0; ParseDir assigns ids by position.
func Parse(name string, data []byte) (vector.Document, error) {
	if !utf8.Valid(data) {
		return vector.Document{}, fmt.Errorf("%s: %w", name, ErrInvalidEncoding)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	first, content, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if !strings.HasPrefix(first, weaknessLabel) {
		return vector.Document{}, fmt.Errorf("%s: %w", name, ErrMissingHeader)
	}
	id := strings.TrimSpace(strings.TrimPrefix(first, weaknessLabel))
	if id == "" {
		return vector.Document{}, fmt.Errorf("%s: %w: empty weakness id", name, ErrMissingHeader)
	}
	doc := vector.Document{
		Metadata: vector.Metadata{WeaknessID: id},
		Content:  content,
	}
	var tags, languages []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, languagesLabel):
			languages = append(languages, splitLabels(strings.TrimPrefix(line, languagesLabel))...)
			continue
		case strings.HasPrefix(line, tagsLabel):
			tags = append(tags, splitLabels(strings.TrimPrefix(line, tagsLabel))...)
			continue
		}
		break
	}
	doc.Metadata.Languages = vector.NormalizeSet(languages)
	doc.Metadata.Tags = vector.NormalizeSet(tags)
	return doc, nil
}

func splitLabels(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
