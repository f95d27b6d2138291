package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

// Fingerprint returns a stable hash of the parsed corpus. It changes when a
// recipe is added, removed, reordered or edited, so a stored fingerprint
// tells whether a snapshot is stale.
func Fingerprint(docs []vector.Document) string {
	h := sha256.New()
	for _, doc := range docs {
		h.Write([]byte(doc.Metadata.WeaknessID))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(vector.NormalizeSet(doc.Metadata.Tags), "\x01")))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(vector.NormalizeSet(doc.Metadata.Languages), "\x01")))
		h.Write([]byte{0})
		h.Write([]byte(doc.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
