package index

import (
	"fmt"
	"strings"
)

// Index kinds accepted by configuration.
const (
	KindBrute = "brute"
	KindCover = "cover"
	KindAuto  = "auto"
)

const (
	autoCoverMinDocs            = 4000
	autoCoverMinDim             = 64
	autoCoverMinDensity float64 = 16
)

// ParseKind normalizes a configured index kind; empty means auto.
func ParseKind(kind string) (string, error) {
	switch k := strings.ToLower(strings.TrimSpace(kind)); k {
	case "":
		return KindAuto, nil
	case KindBrute, KindCover, KindAuto:
		return k, nil
	default:
		return "", fmt.Errorf("index: unknown kind %q (want brute, cover or auto)", kind)
	}
}

// Resolve picks the concrete kind for n vectors of dimension dim. auto
// selects the cover tree only for large, dense corpora where pruning pays
// for the tree build.
func Resolve(kind string, n, dim int) string {
	switch kind {
	case KindBrute, KindCover:
		return kind
	}
	if n >= autoCoverMinDocs && dim >= autoCoverMinDim {
		if float64(n)/float64(dim) >= autoCoverMinDensity {
			return KindCover
		}
	}
	return KindBrute
}
