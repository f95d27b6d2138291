// Package factory constructs concrete indices by kind name.
package factory

import (
	"fmt"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/bruteforce"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/cover"
)

// New returns an empty index of the given kind. coverBase configures the
// cover tree and is ignored for other kinds; values <= 1 use the default.
func New(kind string, coverBase float32) (index.Index, error) {
	switch kind {
	case index.KindBrute:
		return &bruteforce.Index{}, nil
	case index.KindCover:
		var opts []cover.Option
		if coverBase > 1 {
			opts = append(opts, cover.WithBase(coverBase))
		}
		return cover.New(opts...), nil
	default:
		return nil, fmt.Errorf("index: unknown kind %q", kind)
	}
}

// Decode restores a serialized index of the given kind.
func Decode(kind string, data []byte) (index.Index, error) {
	idx, err := New(kind, 0)
	if err != nil {
		return nil, err
	}
	if err := idx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return idx, nil
}

// KindOf reports the kind name of idx.
func KindOf(idx index.Index) string {
	if _, ok := idx.(*cover.Index); ok {
		return index.KindCover
	}
	return index.KindBrute
}
