package vecstore

import (
	"fmt"
	"strings"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
)

// SnapshotFile is the snapshot file name inside the store directory.
const SnapshotFile = "snapshot.db"

// FilterStrategy selects how language-filtered full-text searches run.
type FilterStrategy string

const (
	// FilterPartition queries a per-language index built at load time.
	FilterPartition FilterStrategy = "partition"
	// FilterScan queries the full index with N = candidate count and keeps
	// candidate hits. It can return fewer than k results when non-candidates
	// crowd the top N.
	FilterScan FilterStrategy = "scan"
)

// ParseFilterStrategy normalizes a configured strategy; empty means partition.
func ParseFilterStrategy(s string) (FilterStrategy, error) {
	switch v := FilterStrategy(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return FilterPartition, nil
	case FilterPartition, FilterScan:
		return v, nil
	default:
		return "", fmt.Errorf("vecstore: unknown filter strategy %q (want partition or scan)", s)
	}
}

// Config configures a Store.
type Config struct {
	// Path is the store directory holding SnapshotFile.
	Path string
	// Index is brute, cover or auto.
	Index string
	// FilterStrategy is partition or scan.
	FilterStrategy string
	// CoverBase is the cover tree base when the cover index is used.
	CoverBase float32
}

// SnapshotPath returns the snapshot file location.
func (c Config) SnapshotPath() string { return snapshotPath(c.Path) }

func (c Config) validate() (string, FilterStrategy, error) {
	if strings.TrimSpace(c.Path) == "" {
		return "", "", fmt.Errorf("vecstore: store path is required")
	}
	kind, err := index.ParseKind(c.Index)
	if err != nil {
		return "", "", err
	}
	strategy, err := ParseFilterStrategy(c.FilterStrategy)
	if err != nil {
		return "", "", err
	}
	return kind, strategy, nil
}
