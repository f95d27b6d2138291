package recipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"go.uber.org/zap"
)

// DefaultPattern matches every file name.
const DefaultPattern = "*"

type options struct {
	pattern string
	logger  *logging.Logger
}

// Option configures ParseDir.
type Option func(*options)

// WithPattern restricts recipes to file names matching a filepath.Match glob.
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

// WithLogger sets the logger used for skipped-file warnings.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ParseDir parses every regular, non-hidden file in dir that matches the
// pattern, in file-name order, and assigns ids 0..n-1 in that order.
// Malformed files are logged and skipped. An unreadable dir is an error.
func ParseDir(ctx context.Context, dir string, opts ...Option) ([]vector.Document, error) {
	o := &options{pattern: DefaultPattern, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if _, err := filepath.Match(o.pattern, ""); err != nil {
		return nil, fmt.Errorf("recipe: invalid pattern %q: %w", o.pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("recipe: read corpus dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var docs []vector.Document
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		if ok, _ := filepath.Match(o.pattern, name); !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			o.logger.Warn(ctx, "skipping unreadable recipe", zap.String("file", name), zap.Error(err))
			continue
		}
		doc, err := Parse(name, data)
		if err != nil {
			reason := "invalid"
			switch {
			case errors.Is(err, ErrMissingHeader):
				reason = "missing weakness header"
			case errors.Is(err, ErrInvalidEncoding):
				reason = "invalid utf-8"
			}
			o.logger.Warn(ctx, "skipping recipe", zap.String("file", name), zap.String("reason", reason))
			continue
		}
		doc.ID = len(docs)
		docs = append(docs, doc)
	}
	o.logger.Info(ctx, "parsed recipes", zap.String("dir", dir), zap.Int("documents", len(docs)))
	return docs, nil
}

// Source is a recipe directory usable as a store corpus.
type Source struct {
	dir  string
	opts []Option
}

// NewSource returns a corpus that re-reads dir on every call.
func NewSource(dir string, opts ...Option) *Source {
	return &Source{dir: dir, opts: opts}
}

// Documents parses the directory.
func (s *Source) Documents(ctx context.Context) ([]vector.Document, error) {
	return ParseDir(ctx, s.dir, s.opts...)
}

// String returns the directory path.
func (s *Source) String() string { return s.dir }
