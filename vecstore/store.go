package vecstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/factory"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/recipe"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"

// ErrEmpty is returned by Save when the store holds no documents.
var ErrEmpty = errors.New("vecstore: store is empty")

// Corpus supplies the documents a store is built from. Document ids must
// equal their positions.
type Corpus interface {
	Documents(ctx context.Context) ([]vector.Document, error)
}

// Result is one search hit.
type Result struct {
	Document vector.Document
	// Distance is the Euclidean distance between the query and document vectors.
	Distance float64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithForceRebuild makes Open build from the corpus without reading the
// existing snapshot, then replace it. A snapshot Open would reject, such as
// one written by another encoder, is overwritten instead.
func WithForceRebuild() Option {
	return func(s *Store) { s.forceRebuild = true }
}

// Store is the dual index store. It is safe for concurrent use.
type Store struct {
	cfg       Config
	indexKind string
	strategy  FilterStrategy
	corpus    Corpus
	encoder   embedding.Encoder
	logger    *logging.Logger
	tracer    trace.Tracer

	forceRebuild bool

	mu        sync.RWMutex
	state     *state
	rebuildMu sync.Mutex
}

// Open loads the snapshot in cfg.Path, or builds the store from corpus and
// saves it when no snapshot exists. A snapshot that exists but fails
// validation is an error (vector.ErrCorruptSnapshot,
// vector.ErrUnsupportedFormat or vector.ErrEncoderMismatch); it is never
// rebuilt silently. WithForceRebuild replaces it explicitly.
func Open(ctx context.Context, cfg Config, corpus Corpus, encoder embedding.Encoder, opts ...Option) (*Store, error) {
	kind, strategy, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	if corpus == nil || encoder == nil {
		return nil, fmt.Errorf("vecstore: corpus and encoder are required")
	}
	s := &Store{
		cfg:       cfg,
		indexKind: kind,
		strategy:  strategy,
		corpus:    corpus,
		encoder:   encoder,
		logger:    logging.NewNop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("vecstore")

	path := cfg.SnapshotPath()
	if s.forceRebuild {
		s.logger.Info(ctx, "rebuilding store, existing snapshot ignored", zap.String("path", path))
		st, err := s.buildAndSave(ctx, "rebuild")
		if err != nil {
			return nil, err
		}
		s.publish(ctx, st, "rebuild")
		return s, nil
	}
	snap, err := vector.ReadSnapshot(ctx, path, encoder.Fingerprint())
	switch {
	case err == nil:
		st, err := s.restore(snap)
		if err != nil {
			return nil, err
		}
		s.checkStale(ctx, snap.Header)
		s.publish(ctx, st, "snapshot")
		return s, nil
	case vector.IsNotExist(err):
		s.logger.Info(ctx, "no snapshot found, building store", zap.String("path", path))
		st, err := s.buildAndSave(ctx, "build")
		if err != nil {
			return nil, err
		}
		s.publish(ctx, st, "build")
		return s, nil
	default:
		s.logger.Error(ctx, "snapshot rejected", zap.String("path", path), zap.Error(err))
		return nil, err
	}
}

// buildAndSave builds a fresh state and installs its snapshot. An empty
// corpus removes any previous snapshot.
func (s *Store) buildAndSave(ctx context.Context, op string) (*state, error) {
	ctx, span := s.tracer.Start(ctx, "vecstore."+op)
	defer span.End()
	start := time.Now()
	st, snap, err := s.build(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	path := s.cfg.SnapshotPath()
	if snap == nil {
		s.logger.Warn(ctx, "corpus is empty, store has no indices", zap.String("corpus", fmt.Sprint(s.corpus)))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("vecstore: remove stale snapshot: %w", err)
		}
		return st, nil
	}
	if err := vector.WriteSnapshot(ctx, path, snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("vecstore: save snapshot: %w", err)
	}
	st.header = snap.Header
	BuildDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("documents", len(st.docs)),
		attribute.String("index.kind", factory.KindOf(st.weakness)),
	)
	s.logger.Info(ctx, "store built",
		zap.Int("documents", len(st.docs)),
		zap.String("index", factory.KindOf(st.weakness)),
		zap.String("build_id", snap.Header.BuildID),
		zap.Duration("took", time.Since(start)))
	return st, nil
}

// checkStale warns when the corpus no longer matches the one the loaded
// snapshot was built from. The corpus is only parsed, never encoded, and a
// corpus that cannot be read does not fail the load.
func (s *Store) checkStale(ctx context.Context, header vector.Header) {
	docs, err := s.corpus.Documents(ctx)
	if err != nil {
		s.logger.Warn(ctx, "cannot read corpus, snapshot staleness unknown", zap.Error(err))
		return
	}
	if fp := recipe.Fingerprint(docs); fp != header.CorpusFingerprint {
		s.logger.Warn(ctx, "snapshot is stale, corpus changed since build",
			zap.String("snapshot_fingerprint", header.CorpusFingerprint),
			zap.String("corpus_fingerprint", fp),
			zap.Int("snapshot_documents", header.Documents),
			zap.Int("corpus_documents", len(docs)))
	}
}

func (s *Store) publish(ctx context.Context, st *state, source string) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	Documents.Set(float64(len(st.docs)))
	LoadsTotal.WithLabelValues(source).Inc()
	if source == "snapshot" {
		s.logger.Info(ctx, "store loaded from snapshot",
			zap.Int("documents", len(st.docs)),
			zap.String("build_id", st.header.BuildID))
	}
}

func (s *Store) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Rebuild re-parses and re-encodes the corpus, writes a new snapshot and
// swaps it in. Concurrent rebuilds are serialized; searches keep using the
// previous state until the swap, and on failure the previous state and
// snapshot stay in place.
func (s *Store) Rebuild(ctx context.Context) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	st, err := s.buildAndSave(ctx, "rebuild")
	if err != nil {
		s.logger.Error(ctx, "rebuild failed, keeping previous store", zap.Error(err))
		return err
	}
	s.publish(ctx, st, "rebuild")
	return nil
}

// Save writes the current state as a snapshot in dir.
func (s *Store) Save(ctx context.Context, dir string) error {
	st := s.current()
	if st.empty() {
		return ErrEmpty
	}
	snap, err := st.snapshot()
	if err != nil {
		return err
	}
	return vector.WriteSnapshot(ctx, snapshotPath(dir), snap)
}

// SearchByWeakness returns up to k documents nearest to weaknessID in the
// weakness index, ascending by distance. An empty store returns nothing.
func (s *Store) SearchByWeakness(ctx context.Context, weaknessID string, k int) ([]Result, error) {
	ctx, span := s.tracer.Start(ctx, "vecstore.SearchByWeakness",
		trace.WithAttributes(attribute.String("weakness_id", weaknessID), attribute.Int("k", k)))
	defer span.End()
	if k < 1 {
		return nil, fmt.Errorf("vecstore: k must be positive, got %d", k)
	}
	st := s.current()
	if st.empty() {
		return nil, nil
	}
	SearchesTotal.WithLabelValues(vector.WeaknessIndex).Inc()
	qv, err := embedding.EncodeOne(ctx, s.encoder, weaknessID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("vecstore: encode query: %w", err)
	}
	return s.query(st, st.weakness, qv, k, nil)
}

// SearchByText returns up to k documents nearest to query in the full-text
// index. A non-empty language restricts results to documents listing it.
func (s *Store) SearchByText(ctx context.Context, query string, k int, language string) ([]Result, error) {
	ctx, span := s.tracer.Start(ctx, "vecstore.SearchByText",
		trace.WithAttributes(attribute.String("language", language), attribute.Int("k", k)))
	defer span.End()
	if k < 1 {
		return nil, fmt.Errorf("vecstore: k must be positive, got %d", k)
	}
	st := s.current()
	if st.empty() {
		return nil, nil
	}
	lang := vector.NormalizeLabel(language)
	SearchesTotal.WithLabelValues(vector.FullTextIndex).Inc()
	if lang == "" {
		qv, err := embedding.EncodeOne(ctx, s.encoder, query)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("vecstore: encode query: %w", err)
		}
		return s.query(st, st.fullText, qv, k, nil)
	}

	if s.strategy == FilterPartition {
		part, ok := st.partitions[lang]
		if !ok {
			return nil, nil
		}
		qv, err := embedding.EncodeOne(ctx, s.encoder, query)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("vecstore: encode query: %w", err)
		}
		return s.query(st, part, qv, k, nil)
	}

	candidates := map[int64]bool{}
	for _, d := range st.docs {
		if d.Metadata.HasLanguage(lang) {
			candidates[int64(d.ID)] = true
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	qv, err := embedding.EncodeOne(ctx, s.encoder, query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("vecstore: encode query: %w", err)
	}
	results, err := s.query(st, st.fullText, qv, len(candidates), candidates)
	if err != nil {
		return nil, err
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *Store) query(st *state, idx index.Index, qv []float32, k int, keep map[int64]bool) ([]Result, error) {
	ids, dists, err := idx.Query(qv, k)
	if err != nil {
		return nil, fmt.Errorf("vecstore: query index: %w", err)
	}
	results := make([]Result, 0, len(ids))
	for n, id := range ids {
		if keep != nil && !keep[id] {
			continue
		}
		if id < 0 || int(id) >= len(st.docs) {
			return nil, fmt.Errorf("vecstore: index returned unknown id %d", id)
		}
		results = append(results, Result{Document: st.docs[id], Distance: dists[n]})
	}
	return results, nil
}

// Len returns the number of documents.
func (s *Store) Len() int {
	st := s.current()
	if st == nil {
		return 0
	}
	return len(st.docs)
}

// Documents returns a copy of the document table in id order.
func (s *Store) Documents() []vector.Document {
	st := s.current()
	if st == nil {
		return nil
	}
	return append([]vector.Document(nil), st.docs...)
}

// Header returns the snapshot header of the current state. It is zero for
// an empty store.
func (s *Store) Header() vector.Header {
	st := s.current()
	if st == nil {
		return vector.Header{}
	}
	return st.header
}

// Dir returns the store directory.
func (s *Store) Dir() string { return filepath.Clean(s.cfg.Path) }
