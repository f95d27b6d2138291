package vecstore

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/bruteforce"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/factory"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/recipe"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
	"golang.org/x/sync/errgroup"
)

// state is one published store generation. It is never mutated after
// publication; Rebuild swaps in a new one.
type state struct {
	header       vector.Header
	docs         []vector.Document
	weaknessVecs [][]float32
	contentVecs  [][]float32
	weakness     index.Index
	fullText     index.Index
	// partitions maps a normalized language to an index over the content
	// vectors of the documents declaring it. Only built for FilterPartition.
	partitions map[string]index.Index
}

func (s *state) empty() bool { return s == nil || len(s.docs) == 0 }

func snapshotPath(dir string) string { return filepath.Join(dir, SnapshotFile) }

func sequentialIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i)
	}
	return ids
}

// build parses and encodes the corpus and builds both indices. An empty
// corpus yields an empty state and a nil snapshot.
func (s *Store) build(ctx context.Context) (*state, *vector.Snapshot, error) {
	docs, err := s.corpus.Documents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("vecstore: read corpus: %w", err)
	}
	if len(docs) == 0 {
		return &state{}, nil, nil
	}
	for i := range docs {
		if docs[i].ID != i {
			return nil, nil, fmt.Errorf("vecstore: corpus document at position %d has id %d", i, docs[i].ID)
		}
	}

	weaknessTexts := make([]string, len(docs))
	contentTexts := make([]string, len(docs))
	for i, d := range docs {
		weaknessTexts[i] = d.Metadata.WeaknessID
		contentTexts[i] = d.Content
	}
	var weaknessVecs, contentVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weaknessVecs, err = s.encoder.Encode(gctx, weaknessTexts)
		if err != nil {
			return fmt.Errorf("vecstore: encode weakness ids: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contentVecs, err = s.encoder.Encode(gctx, contentTexts)
		if err != nil {
			return fmt.Errorf("vecstore: encode contents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(weaknessVecs) != len(docs) || len(contentVecs) != len(docs) {
		return nil, nil, fmt.Errorf("vecstore: %w: encoder returned %d/%d vectors for %d documents",
			embedding.ErrEmbeddingFailed, len(weaknessVecs), len(contentVecs), len(docs))
	}

	dim := s.encoder.Dimension()
	kind := index.Resolve(s.indexKind, len(docs), dim)
	ids := sequentialIDs(len(docs))
	snap := &vector.Snapshot{
		Header: vector.Header{
			Encoder:           s.encoder.Fingerprint(),
			Dimension:         dim,
			CorpusFingerprint: recipe.Fingerprint(docs),
		},
		Documents:          docs,
		WeaknessEmbeddings: weaknessVecs,
		ContentEmbeddings:  contentVecs,
	}
	st := &state{docs: docs, weaknessVecs: weaknessVecs, contentVecs: contentVecs}
	for _, target := range []struct {
		name string
		vecs [][]float32
		dst  *index.Index
	}{
		{name: vector.WeaknessIndex, vecs: weaknessVecs, dst: &st.weakness},
		{name: vector.FullTextIndex, vecs: contentVecs, dst: &st.fullText},
	} {
		idx, err := factory.New(kind, s.cfg.CoverBase)
		if err != nil {
			return nil, nil, err
		}
		if err := idx.Build(ids, target.vecs); err != nil {
			return nil, nil, fmt.Errorf("vecstore: build %s index: %w", target.name, err)
		}
		data, err := idx.MarshalBinary()
		if err != nil {
			return nil, nil, fmt.Errorf("vecstore: serialize %s index: %w", target.name, err)
		}
		snap.Indexes = append(snap.Indexes, vector.IndexBlob{Name: target.name, Kind: kind, Data: data})
		*target.dst = idx
	}
	if err := s.partition(st); err != nil {
		return nil, nil, err
	}
	st.header = snap.Header
	return st, snap, nil
}

// restore turns a validated snapshot into a state, decoding both index
// blobs and checking them against the document table.
func (s *Store) restore(snap *vector.Snapshot) (*state, error) {
	st := &state{
		header:       snap.Header,
		docs:         snap.Documents,
		weaknessVecs: snap.WeaknessEmbeddings,
		contentVecs:  snap.ContentEmbeddings,
	}
	if len(st.docs) == 0 {
		return st, nil
	}
	if snap.Header.Dimension != s.encoder.Dimension() {
		return nil, fmt.Errorf("%w: snapshot dimension %d, encoder dimension %d",
			vector.ErrEncoderMismatch, snap.Header.Dimension, s.encoder.Dimension())
	}
	for _, target := range []struct {
		name string
		dst  *index.Index
	}{
		{name: vector.WeaknessIndex, dst: &st.weakness},
		{name: vector.FullTextIndex, dst: &st.fullText},
	} {
		blob, _ := snap.Index(target.name)
		idx, err := factory.Decode(blob.Kind, blob.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s index: %v", vector.ErrCorruptSnapshot, target.name, err)
		}
		if idx.Len() != len(st.docs) || idx.Dimension() != snap.Header.Dimension {
			return nil, fmt.Errorf("%w: %s index has %d vectors of dimension %d, want %d of %d",
				vector.ErrCorruptSnapshot, target.name, idx.Len(), idx.Dimension(), len(st.docs), snap.Header.Dimension)
		}
		*target.dst = idx
	}
	if err := s.partition(st); err != nil {
		return nil, err
	}
	return st, nil
}

// partition builds the per-language content indices.
func (s *Store) partition(st *state) error {
	if s.strategy != FilterPartition {
		return nil
	}
	members := map[string][]int64{}
	for _, d := range st.docs {
		for _, lang := range vector.NormalizeSet(d.Metadata.Languages) {
			members[lang] = append(members[lang], int64(d.ID))
		}
	}
	st.partitions = make(map[string]index.Index, len(members))
	for lang, ids := range members {
		vecs := make([][]float32, len(ids))
		for i, id := range ids {
			vecs[i] = st.contentVecs[id]
		}
		idx := &bruteforce.Index{}
		if err := idx.Build(ids, vecs); err != nil {
			return fmt.Errorf("vecstore: build %s partition: %w", lang, err)
		}
		st.partitions[lang] = idx
	}
	return nil
}

// snapshot reconstructs the persisted form of st.
func (st *state) snapshot() (*vector.Snapshot, error) {
	snap := &vector.Snapshot{
		Header:             st.header,
		Documents:          st.docs,
		WeaknessEmbeddings: st.weaknessVecs,
		ContentEmbeddings:  st.contentVecs,
	}
	snap.Header.BuildID = ""
	for _, target := range []struct {
		name string
		idx  index.Index
	}{
		{name: vector.WeaknessIndex, idx: st.weakness},
		{name: vector.FullTextIndex, idx: st.fullText},
	} {
		data, err := target.idx.MarshalBinary()
		if err != nil {
			return nil, err
		}
		snap.Indexes = append(snap.Indexes, vector.IndexBlob{Name: target.name, Kind: factory.KindOf(target.idx), Data: data})
	}
	return snap, nil
}
