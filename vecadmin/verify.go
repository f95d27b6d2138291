package vecadmin

import (
	"context"
	"fmt"
	"math"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/engine"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/index/factory"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vec"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vector"
)

// distanceTolerance absorbs float32 vs float64 accumulation differences
// between the SQL function and the in-memory indices.
const distanceTolerance = 1e-4

// Report is the outcome of Verify.
type Report struct {
	Documents int
	// Checked is the number of self-queries run, two per document.
	Checked  int
	Problems []string
}

// OK reports whether verification found no problems.
func (r Report) OK() bool { return len(r.Problems) == 0 }

func (r *Report) problem(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify loads the snapshot at path and checks that, for every document and
// both indices, the stored embedding finds a neighbour at distance zero, and
// that the index and an ORDER BY vec_l2 scan over the documents table agree
// on the nearest distance. Snapshot validation failures are returned as
// errors; inconsistencies are collected in the Report.
func Verify(ctx context.Context, path string) (Report, error) {
	snap, err := vector.ReadSnapshot(ctx, path, "")
	if err != nil {
		return Report{}, err
	}
	report := Report{Documents: len(snap.Documents)}
	if report.Documents == 0 {
		return report, nil
	}
	indexes := vec.Indexes{}
	for _, name := range []string{vector.WeaknessIndex, vector.FullTextIndex} {
		blob, _ := snap.Index(name)
		idx, err := factory.Decode(blob.Kind, blob.Data)
		if err != nil {
			return report, fmt.Errorf("%w: %s index: %v", vector.ErrCorruptSnapshot, name, err)
		}
		if idx.Len() != report.Documents {
			report.problem("%s index holds %d vectors for %d documents", name, idx.Len(), report.Documents)
		}
		indexes[name] = idx
	}

	if err := engine.RegisterVectorFunctions(); err != nil {
		return report, err
	}
	db, err := openReadOnly(path)
	if err != nil {
		return report, err
	}
	defer db.Close()
	conn, err := vec.Bind(ctx, db, indexes.Lookup)
	if err != nil {
		return report, fmt.Errorf("vecadmin: %w", err)
	}
	defer conn.Close()

	var badDims int
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE vec_dim(weakness_embedding) != ? OR vec_dim(content_embedding) != ?`,
		snap.Header.Dimension, snap.Header.Dimension).Scan(&badDims); err != nil {
		return report, fmt.Errorf("vecadmin: check dimensions: %w", err)
	}
	if badDims > 0 {
		report.problem("%d documents have embeddings not of dimension %d", badDims, snap.Header.Dimension)
	}

	for _, target := range []struct {
		name   string
		column string
		vecs   [][]float32
	}{
		{name: vector.WeaknessIndex, column: "weakness_embedding", vecs: snap.WeaknessEmbeddings},
		{name: vector.FullTextIndex, column: "content_embedding", vecs: snap.ContentEmbeddings},
	} {
		scan := `SELECT id, vec_l2(` + target.column + `, ?) AS d FROM documents ORDER BY d, id LIMIT 1`
		for id, v := range target.vecs {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			blob, err := vector.EncodeEmbedding(v)
			if err != nil {
				return report, err
			}
			var scanID int64
			var scanDist float64
			if err := conn.QueryRowContext(ctx, scan, blob).Scan(&scanID, &scanDist); err != nil {
				return report, fmt.Errorf("vecadmin: %s scan for document %d: %w", target.name, id, err)
			}
			var idxID int64
			var idxDist float64
			if err := conn.QueryRowContext(ctx,
				`SELECT doc_id, distance FROM `+vec.TableName+` WHERE index_name = ? AND doc_id MATCH ? AND k = 1`,
				target.name, blob).Scan(&idxID, &idxDist); err != nil {
				return report, fmt.Errorf("vecadmin: %s index query for document %d: %w", target.name, id, err)
			}
			report.Checked++
			if scanDist > distanceTolerance {
				report.problem("%s: document %d is not its own nearest neighbour in SQL (nearest %d at %.6f)", target.name, id, scanID, scanDist)
			}
			if math.Abs(idxDist-scanDist) > distanceTolerance {
				report.problem("%s: document %d index nearest %d at %.6f, SQL nearest %d at %.6f", target.name, id, idxID, idxDist, scanID, scanDist)
			}
		}
	}
	return report, nil
}
