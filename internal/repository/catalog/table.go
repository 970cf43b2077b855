// Package catalog owns the in-memory product table and its row-aligned
// embedding matrix. Both are populated once at startup and read-only
// afterwards, so concurrent readers need no locking.
package catalog

import (
	"fmt"
	"sort"

	"github.com/marketlens/marketlens/internal/domain"
)

// Table is the in-memory product catalog. Row order is significant: the
// embedding matrix is aligned to it 1:1 by ordinal position.
type Table struct {
	rows  []domain.Row
	vocab domain.Vocabulary
}

// NewTable builds a table from rows and scans the category/brand/platform
// vocabularies.
func NewTable(rows []domain.Row) *Table {
	return &Table{rows: rows, vocab: scanVocabulary(rows)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the row at index i.
func (t *Table) Row(i int) domain.Row { return t.rows[i] }

// Vocabulary returns the scanned category/brand/platform vocabularies.
func (t *Table) Vocabulary() domain.Vocabulary { return t.vocab }

func scanVocabulary(rows []domain.Row) domain.Vocabulary {
	return domain.Vocabulary{
		Categories: uniqueSorted(rows, func(r domain.Row) string { return r.SuperCategory }),
		Brands:     uniqueSorted(rows, func(r domain.Row) string { return r.Brand }),
		Platforms:  uniqueSorted(rows, func(r domain.Row) string { return r.Platform }),
	}
}

func uniqueSorted(rows []domain.Row, key func(domain.Row) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Matrix is a dense row-major float32 embedding matrix. Vectors are expected
// to be L2-normalized so a dot product is a cosine similarity.
type Matrix struct {
	data []float32
	rows int
	dim  int
}

// NewMatrix wraps a flat row-major buffer.
func NewMatrix(data []float32, dim int) (*Matrix, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("matrix dimension must be positive, got %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("matrix buffer length %d is not a multiple of dimension %d", len(data), dim)
	}
	return &Matrix{data: data, rows: len(data) / dim, dim: dim}, nil
}

// Rows returns the number of row vectors.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the vector dimensionality.
func (m *Matrix) Dim() int { return m.dim }

// VectorAt returns the vector for catalog row i. The slice aliases the
// underlying buffer and must not be mutated.
func (m *Matrix) VectorAt(i int) []float32 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// Dot returns the dot product of row i's vector with q. Extra components of
// the longer vector are ignored, matching a truncated-dimensions embedder.
func (m *Matrix) Dot(i int, q []float32) float64 {
	v := m.VectorAt(i)
	n := len(v)
	if len(q) < n {
		n = len(q)
	}
	var sum float64
	for j := 0; j < n; j++ {
		sum += float64(v[j]) * float64(q[j])
	}
	return sum
}

// filterRows keeps only matrix rows where keep[i] is true. Used to carry the
// catalog's load-time row drops through to the embeddings so index alignment
// survives ingestion.
func (m *Matrix) filterRows(keep []bool) (*Matrix, error) {
	if len(keep) != m.rows {
		return nil, fmt.Errorf("%w: mask covers %d rows, matrix has %d",
			domain.ErrEmbeddingMisaligned, len(keep), m.rows)
	}
	out := make([]float32, 0, len(m.data))
	for i := 0; i < m.rows; i++ {
		if keep[i] {
			out = append(out, m.VectorAt(i)...)
		}
	}
	return NewMatrix(out, m.dim)
}
