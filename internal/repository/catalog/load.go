package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marketlens/marketlens/internal/domain"
)

// Source names the files a catalog is loaded from. DataPath may be a .csv or
// a .parquet file; EmbeddingsPath is an optional .npy matrix (redundant when
// the parquet carries inline embeddings).
type Source struct {
	DataPath       string
	EmbeddingsPath string
}

// Load reads the catalog and its row-aligned embedding matrix. The matrix is
// nil when no embeddings source is configured (lexical-only mode). Any row
// dropped during ingestion is dropped from the matrix as well, so the
// alignment invariant holds by construction; a count mismatch between the
// two files fails loudly.
func Load(src Source) (*Table, *Matrix, error) {
	var (
		rows   []domain.Row
		keep   []bool
		matrix *Matrix
		err    error
	)

	switch strings.ToLower(filepath.Ext(src.DataPath)) {
	case ".parquet":
		rows, matrix, err = readParquet(src.DataPath)
	case ".csv":
		rows, keep, err = readCSV(src.DataPath)
	default:
		return nil, nil, fmt.Errorf("unsupported catalog format %q (want .csv or .parquet)", filepath.Ext(src.DataPath))
	}
	if err != nil {
		return nil, nil, err
	}

	if src.EmbeddingsPath != "" {
		if matrix != nil {
			return nil, nil, fmt.Errorf("catalog %s already carries embeddings; drop embeddings_path", src.DataPath)
		}
		matrix, err = readNPY(src.EmbeddingsPath)
		if err != nil {
			return nil, nil, err
		}
		if keep != nil && matrix.Rows() == len(keep) {
			matrix, err = matrix.filterRows(keep)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	if matrix != nil && matrix.Rows() != len(rows) {
		return nil, nil, fmt.Errorf("%w: catalog has %d rows, matrix has %d",
			domain.ErrEmbeddingMisaligned, len(rows), matrix.Rows())
	}

	return NewTable(rows), matrix, nil
}
