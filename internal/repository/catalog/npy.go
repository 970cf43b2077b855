package catalog

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// readNPY decodes a NumPy .npy file holding a little-endian float32 C-order
// matrix, the format the embedding build step writes. Only the subset this
// pipeline produces is supported.
func readNPY(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embeddings npy: %w", err)
	}
	defer f.Close()
	return decodeNPY(f)
}

func decodeNPY(r io.Reader) (*Matrix, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read npy magic: %w", err)
	}
	if string(magic[:6]) != "\x93NUMPY" {
		return nil, fmt.Errorf("not an npy file (bad magic)")
	}
	major := magic[6]

	var headerLen int
	switch major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen = int(l)
	case 2, 3:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return nil, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen = int(l)
	default:
		return nil, fmt.Errorf("unsupported npy version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("read npy header: %w", err)
	}
	rows, dim, err := parseNPYHeader(string(header))
	if err != nil {
		return nil, err
	}

	raw := make([]byte, rows*dim*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read npy data (%dx%d float32): %w", rows, dim, err)
	}
	data := make([]float32, rows*dim)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return NewMatrix(data, dim)
}

// parseNPYHeader extracts shape from the python dict literal header, e.g.
// {'descr': '<f4', 'fortran_order': False, 'shape': (1000, 384), }
func parseNPYHeader(h string) (rows, dim int, err error) {
	if !strings.Contains(h, "'<f4'") {
		return 0, 0, fmt.Errorf("npy dtype must be little-endian float32, header: %s", strings.TrimSpace(h))
	}
	if strings.Contains(h, "'fortran_order': True") {
		return 0, 0, fmt.Errorf("fortran-order npy not supported")
	}
	open := strings.Index(h, "(")
	close := strings.Index(h, ")")
	if open < 0 || close < open {
		return 0, 0, fmt.Errorf("npy header missing shape tuple")
	}
	parts := strings.Split(h[open+1:close], ",")
	var dims []int
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("bad npy shape component %q", p)
		}
		dims = append(dims, n)
	}
	switch len(dims) {
	case 1:
		return dims[0], 1, nil
	case 2:
		return dims[0], dims[1], nil
	default:
		return 0, 0, fmt.Errorf("npy shape must be 1-D or 2-D, got %d dims", len(dims))
	}
}
