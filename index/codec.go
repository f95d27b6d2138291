package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrCorrupt reports an index blob that cannot be decoded.
var ErrCorrupt = errors.New("index: corrupt data")

var magic = [4]byte{'R', 'V', 'I', 'X'}

const formatVersion = 1

// Encode serializes ids and vectors as:
// magic "RVIX", version(uint32), dim(uint32), n(uint32), then per entry
// id(uint64) and vec(float32[dim]), all little-endian.
func Encode(ids []int64, vectors [][]float32) ([]byte, error) {
	if len(ids) != len(vectors) {
		return nil, fmt.Errorf("index: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	out := make([]byte, 16, 16+len(ids)*(8+4*dim))
	copy(out[0:4], magic[:])
	binary.LittleEndian.PutUint32(out[4:8], formatVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(dim))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(ids)))
	for i, id := range ids {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("index: inconsistent vector dims %d vs %d", len(vectors[i]), dim)
		}
		out = binary.LittleEndian.AppendUint64(out, uint64(id))
		for _, v := range vectors[i] {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
		}
	}
	return out, nil
}

// Decode parses data produced by Encode. Truncated input, trailing bytes
// and unknown headers are reported as ErrCorrupt.
func Decode(data []byte) ([]int64, [][]float32, error) {
	if len(data) < 16 {
		return nil, nil, fmt.Errorf("%w: %d byte header", ErrCorrupt, len(data))
	}
	if [4]byte(data[0:4]) != magic {
		return nil, nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[0:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	n := int(binary.LittleEndian.Uint32(data[12:16]))
	entry := 8 + 4*dim
	if (len(data)-16)%entry != 0 || (len(data)-16)/entry != n {
		return nil, nil, fmt.Errorf("%w: %d bytes for %d entries of dim %d", ErrCorrupt, len(data)-16, n, dim)
	}
	ids := make([]int64, n)
	vecs := make([][]float32, n)
	off := 16
	for i := 0; i < n; i++ {
		ids[i] = int64(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[i] = vec
	}
	return ids, vecs, nil
}
