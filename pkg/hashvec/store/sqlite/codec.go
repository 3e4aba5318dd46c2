package sqlite

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
)

// Blobs hold little-endian 8-byte values back to back.
const wordSize = 8

func encodeFloat64s(values []float64) []byte {
	buf := make([]byte, len(values)*wordSize)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*wordSize:], math.Float64bits(v))
	}
	return buf
}

func decodeFloat64s(buf []byte) ([]float64, error) {
	if len(buf)%wordSize != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of %d", internalerr.ErrInvalidInput, len(buf), wordSize)
	}
	out := make([]float64, len(buf)/wordSize)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*wordSize:]))
	}
	return out, nil
}

func encodeInt64s(values []int64) []byte {
	buf := make([]byte, len(values)*wordSize)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*wordSize:], uint64(v))
	}
	return buf
}

func decodeInt64s(buf []byte) ([]int64, error) {
	if len(buf)%wordSize != 0 {
		return nil, fmt.Errorf("%w: blob length %d is not a multiple of %d", internalerr.ErrInvalidInput, len(buf), wordSize)
	}
	out := make([]int64, len(buf)/wordSize)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(buf[i*wordSize:]))
	}
	return out, nil
}
