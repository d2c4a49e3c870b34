// Package descramble undoes the address line scrambling of ROM chips whose
// address pins are wired to the CPU address bus in a non-identity order.
//
// The scrambled lines are A8 to A16. The lower eight address lines are wired
// straight through and so the data is moved in blocks of 256 bytes. The nine
// scrambled lines mean that the permutation repeats every 128k of ROM. This
// repeat is the chunk size.
package descramble

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// the number of address lines in a block. these lines are not scrambled
	blockBits = 8

	// BlockSize is the number of bytes moved in one go
	BlockSize = 1 << blockBits

	// the number of scrambled address lines
	indexBits = 9

	// ChunkSize is the number of bytes after which the permutation repeats
	ChunkSize = BlockSize << indexBits

	// the number of blocks in a chunk
	blockCount = ChunkSize / BlockSize
)

// Sentinel errors
var (
	ErrGeometry       = errors.New("data is not a whole number of chunks")
	ErrNotPermutation = errors.New("table is not a permutation of address lines A8 to A16")
)

// Table lists the address bits that supply each bit of the permuted block
// index. The order is most significant first and so the first entry is the
// source of A16 and the last entry is the source of A8.
type Table [indexBits]uint8

// Identity is the table for a chip with no scrambling
var Identity = Table{16, 15, 14, 13, 12, 11, 10, 9, 8}

func (t Table) String() string {
	s := strings.Builder{}
	for i, b := range t {
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprintf("A%d<A%d", 16-i, b))
	}
	return s.String()
}

// Validate returns ErrNotPermutation if the table does not use each of the
// address lines A8 to A16 exactly once.
func (t Table) Validate() error {
	var seen uint32
	for _, b := range t {
		if b < blockBits || b >= blockBits+indexBits {
			return fmt.Errorf("%w: A%d out of range", ErrNotPermutation, b)
		}
		if seen&(1<<b) != 0 {
			return fmt.Errorf("%w: A%d used more than once", ErrNotPermutation, b)
		}
		seen |= 1 << b
	}
	return nil
}

// Offset returns the offset within the chunk of the data that should be
// placed at blockOffset. Bits of blockOffset outside of A8 to A16 are ignored.
func (t Table) Offset(blockOffset uint32) uint32 {
	return Bitswap(blockOffset, t[:]...) << blockBits
}

// Inverse returns the table that reverses the permutation of t. Transmuting
// data with the inverse table produces the scrambled image of the data.
func (t Table) Inverse() Table {
	var inv Table
	for i, b := range t {
		inv[16-b] = uint8(16 - i)
	}
	return inv
}

// Bitswap builds a value from the bits of v. The first bit number is the
// source of the most significant bit of the result.
func Bitswap(v uint32, bits ...uint8) uint32 {
	var r uint32
	for _, b := range bits {
		r = (r << 1) | ((v >> b) & 0x01)
	}
	return r
}

// Transmute reorders data in place so that reads at logical addresses return
// the byte the CPU expects. The data must be a non-zero multiple of ChunkSize
// in length.
func Transmute(data []byte, t Table) error {
	if len(data) == 0 || len(data)%ChunkSize != 0 {
		return fmt.Errorf("%w: %#x bytes", ErrGeometry, len(data))
	}
	if err := t.Validate(); err != nil {
		return err
	}

	// the whole chunk is copied before any block is moved. reading from the
	// copy means a block that has been overwritten can still be used as a
	// source
	chunk := make([]byte, ChunkSize)

	for base := 0; base < len(data); base += ChunkSize {
		copy(chunk, data[base:base+ChunkSize])
		for blk := range blockCount {
			dst := uint32(blk * BlockSize)
			src := t.Offset(dst)
			copy(data[base+int(dst):base+int(dst)+BlockSize], chunk[src:src+BlockSize])
		}
	}

	return nil
}
