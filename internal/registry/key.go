package registry

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// Key derives the index key for a path from the first eight bytes of its
// BLAKE3 digest. Distinct paths may collide; lookups always confirm the
// stored path.
func Key(path string) int64 {
	sum := blake3.Sum256([]byte(path))
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
