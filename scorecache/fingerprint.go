package scorecache

import (
	"encoding/binary"

	"github.com/cespare/xxhash"

	"github.com/domino14/wordent/word"
)

// Fingerprint hashes the vocabulary size and every word in order.
func Fingerprint(words []word.Word) uint64 {
	d := xxhash.New()
	var sz [8]byte
	binary.LittleEndian.PutUint64(sz[:], uint64(len(words)))
	d.Write(sz[:])
	for _, w := range words {
		d.Write(w[:])
	}
	return d.Sum64()
}
