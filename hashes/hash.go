// Package hashes provides the fixed-width hash and numeric primitives the
// consensus core builds on: 32-byte block hashes, block-level integers, and
// the blue-work accumulator used to compare competing DAG histories.
package hashes

import (
	"bytes"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hash is a 32-byte opaque block identifier with a total ordering for
// tie-breaks.
type Hash [32]byte

// ZeroHash is the sentinel for "no parent".
var ZeroHash = Hash{}

// Origin is the virtual root ancestor of every real block. It is never a
// real parent and is represented by a reserved pattern (31 0xff bytes
// followed by a final 0xfe byte) so it can never collide with a genuine
// digest or with ZeroHash.
var Origin = Hash{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Less gives Hash a total order, used for deterministic tie-breaking.
func (h Hash) Less(other Hash) bool {
	return bytes.Compare(h[:], other[:]) < 0
}

// IsZero reports whether h is the reserved "no parent" sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// IsOrigin reports whether h is the reserved virtual-root sentinel.
func (h Hash) IsOrigin() bool {
	return h == Origin
}

// HashFromBytes copies b (which must be exactly 32 bytes) into a Hash.
func HashFromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != 32 {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

// BlockLevel is the integer derived from how much a block's PoW exceeds the
// base difficulty. Level 0 means "meets base difficulty".
type BlockLevel uint8

// DomainHash computes sha3-256 over a domain separator tag followed by the
// concatenation of data.
func DomainHash(tag string, data ...[]byte) Hash {
	h := sha3.New256()
	_, _ = h.Write([]byte(tag))
	for _, d := range data {
		_, _ = h.Write(d)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Sum256 is the plain (untagged) sha3-256 digest, kept for call sites that
// need to hash a single fully-framed byte buffer (e.g. the merkle tree's
// tagged leaf and node preimages).
func Sum256(b []byte) Hash {
	return Hash(sha3.Sum256(b))
}
