// Package muhash implements a MuHash-style multiplicative set commitment
// over a 3072-bit group. Elements are added/removed by
// multiplying/dividing the running product, so UTXO set diffs apply
// independent of insertion order.
package muhash

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"rubin.dev/node/hashes"
)

// modulus is 2^3072 - 1103717, the prime used by MuHash3072
// constructions.
var modulus = func() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), 3072)
	m.Sub(m, big.NewInt(1103717))
	return m
}()

// MuHash is a single multiset commitment value: an element of the
// multiplicative group mod `modulus`.
type MuHash struct {
	state *big.Int
}

// New returns the commitment of the empty set (the multiplicative
// identity).
func New() MuHash {
	return MuHash{state: big.NewInt(1)}
}

// EmptyMuHash is the commitment of the empty UTXO set.
func EmptyMuHash() MuHash {
	return New()
}

// Clone returns an independent copy of m.
func (m MuHash) Clone() MuHash {
	return MuHash{state: new(big.Int).Set(m.ensure())}
}

func (m MuHash) ensure() *big.Int {
	if m.state == nil {
		return big.NewInt(1)
	}
	return m.state
}

// AddElement folds data into the running multiset product.
func (m *MuHash) AddElement(data []byte) {
	e := hashToElement(data)
	s := m.ensure()
	s.Mul(s, e)
	s.Mod(s, modulus)
	m.state = s
}

// RemoveElement undoes a prior AddElement(data) by multiplying in the
// modular inverse.
func (m *MuHash) RemoveElement(data []byte) {
	e := hashToElement(data)
	inv := new(big.Int).ModInverse(e, modulus)
	s := m.ensure()
	s.Mul(s, inv)
	s.Mod(s, modulus)
	m.state = s
}

// Finalize produces the fixed-width, storable form of m.
func (m MuHash) Finalize() hashes.Uint3072 {
	out, ok := hashes.Uint3072FromBigInt(m.ensure())
	if !ok {
		// state is always reduced mod modulus < 2^3072, so this cannot happen.
		panic("muhash: finalized state overflowed Uint3072")
	}
	return out
}

// FromUint3072 inflates a previously finalized commitment back into a
// MuHash.
func FromUint3072(u hashes.Uint3072) MuHash {
	return MuHash{state: u.BigInt()}
}

// CommitmentHash reduces a finalized multiset to the 32-byte header
// utxo_commitment field.
func CommitmentHash(u hashes.Uint3072) hashes.Hash {
	return hashes.DomainHash("muhash-commitment-v1", u[:])
}

// hashToElement maps arbitrary data to a uniformly-distributed nonzero
// element of the group via counter-mode SHAKE expansion, re-drawing on the
// (cryptographically negligible) chance of hitting zero or >= modulus
// after masking.
func hashToElement(data []byte) *big.Int {
	for counter := uint32(0); ; counter++ {
		xof := sha3.NewShake256()
		_, _ = xof.Write([]byte("muhash-element-v1"))
		_, _ = xof.Write(data)
		var counterBytes [4]byte
		counterBytes[0] = byte(counter)
		counterBytes[1] = byte(counter >> 8)
		counterBytes[2] = byte(counter >> 16)
		counterBytes[3] = byte(counter >> 24)
		_, _ = xof.Write(counterBytes[:])

		buf := make([]byte, hashes.Uint3072Bytes)
		_, _ = xof.Read(buf)
		// Clear the top bit so the value is always < modulus (modulus is
		// 2^3072 minus a small constant).
		buf[0] &= 0x7f

		e := new(big.Int).SetBytes(buf)
		if e.Sign() != 0 && e.Cmp(modulus) < 0 {
			return e
		}
	}
}
