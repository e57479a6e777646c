package hashes

import "math/big"

// BlueWork is a monotone measure of cumulative proof-of-work along a DAG's
// selected chain, used to compare competing histories when deciding
// between pruning proofs.
type BlueWork struct {
	v *big.Int
}

// ZeroBlueWork is the additive identity.
func ZeroBlueWork() BlueWork {
	return BlueWork{v: new(big.Int)}
}

// NewBlueWorkFromUint64 builds a BlueWork from a plain counter, useful in
// tests and for a single block's per-block work contribution.
func NewBlueWorkFromUint64(v uint64) BlueWork {
	return BlueWork{v: new(big.Int).SetUint64(v)}
}

// Add returns w + other as a new BlueWork; it does not mutate either
// operand.
func (w BlueWork) Add(other BlueWork) BlueWork {
	a := w.bigOrZero()
	b := other.bigOrZero()
	return BlueWork{v: new(big.Int).Add(a, b)}
}

// Cmp compares w against other the way (*big.Int).Cmp does.
func (w BlueWork) Cmp(other BlueWork) int {
	return w.bigOrZero().Cmp(other.bigOrZero())
}

// GreaterThan reports whether w strictly exceeds other.
func (w BlueWork) GreaterThan(other BlueWork) bool {
	return w.Cmp(other) > 0
}

// Bytes returns the big-endian, minimal-length encoding of w.
func (w BlueWork) Bytes() []byte {
	return w.bigOrZero().Bytes()
}

// BlueWorkFromBytes decodes a big-endian byte slice into a BlueWork.
func BlueWorkFromBytes(b []byte) BlueWork {
	return BlueWork{v: new(big.Int).SetBytes(b)}
}

func (w BlueWork) bigOrZero() *big.Int {
	if w.v == nil {
		return new(big.Int)
	}
	return w.v
}
