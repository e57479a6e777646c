package muhash

import "testing"

func TestEmptyMuHashRoundTrip(t *testing.T) {
	m := EmptyMuHash()
	finalized := m.Finalize()
	if FromUint3072(finalized).Finalize() != finalized {
		t.Fatal("empty multiset must round-trip through Uint3072")
	}
}

func TestAddElementOrderIndependent(t *testing.T) {
	a := New()
	a.AddElement([]byte("utxo-1"))
	a.AddElement([]byte("utxo-2"))

	b := New()
	b.AddElement([]byte("utxo-2"))
	b.AddElement([]byte("utxo-1"))

	if a.Finalize() != b.Finalize() {
		t.Fatal("multiset commitment must not depend on insertion order")
	}
}

func TestRemoveElementUndoesAdd(t *testing.T) {
	m := New()
	m.AddElement([]byte("utxo-1"))
	m.AddElement([]byte("utxo-2"))
	m.RemoveElement([]byte("utxo-2"))

	only1 := New()
	only1.AddElement([]byte("utxo-1"))

	if m.Finalize() != only1.Finalize() {
		t.Fatal("removing an element must exactly undo its addition")
	}
}

func TestUint3072RoundTripPreservesCommitment(t *testing.T) {
	m := New()
	m.AddElement([]byte("a"))
	m.AddElement([]byte("b"))
	m.AddElement([]byte("c"))

	finalized := m.Finalize()
	inflated := FromUint3072(finalized)
	if inflated.Finalize() != finalized {
		t.Fatal("MuHash <-> Uint3072 round trip must be lossless")
	}
}

func TestCommitmentHashDeterministic(t *testing.T) {
	m := New()
	m.AddElement([]byte("x"))
	f := m.Finalize()
	if CommitmentHash(f) != CommitmentHash(f) {
		t.Fatal("CommitmentHash must be deterministic")
	}
}
