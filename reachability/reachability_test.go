package reachability

import (
	"testing"

	"rubin.dev/node/hashes"
)

func newHash(b byte) hashes.Hash {
	var h hashes.Hash
	h[0] = b
	return h
}

func TestAddBlock_LinearChainAncestry(t *testing.T) {
	s := New()
	a, b, c := newHash(1), newHash(2), newHash(3)

	if err := s.AddBlock(a, hashes.Origin); err != nil {
		t.Fatalf("AddBlock(a): %v", err)
	}
	if err := s.AddBlock(b, a); err != nil {
		t.Fatalf("AddBlock(b): %v", err)
	}
	if err := s.AddBlock(c, b); err != nil {
		t.Fatalf("AddBlock(c): %v", err)
	}

	ok, err := s.IsDAGAncestorOf(a, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a to be an ancestor of c")
	}

	ok, err = s.IsDAGAncestorOf(c, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected c not to be an ancestor of a")
	}
}

func TestAddBlock_MergeBlockOtherParentReachable(t *testing.T) {
	s := New()
	a, b1, b2, m := newHash(1), newHash(2), newHash(3), newHash(4)

	_ = s.AddBlock(a, hashes.Origin)
	_ = s.AddBlock(b1, a)
	_ = s.AddBlock(b2, a)
	if err := s.AddBlock(m, b1, b2); err != nil {
		t.Fatalf("AddBlock(m): %v", err)
	}

	for _, anc := range []hashes.Hash{a, b1, b2} {
		ok, err := s.IsDAGAncestorOf(anc, m)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("expected %s to be an ancestor of m", anc)
		}
	}
}

func TestIsDAGAncestorOf_UnknownBlock(t *testing.T) {
	s := New()
	if _, err := s.IsDAGAncestorOf(newHash(9), newHash(8)); err != ErrUnknownBlock {
		t.Fatalf("expected ErrUnknownBlock, got %v", err)
	}
}

func TestAddBlock_DeepChainRelayout(t *testing.T) {
	s := New()
	parent := hashes.Origin
	var children []hashes.Hash
	for i := byte(1); i < 64; i++ {
		h := newHash(i)
		if err := s.AddBlock(h, parent); err != nil {
			t.Fatalf("AddBlock(%d): %v", i, err)
		}
		children = append(children, h)
		parent = h
	}
	ok, err := s.IsDAGAncestorOf(children[0], children[len(children)-1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first block to be an ancestor of the last after repeated relayout")
	}
}
