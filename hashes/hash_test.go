package hashes

import (
	"math/big"
	"testing"
)

func TestSentinelsDistinct(t *testing.T) {
	if ZeroHash == Origin {
		t.Fatal("ZeroHash and Origin must not alias")
	}
	if !ZeroHash.IsZero() || ZeroHash.IsOrigin() {
		t.Fatal("ZeroHash classification wrong")
	}
	if !Origin.IsOrigin() || Origin.IsZero() {
		t.Fatal("Origin classification wrong")
	}
}

func TestHashLessTotalOrder(t *testing.T) {
	a := Hash{0x01}
	b := Hash{0x02}
	if !a.Less(b) || b.Less(a) {
		t.Fatal("Less must be a strict total order")
	}
}

func TestDomainHashSeparatesTags(t *testing.T) {
	data := []byte("payload")
	h1 := DomainHash("tag-a", data)
	h2 := DomainHash("tag-b", data)
	if h1 == h2 {
		t.Fatal("different domain tags must not collide for the same payload")
	}
}

func TestBlueWorkRoundTrip(t *testing.T) {
	w := NewBlueWorkFromUint64(12345)
	back := BlueWorkFromBytes(w.Bytes())
	if back.Cmp(w) != 0 {
		t.Fatalf("round-trip mismatch: %v vs %v", back, w)
	}
}

func TestBlueWorkGreaterThan(t *testing.T) {
	lo := NewBlueWorkFromUint64(10)
	hi := NewBlueWorkFromUint64(20)
	if !hi.GreaterThan(lo) || lo.GreaterThan(hi) {
		t.Fatal("GreaterThan disagrees with magnitude")
	}
	if lo.GreaterThan(lo) {
		t.Fatal("GreaterThan must be strict")
	}
}

func TestUint3072RoundTrip(t *testing.T) {
	x := new(big.Int).SetUint64(987654321)
	enc, ok := Uint3072FromBigInt(x)
	if !ok {
		t.Fatal("encode failed")
	}
	if enc.BigInt().Cmp(x) != 0 {
		t.Fatal("round-trip mismatch")
	}
}

func TestUint3072Overflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), Uint3072Bytes*8+1)
	if _, ok := Uint3072FromBigInt(huge); ok {
		t.Fatal("expected overflow rejection")
	}
}
