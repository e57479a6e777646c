package consensus

import (
	"testing"

	"rubin.dev/node/hashes"
)

type fakeStatuses struct {
	m map[hashes.Hash]BlockStatus
}

func (f *fakeStatuses) Get(h hashes.Hash) (BlockStatus, bool, error) {
	s, ok := f.m[h]
	return s, ok, nil
}

type fakeReachability struct {
	// ancestors[a] is the set of descendants b for which a is an ancestor.
	ancestors map[hashes.Hash]map[hashes.Hash]bool
}

func (f *fakeReachability) IsDAGAncestorOf(a, b hashes.Hash) (bool, error) {
	set, ok := f.ancestors[a]
	if !ok {
		return false, nil
	}
	return set[b], nil
}

func testParams() Params {
	return Params{
		BlockVersion:                       1,
		MaxBlockParents:                    10,
		MaxBlockLevel:                      225,
		TimestampDeviationToleranceSeconds: 600,
		SkipProofOfWork:                    true,
	}
}

func newHash(b byte) hashes.Hash {
	var h hashes.Hash
	h[0] = b
	return h
}

func TestValidateHeaderInIsolation_Success(t *testing.T) {
	p := &HeaderProcessor{Params: testParams(), Now: func() uint64 { return 1000 }}
	h := Header{
		Version:        1,
		ParentsByLevel: [][]hashes.Hash{{newHash(1)}},
		Timestamp:      1000,
	}
	if _, err := p.ValidateHeaderInIsolation(h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateHeaderInIsolation_WrongVersion(t *testing.T) {
	p := &HeaderProcessor{Params: testParams(), Now: func() uint64 { return 0 }}
	h := Header{Version: 2, ParentsByLevel: [][]hashes.Hash{{newHash(1)}}}
	_, err := p.ValidateHeaderInIsolation(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != WrongBlockVersion {
		t.Fatalf("expected WrongBlockVersion, got %v", err)
	}
}

func TestValidateHeaderInIsolation_NoParents(t *testing.T) {
	p := &HeaderProcessor{Params: testParams(), Now: func() uint64 { return 0 }}
	h := Header{Version: 1}
	_, err := p.ValidateHeaderInIsolation(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != NoParents {
		t.Fatalf("expected NoParents, got %v", err)
	}
}

func TestValidateHeaderInIsolation_TooManyParents(t *testing.T) {
	params := testParams()
	params.MaxBlockParents = 2
	p := &HeaderProcessor{Params: params, Now: func() uint64 { return 0 }}
	parents := []hashes.Hash{newHash(1), newHash(2), newHash(3)}
	h := Header{Version: 1, ParentsByLevel: [][]hashes.Hash{parents}}
	_, err := p.ValidateHeaderInIsolation(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != TooManyParents {
		t.Fatalf("expected TooManyParents, got %v", err)
	}

	// Boundary: exactly MaxBlockParents is accepted.
	h2 := Header{Version: 1, ParentsByLevel: [][]hashes.Hash{parents[:2]}}
	if _, err := p.ValidateHeaderInIsolation(h2); err != nil {
		t.Fatalf("expected boundary accept, got %v", err)
	}
}

func TestValidateHeaderInIsolation_OriginParent(t *testing.T) {
	p := &HeaderProcessor{Params: testParams(), Now: func() uint64 { return 0 }}
	h := Header{Version: 1, ParentsByLevel: [][]hashes.Hash{{hashes.Origin}}}
	_, err := p.ValidateHeaderInIsolation(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != OriginParent {
		t.Fatalf("expected OriginParent, got %v", err)
	}
}

func TestValidateHeaderInIsolation_TimestampBoundary(t *testing.T) {
	p := &HeaderProcessor{Params: testParams(), Now: func() uint64 { return 1_000_000 }}
	max := p.Now() + p.Params.TimestampDeviationToleranceSeconds*1000
	h := Header{Version: 1, ParentsByLevel: [][]hashes.Hash{{newHash(1)}}, Timestamp: max}
	if _, err := p.ValidateHeaderInIsolation(h); err != nil {
		t.Fatalf("expected boundary accept, got %v", err)
	}

	h2 := h
	h2.Timestamp = max + 1
	_, err := p.ValidateHeaderInIsolation(h2)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != TimeTooFarIntoTheFuture {
		t.Fatalf("expected TimeTooFarIntoTheFuture, got %v", err)
	}
}

func TestValidateHeaderInIsolation_PoWSkip(t *testing.T) {
	params := testParams()
	params.SkipProofOfWork = true
	p := &HeaderProcessor{Params: params, Now: func() uint64 { return 0 }}
	h := Header{
		Version:        1,
		ParentsByLevel: [][]hashes.Hash{{newHash(1)}},
		Bits:           0x01000000, // minimal target: 0, so essentially nothing passes without skip
	}
	level, err := p.ValidateHeaderInIsolation(h)
	if err != nil {
		t.Fatalf("expected skip-pow accept, got %v", err)
	}
	if level != 0 {
		t.Fatalf("expected level 0 for a hash that fails pow, got %d", level)
	}
}

func TestValidateParentRelations_MissingParents(t *testing.T) {
	p := &HeaderProcessor{
		Statuses:     &fakeStatuses{m: map[hashes.Hash]BlockStatus{}},
		Reachability: &fakeReachability{ancestors: map[hashes.Hash]map[hashes.Hash]bool{}},
	}
	x := newHash(9)
	h := Header{ParentsByLevel: [][]hashes.Hash{{x}}}
	err := p.ValidateParentRelations(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != MissingParents {
		t.Fatalf("expected MissingParents, got %v", err)
	}
	if len(re.Missing) != 1 || re.Missing[0] != x {
		t.Fatalf("expected missing=[x], got %v", re.Missing)
	}
}

func TestValidateParentRelations_InvalidParent(t *testing.T) {
	x := newHash(9)
	p := &HeaderProcessor{
		Statuses:     &fakeStatuses{m: map[hashes.Hash]BlockStatus{x: StatusInvalid}},
		Reachability: &fakeReachability{ancestors: map[hashes.Hash]map[hashes.Hash]bool{}},
	}
	h := Header{ParentsByLevel: [][]hashes.Hash{{x}}}
	err := p.ValidateParentRelations(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != InvalidParent || re.Parent != x {
		t.Fatalf("expected InvalidParent(x), got %v", err)
	}
}

func TestValidateParentRelations_Incest(t *testing.T) {
	a, b := newHash(1), newHash(2)
	p := &HeaderProcessor{
		Statuses: &fakeStatuses{m: map[hashes.Hash]BlockStatus{a: StatusValid, b: StatusValid}},
		Reachability: &fakeReachability{ancestors: map[hashes.Hash]map[hashes.Hash]bool{
			a: {b: true},
		}},
	}
	h := Header{ParentsByLevel: [][]hashes.Hash{{a, b}}}
	err := p.ValidateParentRelations(h)
	re, ok := err.(*RuleError)
	if !ok || re.Kind != InvalidParentsRelation {
		t.Fatalf("expected InvalidParentsRelation, got %v", err)
	}
	if re.ParentA != a || re.ParentB != b {
		t.Fatalf("expected (a,b), got (%v,%v)", re.ParentA, re.ParentB)
	}
}

func TestValidateParentRelations_Success(t *testing.T) {
	a, b := newHash(1), newHash(2)
	p := &HeaderProcessor{
		Statuses:     &fakeStatuses{m: map[hashes.Hash]BlockStatus{a: StatusValid, b: StatusValid}},
		Reachability: &fakeReachability{ancestors: map[hashes.Hash]map[hashes.Hash]bool{}},
	}
	h := Header{ParentsByLevel: [][]hashes.Hash{{a, b}}}
	if err := p.ValidateParentRelations(h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
