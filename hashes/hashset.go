package hashes

// HashSet is an unordered set of block hashes, the return type of every
// "children of" query in the store layer.
type HashSet map[Hash]struct{}

// NewHashSet builds a HashSet from the given members.
func NewHashSet(members ...Hash) HashSet {
	s := make(HashSet, len(members))
	for _, h := range members {
		s[h] = struct{}{}
	}
	return s
}

// Contains reports whether h is a member of s.
func (s HashSet) Contains(h Hash) bool {
	_, ok := s[h]
	return ok
}

// Add inserts h into s.
func (s HashSet) Add(h Hash) {
	s[h] = struct{}{}
}

// Remove deletes h from s, if present.
func (s HashSet) Remove(h Hash) {
	delete(s, h)
}

// Slice returns s's members as a slice in unspecified order.
func (s HashSet) Slice() []Hash {
	out := make([]Hash, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	return out
}

// Clone returns an independent copy of s.
func (s HashSet) Clone() HashSet {
	out := make(HashSet, len(s))
	for h := range s {
		out[h] = struct{}{}
	}
	return out
}
