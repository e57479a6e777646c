package consensus

import "rubin.dev/node/hashes"

// merkleRootTagged computes a domain-tagged binary merkle root over ids.
// Leaves and interior nodes hash under distinct tag bytes; an odd node is
// carried forward unchanged.
func merkleRootTagged(ids []hashes.Hash, leafTag, nodeTag byte) hashes.Hash {
	if len(ids) == 0 {
		return hashes.ZeroHash
	}

	level := make([]hashes.Hash, 0, len(ids))
	var leafPreimage [1 + 32]byte
	leafPreimage[0] = leafTag
	for _, id := range ids {
		copy(leafPreimage[1:], id[:])
		level = append(level, hashes.Sum256(leafPreimage[:]))
	}

	var nodePreimage [1 + 32 + 32]byte
	nodePreimage[0] = nodeTag
	for len(level) > 1 {
		next := make([]hashes.Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); {
			if i == len(level)-1 {
				next = append(next, level[i])
				i++
				continue
			}
			copy(nodePreimage[1:33], level[i][:])
			copy(nodePreimage[33:], level[i+1][:])
			next = append(next, hashes.Sum256(nodePreimage[:]))
			i += 2
		}
		level = next
	}

	return level[0]
}

// MerkleRootTransactionIDs computes the header's hash merkle root over a
// block's transaction ids.
func MerkleRootTransactionIDs(ids []hashes.Hash) hashes.Hash {
	return merkleRootTagged(ids, 0x00, 0x01)
}
