package consensus

import (
	"encoding/binary"

	"rubin.dev/node/hashes"
)

const headerHashDomain = "rubin-header-v1"
const txIDDomain = "rubin-txid-v1"

// headerBytes serializes h into the canonical byte form that is hashed
// to produce the block hash: a fixed, order-preserving encoding of every
// header field.
func headerBytes(h Header) []byte {
	buf := make([]byte, 0, 256)
	var tmp8 [8]byte

	binary.LittleEndian.PutUint16(tmp8[:2], h.Version)
	buf = append(buf, tmp8[:2]...)

	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(h.ParentsByLevel)))
	buf = append(buf, tmp8[:]...)
	for _, level := range h.ParentsByLevel {
		binary.LittleEndian.PutUint64(tmp8[:], uint64(len(level)))
		buf = append(buf, tmp8[:]...)
		for _, p := range level {
			buf = append(buf, p[:]...)
		}
	}

	buf = append(buf, h.HashMerkleRoot[:]...)
	buf = append(buf, h.AcceptedIDMerkleRoot[:]...)
	buf = append(buf, h.UTXOCommitment[:]...)

	binary.LittleEndian.PutUint64(tmp8[:], h.Timestamp)
	buf = append(buf, tmp8[:]...)

	binary.LittleEndian.PutUint32(tmp8[:4], h.Bits)
	buf = append(buf, tmp8[:4]...)

	binary.LittleEndian.PutUint64(tmp8[:], h.Nonce)
	buf = append(buf, tmp8[:]...)

	binary.LittleEndian.PutUint64(tmp8[:], h.DAAScore)
	buf = append(buf, tmp8[:]...)

	work := h.BlueWork.Bytes()
	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(work)))
	buf = append(buf, tmp8[:]...)
	buf = append(buf, work...)

	binary.LittleEndian.PutUint64(tmp8[:], h.BlueScore)
	buf = append(buf, tmp8[:]...)

	buf = append(buf, h.PruningPoint[:]...)

	return buf
}

// BlockHeaderHash computes the header's hash: a domain-separated digest
// over every consensus-relevant field.
func BlockHeaderHash(h Header) hashes.Hash {
	return hashes.DomainHash(headerHashDomain, headerBytes(h))
}

// txBytes serializes tx for hashing. The full input, signature script
// included, is committed so any change to a transaction is observable in
// its id.
func txBytes(tx Transaction) []byte {
	buf := make([]byte, 0, 128)
	var tmp8 [8]byte

	binary.LittleEndian.PutUint16(tmp8[:2], tx.Version)
	buf = append(buf, tmp8[:2]...)

	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(tx.Inputs)))
	buf = append(buf, tmp8[:]...)
	for _, in := range tx.Inputs {
		buf = append(buf, in.PreviousOutpoint.TransactionID[:]...)
		binary.LittleEndian.PutUint32(tmp8[:4], in.PreviousOutpoint.Index)
		buf = append(buf, tmp8[:4]...)
		binary.LittleEndian.PutUint64(tmp8[:], uint64(len(in.SignatureScript)))
		buf = append(buf, tmp8[:]...)
		buf = append(buf, in.SignatureScript...)
		binary.LittleEndian.PutUint64(tmp8[:], in.Sequence)
		buf = append(buf, tmp8[:]...)
	}

	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(tx.Outputs)))
	buf = append(buf, tmp8[:]...)
	for _, out := range tx.Outputs {
		binary.LittleEndian.PutUint64(tmp8[:], out.Value)
		buf = append(buf, tmp8[:]...)
		binary.LittleEndian.PutUint64(tmp8[:], uint64(len(out.ScriptPublicKey)))
		buf = append(buf, tmp8[:]...)
		buf = append(buf, out.ScriptPublicKey...)
	}

	binary.LittleEndian.PutUint64(tmp8[:], tx.LockTime)
	buf = append(buf, tmp8[:]...)
	buf = append(buf, tx.SubnetworkID[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], tx.Gas)
	buf = append(buf, tmp8[:]...)
	binary.LittleEndian.PutUint64(tmp8[:], uint64(len(tx.Payload)))
	buf = append(buf, tmp8[:]...)
	buf = append(buf, tx.Payload...)

	return buf
}

// TransactionID computes tx's id, the leaf value committed by the header's
// hash merkle root.
func TransactionID(tx Transaction) hashes.Hash {
	return hashes.DomainHash(txIDDomain, txBytes(tx))
}
