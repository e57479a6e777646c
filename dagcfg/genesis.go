package dagcfg

import (
	"encoding/binary"

	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
	"rubin.dev/node/muhash"
)

// GenesisBlock is the literal genesis record for a network, initialised
// once at program start and never mutated. The block hash and merkle
// root are derived methods computed from the other fields rather than
// separately stored literals, so they cannot drift out of sync with the
// fields that produce them.
type GenesisBlock struct {
	Version         uint16
	Timestamp       uint64
	Bits            uint32
	Nonce           uint64
	DAAScore        uint64
	CoinbasePayload []byte
}

// emptyUTXOCommitment is the empty-multiset MuHash, the UTXO commitment
// every genesis carries since no UTXO exists before it.
var emptyUTXOCommitment = muhash.CommitmentHash(muhash.EmptyMuHash().Finalize())

// CoinbaseTransaction is the genesis block's single transaction:
// coinbase subnetwork, zero inputs, zero outputs, payload carrying the
// network's literal bytes.
func (g GenesisBlock) CoinbaseTransaction() consensus.Transaction {
	return consensus.Transaction{
		Version:      0,
		SubnetworkID: consensus.SubnetworkCoinbase,
		Payload:      g.CoinbasePayload,
	}
}

// Header converts g into a consensus.Header with no parents: the origin
// has no ancestors, so ParentsByLevel is empty at every level.
func (g GenesisBlock) Header() consensus.Header {
	txID := consensus.TransactionID(g.CoinbaseTransaction())
	return consensus.Header{
		Version:              g.Version,
		ParentsByLevel:       nil,
		HashMerkleRoot:       consensus.MerkleRootTransactionIDs([]hashes.Hash{txID}),
		AcceptedIDMerkleRoot: hashes.ZeroHash,
		UTXOCommitment:       emptyUTXOCommitment,
		Timestamp:            g.Timestamp,
		Bits:                 g.Bits,
		Nonce:                g.Nonce,
		DAAScore:             g.DAAScore,
		BlueWork:             hashes.ZeroBlueWork(),
		BlueScore:            0,
		PruningPoint:         hashes.ZeroHash,
	}
}

// Hash is the block hash of g's header.
func (g GenesisBlock) Hash() hashes.Hash {
	return consensus.BlockHeaderHash(g.Header())
}

// Block assembles the full genesis block (header + coinbase transaction).
func (g GenesisBlock) Block() consensus.Block {
	return consensus.Block{
		Header:       g.Header(),
		Transactions: []consensus.Transaction{g.CoinbaseTransaction()},
	}
}

// BuildGenesisTransactions returns the genesis block's transaction list:
// exactly the coinbase.
func BuildGenesisTransactions(g GenesisBlock) []consensus.Transaction {
	return []consensus.Transaction{g.CoinbaseTransaction()}
}

// coinbasePayload lays out the coinbase payload: 8 B blue score, 8 B
// subsidy, 2 B script version, 1 B varint script length, then the script
// itself (OP_FALSE followed by an ASCII tag), all little-endian.
func coinbasePayload(blueScore, subsidy uint64, tag string) []byte {
	const opFalse = 0x00
	script := make([]byte, 0, 1+len(tag))
	script = append(script, opFalse)
	script = append(script, []byte(tag)...)

	payload := make([]byte, 0, 8+8+2+1+len(script))
	var buf8 [8]byte
	binary.LittleEndian.PutUint64(buf8[:], blueScore)
	payload = append(payload, buf8[:]...)
	binary.LittleEndian.PutUint64(buf8[:], subsidy)
	payload = append(payload, buf8[:]...)
	payload = append(payload, 0x00, 0x00) // script version 0, little-endian
	payload = append(payload, byte(len(script)))
	payload = append(payload, script...)
	return payload
}

// mainnetCoinbaseSubsidy is the initial per-block subsidy in sompi
// (1 VE = 10^8 sompi).
const mainnetCoinbaseSubsidy = 100_000_000

var mainnetGenesis = GenesisBlock{
	Version:         0,
	Timestamp:       0x19409ce1deb,
	Bits:            0x1e7fffff,
	Nonce:           0x0000d885,
	DAAScore:        0,
	CoinbasePayload: coinbasePayload(0, mainnetCoinbaseSubsidy, "eternally, for ever"),
}

var testnetGenesis = GenesisBlock{
	Version:         0,
	Timestamp:       0x1850aef0000,
	Bits:            0x1e7fffff,
	Nonce:           0x00001234,
	DAAScore:        0,
	CoinbasePayload: coinbasePayload(0, mainnetCoinbaseSubsidy, "rubin-testnet"),
}

var simnetGenesis = GenesisBlock{
	Version:         0,
	Timestamp:       0x17c5d3a0000,
	Bits:            0x207fffff,
	Nonce:           0x00000001,
	DAAScore:        0,
	CoinbasePayload: coinbasePayload(0, mainnetCoinbaseSubsidy, "rubin-simnet"),
}

var devnetGenesis = GenesisBlock{
	Version:         0,
	Timestamp:       0x17c5d3a0000,
	Bits:            0x1effffff,
	Nonce:           0x00000002,
	DAAScore:        0,
	CoinbasePayload: coinbasePayload(0, mainnetCoinbaseSubsidy, "rubin-devnet"),
}
