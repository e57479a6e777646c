package dagcfg

import (
	"bytes"
	"testing"

	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

// TestGenesisHashesSelfConsistent checks hash(header_of(g)) == g.Hash()
// for every network.
func TestGenesisHashesSelfConsistent(t *testing.T) {
	for _, p := range []Params{MainnetParams(), TestnetParams(), SimnetParams(), DevnetParams()} {
		h1 := p.Genesis.Hash()
		h2 := consensus.BlockHeaderHash(p.Genesis.Header())
		if h1 != h2 {
			t.Fatalf("%s: genesis hash is not deterministic: %s vs %s", p.Name, h1, h2)
		}
	}
}

// TestGenesisMerkleRootMatchesTransactions exercises
// `hash_merkle_root(transactions(g)) = g.hash_merkle_root`.
func TestGenesisMerkleRootMatchesTransactions(t *testing.T) {
	g := MainnetParams().Genesis
	txs := BuildGenesisTransactions(g)
	if len(txs) != 1 {
		t.Fatalf("expected exactly one genesis transaction, got %d", len(txs))
	}
	txID := consensus.TransactionID(txs[0])
	root := consensus.MerkleRootTransactionIDs([]hashes.Hash{txID})
	if root != g.Header().HashMerkleRoot {
		t.Fatal("genesis header merkle root must match the root computed over its own transactions")
	}
}

// TestGenesisCoinbaseTransaction checks the shape of the mainnet genesis
// coinbase.
func TestGenesisCoinbaseTransaction(t *testing.T) {
	g := MainnetParams().Genesis
	txs := BuildGenesisTransactions(g)
	if len(txs) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.SubnetworkID != consensus.SubnetworkCoinbase {
		t.Fatal("genesis transaction must be on the coinbase subnetwork")
	}
	if len(tx.Inputs) != 0 || len(tx.Outputs) != 0 {
		t.Fatal("genesis coinbase transaction must have zero inputs and zero outputs")
	}
	suffix := []byte("eternally, for ever")
	if !bytes.HasSuffix(tx.Payload, suffix) {
		t.Fatalf("mainnet coinbase payload must end with the ASCII tag, got %x", tx.Payload)
	}
}

// TestGenesisHeaderDeterministic checks that rebuilding a header from the
// same fields always reproduces the identical header.
func TestGenesisHeaderDeterministic(t *testing.T) {
	g := MainnetParams().Genesis
	h1 := g.Header()
	h2 := g.Header()
	if consensus.BlockHeaderHash(h1) != consensus.BlockHeaderHash(h2) {
		t.Fatal("Header() must be a pure function of GenesisBlock's fields")
	}
}

func TestByNameCoversAllNetworks(t *testing.T) {
	for _, name := range []string{"mainnet", "testnet", "simnet", "devnet"} {
		if _, ok := ByName(name); !ok {
			t.Fatalf("ByName(%q) should resolve", name)
		}
	}
	if _, ok := ByName("nonexistent"); ok {
		t.Fatal("ByName should reject unknown network names")
	}
}
