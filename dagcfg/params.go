// Package dagcfg holds the per-network consensus parameters and genesis
// constants: immutable, process-wide state initialised at program start
// with no runtime mutation path.
package dagcfg

import (
	"rubin.dev/node/consensus"
	"rubin.dev/node/hashes"
)

// Params is the full set of network-wide consensus parameters the header
// processor and pruning-proof validator need.
type Params struct {
	Name                               string
	BlockVersion                       uint16
	MaxBlockParents                    int
	MaxBlockLevel                      hashes.BlockLevel
	TimestampDeviationToleranceSeconds uint64
	SkipProofOfWork                    bool
	// PruningProofM is the depth below a level's selected tip at which a
	// block must also appear in the level below.
	PruningProofM uint64
	// PruningProofExpectedLevels is the number of levels a pruning proof
	// must cover exactly.
	PruningProofExpectedLevels int
	Genesis                    GenesisBlock
}

func baseParams(name string) Params {
	return Params{
		Name:                               name,
		BlockVersion:                       0,
		MaxBlockParents:                    10,
		MaxBlockLevel:                      225,
		TimestampDeviationToleranceSeconds: 132,
		SkipProofOfWork:                    false,
		PruningProofM:                      2000,
		PruningProofExpectedLevels:         226,
	}
}

// HeaderProcessorParams narrows Params down to what
// consensus.HeaderProcessor needs.
func (p Params) HeaderProcessorParams() consensus.Params {
	return consensus.Params{
		BlockVersion:                       p.BlockVersion,
		MaxBlockParents:                    p.MaxBlockParents,
		MaxBlockLevel:                      p.MaxBlockLevel,
		TimestampDeviationToleranceSeconds: p.TimestampDeviationToleranceSeconds,
		SkipProofOfWork:                    p.SkipProofOfWork,
	}
}

// MainnetParams returns the mainnet network parameters.
func MainnetParams() Params {
	p := baseParams("mainnet")
	p.Genesis = mainnetGenesis
	return p
}

// TestnetParams returns the testnet network parameters.
func TestnetParams() Params {
	p := baseParams("testnet")
	p.SkipProofOfWork = false
	p.Genesis = testnetGenesis
	return p
}

// SimnetParams returns the simnet network parameters. PoW is disabled
// for fast local testing.
func SimnetParams() Params {
	p := baseParams("simnet")
	p.SkipProofOfWork = true
	p.Genesis = simnetGenesis
	return p
}

// DevnetParams returns the devnet network parameters.
func DevnetParams() Params {
	p := baseParams("devnet")
	p.SkipProofOfWork = true
	p.Genesis = devnetGenesis
	return p
}

// ByName resolves a network name (mainnet, testnet, simnet or devnet) to
// its Params; it is how rubinnode.Config.Network is turned into Params.
func ByName(name string) (Params, bool) {
	switch name {
	case "mainnet":
		return MainnetParams(), true
	case "testnet":
		return TestnetParams(), true
	case "simnet":
		return SimnetParams(), true
	case "devnet":
		return DevnetParams(), true
	default:
		return Params{}, false
	}
}
