package dagcfg

import "testing"

func TestHeaderProcessorParamsNarrowing(t *testing.T) {
	p := MainnetParams()
	hp := p.HeaderProcessorParams()
	if hp.BlockVersion != p.BlockVersion || hp.MaxBlockParents != p.MaxBlockParents ||
		hp.MaxBlockLevel != p.MaxBlockLevel || hp.SkipProofOfWork != p.SkipProofOfWork {
		t.Fatal("HeaderProcessorParams must copy every field the header processor reads")
	}
}

func TestNetworksHaveDistinctGenesisHashes(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range []Params{MainnetParams(), TestnetParams(), SimnetParams(), DevnetParams()} {
		h := p.Genesis.Hash().String()
		if seen[h] {
			t.Fatalf("%s: genesis hash collides with another network", p.Name)
		}
		seen[h] = true
	}
}
