// Command rubin-consensus-cli drives the consensus core through a single
// JSON request read from stdin, printing a JSON response to stdout. It
// dispatches to Daemon.IngestHeader and Daemon.VerifyPruningProof.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"rubin.dev/node/consensus"
	"rubin.dev/node/dagcfg"
	"rubin.dev/node/hashes"
	"rubin.dev/node/pruning"
	"rubin.dev/node/rubinnode"
)

// HeaderJSON is the wire form of a consensus.Header, every hash field
// hex-encoded.
type HeaderJSON struct {
	Version              uint16     `json:"version"`
	ParentsByLevel       [][]string `json:"parents_by_level"`
	HashMerkleRoot       string     `json:"hash_merkle_root"`
	AcceptedIDMerkleRoot string     `json:"accepted_id_merkle_root"`
	UTXOCommitment       string     `json:"utxo_commitment"`
	Timestamp            uint64     `json:"timestamp"`
	Bits                 uint32     `json:"bits"`
	Nonce                uint64     `json:"nonce"`
	DAAScore             uint64     `json:"daa_score"`
	BlueWorkHex          string     `json:"blue_work"`
	BlueScore            uint64     `json:"blue_score"`
	PruningPoint         string     `json:"pruning_point"`
}

// ProofJSON is the wire form of a pruning.Proof.
type ProofJSON struct {
	Levels          [][]HeaderJSON `json:"levels"`
	ClaimedBlueWork string         `json:"claimed_blue_work"`
}

type Request struct {
	Op      string      `json:"op"`
	Network string      `json:"network,omitempty"`
	DataDir string      `json:"data_dir,omitempty"`
	Header  *HeaderJSON `json:"header,omitempty"`
	Proof   *ProofJSON  `json:"proof,omitempty"`
}

type Response struct {
	Ok         bool   `json:"ok"`
	Err        string `json:"err,omitempty"`
	BlockHash  string `json:"block_hash,omitempty"`
	BlockLevel int    `json:"block_level,omitempty"`
	State      string `json:"state,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func decodeHash(s string) (hashes.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return hashes.Hash{}, fmt.Errorf("bad hex: %w", err)
	}
	h, ok := hashes.HashFromBytes(b)
	if !ok {
		return hashes.Hash{}, fmt.Errorf("hash must be 32 bytes, got %d", len(b))
	}
	return h, nil
}

func toHeader(hj HeaderJSON) (consensus.Header, error) {
	var h consensus.Header
	var err error

	h.Version = hj.Version
	h.ParentsByLevel = make([][]hashes.Hash, len(hj.ParentsByLevel))
	for i, level := range hj.ParentsByLevel {
		h.ParentsByLevel[i] = make([]hashes.Hash, len(level))
		for j, p := range level {
			if h.ParentsByLevel[i][j], err = decodeHash(p); err != nil {
				return h, fmt.Errorf("parents_by_level[%d][%d]: %w", i, j, err)
			}
		}
	}
	if h.HashMerkleRoot, err = decodeHash(hj.HashMerkleRoot); err != nil {
		return h, fmt.Errorf("hash_merkle_root: %w", err)
	}
	if hj.AcceptedIDMerkleRoot != "" {
		if h.AcceptedIDMerkleRoot, err = decodeHash(hj.AcceptedIDMerkleRoot); err != nil {
			return h, fmt.Errorf("accepted_id_merkle_root: %w", err)
		}
	}
	if hj.UTXOCommitment != "" {
		if h.UTXOCommitment, err = decodeHash(hj.UTXOCommitment); err != nil {
			return h, fmt.Errorf("utxo_commitment: %w", err)
		}
	}
	h.Timestamp = hj.Timestamp
	h.Bits = hj.Bits
	h.Nonce = hj.Nonce
	h.DAAScore = hj.DAAScore
	if hj.BlueWorkHex != "" {
		work, err := hex.DecodeString(hj.BlueWorkHex)
		if err != nil {
			return h, fmt.Errorf("blue_work: %w", err)
		}
		h.BlueWork = hashes.BlueWorkFromBytes(work)
	}
	h.BlueScore = hj.BlueScore
	if hj.PruningPoint != "" {
		if h.PruningPoint, err = decodeHash(hj.PruningPoint); err != nil {
			return h, fmt.Errorf("pruning_point: %w", err)
		}
	}
	return h, nil
}

func toProof(pj ProofJSON) (*pruning.Proof, error) {
	p := &pruning.Proof{Headers: make([][]consensus.Header, len(pj.Levels))}
	for i, level := range pj.Levels {
		p.Headers[i] = make([]consensus.Header, len(level))
		for j, hj := range level {
			h, err := toHeader(hj)
			if err != nil {
				return nil, fmt.Errorf("levels[%d][%d]: %w", i, j, err)
			}
			p.Headers[i][j] = h
		}
	}
	if pj.ClaimedBlueWork != "" {
		work, err := hex.DecodeString(pj.ClaimedBlueWork)
		if err != nil {
			return nil, fmt.Errorf("claimed_blue_work: %w", err)
		}
		p.ClaimedBlueWork = hashes.BlueWorkFromBytes(work)
	}
	return p, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rubin-consensus-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	network := fs.String("network", "", "network name (devnet/testnet/simnet/mainnet)")
	dataDir := fs.String("datadir", "", "consensus data directory (defaults to the config's data_dir, else the node's default data dir)")
	configPath := fs.String("config", "", "path to a JSON node config (created with defaults on first run if missing)")
	peers := fs.String("peers", "", "comma-separated bootstrap peer addresses, merged into the config's peer list")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := rubinnode.DefaultConfig()
	if *configPath != "" {
		loaded, err := rubinnode.LoadConfig(*configPath)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("load config: %v", err)})
			return 1
		}
		cfg = loaded
	}
	if *network != "" {
		cfg.Network = *network
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *peers != "" {
		cfg.Peers = rubinnode.NormalizePeers(append(cfg.Peers, *peers)...)
	}

	var req Request
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return 1
	}
	if req.Network != "" {
		cfg.Network = req.Network
	}
	if req.DataDir != "" {
		cfg.DataDir = req.DataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = rubinnode.DefaultDataDir()
	}

	if err := rubinnode.ValidateConfig(cfg); err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("invalid config: %v", err)})
		return 2
	}
	if *configPath != "" {
		if err := rubinnode.SaveConfig(*configPath, cfg); err != nil {
			writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("save config: %v", err)})
			return 1
		}
	}

	params, ok := dagcfg.ByName(cfg.Network)
	if !ok {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("unknown network %q", cfg.Network)})
		return 2
	}

	daemon, err := rubinnode.NewDaemon(cfg, params)
	if err != nil {
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("daemon init failed: %v", err)})
		return 1
	}
	defer daemon.Close()

	switch req.Op {
	case "ingest_header":
		if req.Header == nil {
			writeResp(stdout, Response{Ok: false, Err: "missing header"})
			return 1
		}
		h, err := toHeader(*req.Header)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		if err := daemon.IngestHeader(h); err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		writeResp(stdout, Response{Ok: true, BlockHash: consensus.BlockHeaderHash(h).String()})
		return 0

	case "verify_pruning_proof":
		if req.Proof == nil {
			writeResp(stdout, Response{Ok: false, Err: "missing proof"})
			return 1
		}
		proof, err := toProof(*req.Proof)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error()})
			return 1
		}
		state, err := daemon.VerifyPruningProof(proof, nil, nil)
		if err != nil {
			writeResp(stdout, Response{Ok: false, Err: err.Error(), State: state.String()})
			return 1
		}
		writeResp(stdout, Response{Ok: true, State: state.String()})
		return 0

	default:
		writeResp(stdout, Response{Ok: false, Err: fmt.Sprintf("unknown op %q", req.Op)})
		return 2
	}
}
