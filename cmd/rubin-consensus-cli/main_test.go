package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rubin.dev/node/dagcfg"
)

func runJSON(t *testing.T, args []string, req Request) (int, Response) {
	t.Helper()
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run(args, bytes.NewReader(raw), &stdout, &stderr)
	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		t.Fatalf("unmarshal response: %v; stdout=%q stderr=%q", err, stdout.String(), stderr.String())
	}
	return code, resp
}

func genesisHashHex(t *testing.T, network string) string {
	t.Helper()
	params, ok := dagcfg.ByName(network)
	if !ok {
		t.Fatalf("unknown network %q", network)
	}
	h := params.Genesis.Hash()
	return hex.EncodeToString(h[:])
}

func TestRun_IngestGenesisChild(t *testing.T) {
	datadir := t.TempDir()
	args := []string{"-network", "devnet", "-datadir", datadir}

	req := Request{
		Op: "ingest_header",
		Header: &HeaderJSON{
			Version:        0,
			ParentsByLevel: [][]string{{genesisHashHex(t, "devnet")}},
			HashMerkleRoot: strings.Repeat("00", 32),
			Timestamp:      uint64(time.Now().UnixMilli()),
			Bits:           0x207fffff,
		},
	}
	code, resp := runJSON(t, args, req)
	if code != 0 || !resp.Ok || resp.BlockHash == "" {
		t.Fatalf("expected ok ingest, got code=%d resp=%+v", code, resp)
	}
}

func TestRun_UnknownNetwork(t *testing.T) {
	args := []string{"-network", "nope", "-datadir", t.TempDir()}
	code, resp := runJSON(t, args, Request{Op: "ingest_header", Header: &HeaderJSON{}})
	if code == 0 || resp.Ok {
		t.Fatalf("expected failure for unknown network, got code=%d resp=%+v", code, resp)
	}
}

func TestRun_UnknownOp(t *testing.T) {
	args := []string{"-network", "devnet", "-datadir", t.TempDir()}
	code, resp := runJSON(t, args, Request{Op: "nonsense"})
	if code != 2 || resp.Ok {
		t.Fatalf("expected unknown-op failure, got code=%d resp=%+v", code, resp)
	}
}

func TestRun_VerifyPruningProofWrongLevelCount(t *testing.T) {
	args := []string{"-network", "devnet", "-datadir", t.TempDir()}
	req := Request{Op: "verify_pruning_proof", Proof: &ProofJSON{Levels: [][]HeaderJSON{{}}}}
	code, resp := runJSON(t, args, req)
	if code == 0 || resp.Ok {
		t.Fatalf("expected rejection for wrong level count, got code=%d resp=%+v", code, resp)
	}
}

func TestRun_ConfigFileRoundTrip(t *testing.T) {
	datadir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "node.json")
	args := []string{"-network", "devnet", "-datadir", datadir, "-config", configPath, "-peers", "127.0.0.1:19111,127.0.0.1:19112"}

	req := Request{
		Op: "ingest_header",
		Header: &HeaderJSON{
			Version:        0,
			ParentsByLevel: [][]string{{genesisHashHex(t, "devnet")}},
			HashMerkleRoot: strings.Repeat("00", 32),
			Timestamp:      uint64(time.Now().UnixMilli()),
			Bits:           0x207fffff,
		},
	}
	code, resp := runJSON(t, args, req)
	if code != 0 || !resp.Ok {
		t.Fatalf("expected ok, got code=%d resp=%+v", code, resp)
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if !strings.Contains(string(raw), "127.0.0.1:19111") || !strings.Contains(string(raw), "127.0.0.1:19112") {
		t.Fatalf("saved config missing peers: %s", raw)
	}
}
