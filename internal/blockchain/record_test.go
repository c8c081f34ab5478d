package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestMakeChainReport(t *testing.T) {
	m := &Miner{Difficulty: 1}
	c, results, err := m.Build(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rep := MakeChainReport(c.Blocks(), results, m.Difficulty)
	if !rep.Valid || rep.Length != 3 || rep.Difficulty != 1 {
		t.Fatalf("unexpected report header: %+v", rep)
	}
	for i, r := range rep.Blocks {
		if r.Attempts != results[i].Attempts {
			t.Errorf("block %d attempts %d, want %d", i, r.Attempts, results[i].Attempts)
		}
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decoded struct {
		Blocks []map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := decoded.Blocks[1]["prevHash"]; got != rep.Blocks[0].Hash {
		t.Fatalf("prevHash of block 1 = %v, want %s", got, rep.Blocks[0].Hash)
	}
}

func TestMakeChainReportWithoutResults(t *testing.T) {
	blocks, err := BuildChain(2, 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	rep := MakeChainReport(blocks, nil, 0)
	if rep.Blocks[0].Attempts != 0 {
		t.Fatalf("attempts filled without results")
	}
}
