package blockchain

import (
	"encoding/json"
	"io"
	"time"
)

// BlockRecord is the JSON view of a mined block, optionally with the
// statistics of the search that produced it.
type BlockRecord struct {
	Index     uint64    `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
	PrevHash  string    `json:"prevHash"`
	Nonce     uint64    `json:"nonce"`
	Hash      string    `json:"hash"`

	Attempts  uint64 `json:"attempts,omitempty"`
	ElapsedMS int64  `json:"elapsedMs,omitempty"`
}

type ChainReport struct {
	Difficulty int           `json:"difficulty"`
	Length     int           `json:"length"`
	Valid      bool          `json:"valid"`
	Integrity  string        `json:"integrity,omitempty"`
	Blocks     []BlockRecord `json:"blocks"`
}

func MakeBlockRecord(b Block) BlockRecord {
	return BlockRecord{
		Index:     b.header.Index,
		Timestamp: b.header.Timestamp.UTC(),
		Data:      b.header.Data,
		PrevHash:  b.header.PrevHash,
		Nonce:     b.nonce,
		Hash:      b.hash,
	}
}

// MakeMinedRecord describes the block a search over h produced.
func MakeMinedRecord(h Header, res Result) BlockRecord {
	r := MakeBlockRecord(sealed(h, res))
	r.Attempts = res.Attempts
	r.ElapsedMS = res.Elapsed.Milliseconds()
	return r
}

// MakeChainReport pairs blocks with their mining results by position.
// results may be shorter than blocks (or nil).
func MakeChainReport(blocks []Block, results []Result, difficulty int) ChainReport {
	recs := make([]BlockRecord, 0, len(blocks))
	for i, b := range blocks {
		r := MakeBlockRecord(b)
		if i < len(results) {
			r.Attempts = results[i].Attempts
			r.ElapsedMS = results[i].Elapsed.Milliseconds()
		}
		recs = append(recs, r)
	}
	return ChainReport{
		Difficulty: difficulty,
		Length:     len(blocks),
		Valid:      Validate(blocks),
		Blocks:     recs,
	}
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
