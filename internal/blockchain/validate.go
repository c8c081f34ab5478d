package blockchain

import (
	"errors"
	"fmt"

	vcrypto "github.com/shrilakshmikakati/Blockchain-Internship/internal/crypto"
)

var ErrIntegrity = errors.New("chain integrity violated")

// IntegrityError names the first block that failed verification.
type IntegrityError struct {
	Index  int
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d: %s", e.Index, e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// Validate reports whether every block's PrevHash equals its predecessor's
// Hash. Chains of length 0 or 1 are valid. Stored hashes are not recomputed,
// so a payload edited after mining goes unnoticed here; use VerifyIntegrity
// for that.
func Validate(blocks []Block) bool {
	for i := 1; i < len(blocks); i++ {
		if blocks[i].header.PrevHash != blocks[i-1].hash {
			return false
		}
	}
	return true
}

// CheckProof recomputes b's digest and checks it against the stored hash and
// the difficulty predicate.
func CheckProof(b Block, difficulty int) error {
	if err := ValidateDifficulty(difficulty); err != nil {
		return err
	}
	if !vcrypto.IsDigestHex(b.hash) {
		return errors.New("malformed hash")
	}
	if got := b.ComputeHash(); got != b.hash {
		return fmt.Errorf("hash mismatch: stored %s, computed %s", b.hash, got)
	}
	if !MeetsDifficulty(b.hash, difficulty) {
		return fmt.Errorf("hash %s does not meet difficulty %d", b.hash, difficulty)
	}
	return nil
}

// VerifyIntegrity is the strict validator: genesis sentinel, positional
// indices, linkage, and a recomputed proof for every block.
func VerifyIntegrity(blocks []Block, difficulty int) error {
	if err := ValidateDifficulty(difficulty); err != nil {
		return err
	}
	for i, b := range blocks {
		if b.header.Index != uint64(i) {
			return &IntegrityError{Index: i, Reason: fmt.Sprintf("index %d out of position", b.header.Index)}
		}
		if i == 0 {
			if b.header.PrevHash != GenesisPrevHash {
				return &IntegrityError{Index: i, Reason: fmt.Sprintf("genesis prev hash %q, want %q", b.header.PrevHash, GenesisPrevHash)}
			}
		} else if b.header.PrevHash != blocks[i-1].hash {
			return &IntegrityError{Index: i, Reason: "prev hash does not match predecessor"}
		}
		if err := CheckProof(b, difficulty); err != nil {
			return &IntegrityError{Index: i, Reason: err.Error()}
		}
	}
	return nil
}
