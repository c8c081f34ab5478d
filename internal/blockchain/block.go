package blockchain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	vcrypto "github.com/shrilakshmikakati/Blockchain-Internship/internal/crypto"
)

const (
	// GenesisPrevHash is the predecessor reference carried by the first block.
	GenesisPrevHash = "0"
	GenesisData     = "Genesis Block"

	DefaultDifficulty = 4
	MaxDifficulty     = vcrypto.DigestHexLen
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Header is the immutable field-set a block is mined over.
type Header struct {
	Index     uint64
	Timestamp time.Time
	Data      string
	PrevHash  string
}

// prefix renders every field except the nonce in canonical form:
// index, timestamp (unix nanoseconds), data, prev hash.
func (h Header) prefix() []byte {
	buf := make([]byte, 0, 40+len(h.Data)+len(h.PrevHash)+20)
	buf = strconv.AppendUint(buf, h.Index, 10)
	buf = strconv.AppendInt(buf, h.Timestamp.UnixNano(), 10)
	buf = append(buf, h.Data...)
	buf = append(buf, h.PrevHash...)
	return buf
}

// Digest returns the lowercase hex SHA-256 of the header fields followed by nonce.
func Digest(h Header, nonce uint64) string {
	return vcrypto.Sha256Hex(strconv.AppendUint(h.prefix(), nonce, 10))
}

// MeetsDifficulty reports whether hash starts with difficulty '0' characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

func ValidateDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > MaxDifficulty {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidDifficulty, difficulty, MaxDifficulty)
	}
	return nil
}

// Block is a mined chain element. The zero value is not a usable block;
// blocks come from NewBlock or a Chain.
type Block struct {
	header Header
	nonce  uint64
	hash   string
}

// NewBlock mines a block over the given fields. It does not return until a
// nonce satisfying difficulty is found.
func NewBlock(index uint64, ts time.Time, data, prevHash string, difficulty int) (Block, Result, error) {
	h := Header{Index: index, Timestamp: ts, Data: data, PrevHash: prevHash}
	res, err := Mine(h, difficulty)
	if err != nil {
		return Block{}, Result{}, err
	}
	return sealed(h, res), res, nil
}

func sealed(h Header, res Result) Block {
	return Block{header: h, nonce: res.Nonce, hash: res.Hash}
}

func (b Block) Header() Header       { return b.header }
func (b Block) Index() uint64        { return b.header.Index }
func (b Block) Timestamp() time.Time { return b.header.Timestamp }
func (b Block) Data() string         { return b.header.Data }
func (b Block) PrevHash() string     { return b.header.PrevHash }
func (b Block) Nonce() uint64        { return b.nonce }
func (b Block) Hash() string         { return b.hash }

func (b Block) IsGenesis() bool {
	return b.header.Index == 0 && b.header.PrevHash == GenesisPrevHash
}

// ComputeHash recomputes the digest from the block's current fields.
func (b Block) ComputeHash() string {
	return Digest(b.header, b.nonce)
}

func (b Block) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Block %d:\n", b.header.Index)
	fmt.Fprintf(&sb, "Timestamp: %s\n", b.header.Timestamp.UTC().Format(time.RFC3339Nano))
	fmt.Fprintf(&sb, "Data: %s\n", b.header.Data)
	fmt.Fprintf(&sb, "Previous Hash: %s\n", b.header.PrevHash)
	fmt.Fprintf(&sb, "Hash: %s\n", b.hash)
	fmt.Fprintf(&sb, "Nonce: %d\n", b.nonce)
	return sb.String()
}
