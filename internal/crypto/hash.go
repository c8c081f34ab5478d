package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestHexLen is the length of a hex-encoded SHA-256 digest.
const DigestHexLen = sha256.Size * 2

func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

func Sha256Hex(data []byte) string {
	return Hex32(sha256.Sum256(data))
}

func Hex32(h [32]byte) string {
	return hex.EncodeToString(h[:])
}
