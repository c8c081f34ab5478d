package crypto

// LeadingZeroNibbles reports whether the first n hex digits of sum are zero.
// It is the raw-byte equivalent of checking a hex digest for an n-character
// "0" prefix, without encoding the digest.
func LeadingZeroNibbles(sum [32]byte, n int) bool {
	if n <= 0 {
		return true
	}
	if n > DigestHexLen {
		return false
	}
	full := n / 2
	for i := 0; i < full; i++ {
		if sum[i] != 0 {
			return false
		}
	}
	if n%2 == 1 && sum[full]>>4 != 0 {
		return false
	}
	return true
}

// IsDigestHex reports whether s looks like a lowercase hex SHA-256 digest.
func IsDigestHex(s string) bool {
	if len(s) != DigestHexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
