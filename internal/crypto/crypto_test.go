package crypto

import (
	"strings"
	"testing"
)

func TestSha256HexKnownVector(t *testing.T) {
	got := Sha256Hex([]byte("abc"))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("sha256(abc) = %s, want %s", got, want)
	}
	if len(got) != DigestHexLen {
		t.Fatalf("digest length = %d, want %d", len(got), DigestHexLen)
	}
}

func TestLeadingZeroNibblesMatchesHexPrefix(t *testing.T) {
	var sum [32]byte
	sum[0] = 0x00
	sum[1] = 0x0f
	sum[2] = 0xab
	hex := Hex32(sum)

	for n := 0; n <= 6; n++ {
		want := strings.HasPrefix(hex, strings.Repeat("0", n))
		if got := LeadingZeroNibbles(sum, n); got != want {
			t.Errorf("n=%d: got %v, want %v (hex %s)", n, got, want, hex[:8])
		}
	}
}

func TestLeadingZeroNibblesBounds(t *testing.T) {
	var zero [32]byte
	if !LeadingZeroNibbles(zero, DigestHexLen) {
		t.Fatalf("all-zero digest should satisfy full length")
	}
	if LeadingZeroNibbles(zero, DigestHexLen+1) {
		t.Fatalf("no digest can satisfy more nibbles than it has")
	}
	if !LeadingZeroNibbles(Sha256([]byte("x")), 0) {
		t.Fatalf("zero nibbles must always be satisfied")
	}
}

func TestIsDigestHex(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{Sha256Hex([]byte("block")), true},
		{"0", false},
		{strings.Repeat("A", DigestHexLen), false},
		{strings.Repeat("g", DigestHexLen), false},
		{strings.Repeat("0", DigestHexLen), true},
	}
	for _, tc := range cases {
		if got := IsDigestHex(tc.in); got != tc.want {
			t.Errorf("IsDigestHex(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
