package internal

import (
	crand "crypto/rand"
	"encoding/hex"
	mrand "math/rand"
)

// GenerateID returns a collision-resistant opaque identifier in the canonical
// UUID 8-4-4-4-12 form. It prefers a cryptographically strong random source
// and falls back to a weaker pseudo-random source if that source fails, so it
// never returns an error.
func GenerateID() string {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err == nil {
		return formatUUID(buf)
	}
	// Weak fallback: same textual shape, lower quality randomness
	for i := range buf {
		buf[i] = byte(mrand.Uint32())
	}
	return formatUUID(buf)
}

// formatUUID applies the version/variant bits and hex-encodes into the
// canonical grouping.
func formatUUID(buf [16]byte) string {
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80

	var out [36]byte
	hex.Encode(out[0:8], buf[0:4])
	out[8] = '-'
	hex.Encode(out[9:13], buf[4:6])
	out[13] = '-'
	hex.Encode(out[14:18], buf[6:8])
	out[18] = '-'
	hex.Encode(out[19:23], buf[8:10])
	out[23] = '-'
	hex.Encode(out[24:36], buf[10:16])
	return string(out[:])
}
