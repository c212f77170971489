package confkit

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// SampleDigest returns a hex-encoded 64-bit xxHash fingerprint of a sample.
// The digest identifies sampled content across scans; it is not a
// cryptographic checksum.
func SampleDigest(sample []byte) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64(sample))
	return hex.EncodeToString(buf[:])
}
