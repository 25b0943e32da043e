package value

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
)

// DomainValue separates value hashes from other uses of the same digest.
// The version suffix allows the encoding to change later.
const DomainValue = "sass-spec/value/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)

	var sum [sha256.Size]byte
	h.Sum(sum[:0])
	return sum
}

func hashCode(v Value) uint64 {
	sum := hashWithDomain(DomainValue, MarshalCanonical(v))
	return binary.BigEndian.Uint64(sum[:8])
}

func equal(v Value, other any) bool {
	o, ok := other.(Value)
	if !ok {
		return false
	}
	return bytes.Equal(MarshalCanonical(v), MarshalCanonical(o))
}
