// Package crypto provides the cryptographic primitives the harness needs:
// the CKB-flavored Blake2b-256 hash and recoverable secp256k1 signing.
package crypto

import (
	"hash"

	"github.com/minio/blake2b-simd"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

// personalization is CKB's fixed Blake2b personalization string, which
// domain-separates its hash from a plain Blake2b-256 digest. Blake2b
// personalization is capped at 16 bytes; this string is exactly 16.
var personalization = []byte("ckb-default-hash")

// NewHasher returns a Blake2b-256 hash.Hash pre-configured with CKB's
// personalization, for incremental use — e.g. the sighash digest, which
// folds in a tx hash, a witness length prefix, and the witness itself.
// golang.org/x/crypto/blake2b has no public salt/personalization knob, so
// this uses blake2b-simd, which exposes the full RFC 7693 Config the CKB
// hash construction needs.
func NewHasher() hash.Hash {
	h, err := blake2b.New(&blake2b.Config{Size: 32, Person: personalization})
	if err != nil {
		// Only fails for a misconfigured key/salt/person length, all of
		// which are fixed and valid here.
		panic(err)
	}
	return h
}

// Hash computes the CKB-flavored Blake2b-256 digest of data in one shot.
func Hash(data []byte) types.Hash {
	h := NewHasher()
	h.Write(data)
	var out types.Hash
	h.Sum(out[:0])
	return out
}

// HashConcat hashes the concatenation of two byte strings — used to fold
// a tx hash and a witness blob into the signing digest.
func HashConcat(parts ...[]byte) types.Hash {
	h := NewHasher()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	h.Sum(out[:0])
	return out
}
