// Package types defines the wire and domain types shared across the
// benchmark harness: hashes, scripts, out-points, cells, transactions, and
// the CKB JSON-RPC response shapes the harness consumes.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit Blake2b digest.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the "0x"-prefixed hex encoding, per CKB RPC convention.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a "0x"-prefixed hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a "0x"-prefixed hex string into the hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash converts a "0x"-prefixed (or bare) hex string to a Hash.
// Returns an error if the string does not decode to exactly HashSize bytes.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex %q: %w", s, err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash %q must be %d bytes, got %d", s, HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// Uint64 wraps a uint64 so it round-trips through JSON as a "0x"-prefixed
// hex string, matching the CKB JSON-RPC convention for numeric fields
// (block numbers, capacities, indices, timestamps).
type Uint64 uint64

// MarshalJSON encodes the value as "0x"-prefixed hex.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + strconv.FormatUint(uint64(u), 16))
}

// UnmarshalJSON decodes a "0x"-prefixed hex string, or a bare decimal for
// leniency with non-conforming servers.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseUint64(s)
	if err != nil {
		return err
	}
	*u = Uint64(v)
	return nil
}

// ParseUint64 parses a "0x"-prefixed hex string (or bare decimal) into a uint64.
func ParseUint64(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// HexBytes wraps a byte slice so it round-trips through JSON as
// "0x"-prefixed hex, matching CKB's `JsonBytes` wire type (script args,
// witnesses, cell data).
type HexBytes []byte

// MarshalJSON encodes the bytes as "0x"-prefixed hex.
func (b HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + hex.EncodeToString(b))
}

// UnmarshalJSON decodes a "0x"-prefixed hex string into bytes.
func (b *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		*b = nil
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decode hex bytes: %w", err)
	}
	*b = decoded
	return nil
}
