package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// RecoverableSignatureSize is the length in bytes of a serialized
// recoverable signature: 32-byte R, 32-byte S, 1-byte recovery id.
const RecoverableSignatureSize = 65

// Signer signs a 32-byte digest with a recoverable secp256k1 signature,
// the form CKB's sighash-all lock script expects in a witness.
type Signer interface {
	Sign(digest []byte) ([]byte, error)
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for recoverable ECDSA signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// Sign produces a 65-byte recoverable signature over a 32-byte digest:
// R(32) || S(32) || recovery_id(1). This is the layout CKB's sighash-all
// lock script unpacks out of a witness's lock field.
func (pk *PrivateKey) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	// SignCompact returns [header(27+recid[+4 if compressed])][R(32)][S(32)].
	compact := ecdsa.SignCompact(pk.key, digest, false)
	header := compact[0]
	recID := (header - 27) & 0x3
	out := make([]byte, RecoverableSignatureSize)
	copy(out[:64], compact[1:])
	out[64] = recID
	return out, nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// RecoverPublicKey recovers the compressed public key that produced a
// 65-byte recoverable signature over digest.
func RecoverPublicKey(digest, signature []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	if len(signature) != RecoverableSignatureSize {
		return nil, fmt.Errorf("signature must be %d bytes, got %d", RecoverableSignatureSize, len(signature))
	}
	compact := make([]byte, RecoverableSignatureSize)
	compact[0] = 27 + signature[64]
	copy(compact[1:], signature[:64])
	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, fmt.Errorf("recover public key: %w", err)
	}
	return pub.SerializeCompressed(), nil
}

// VerifySignature reports whether signature is a valid recoverable
// signature over digest by the holder of publicKey.
func VerifySignature(digest, signature, publicKey []byte) bool {
	recovered, err := RecoverPublicKey(digest, signature)
	if err != nil {
		return false
	}
	if len(recovered) != len(publicKey) {
		return false
	}
	for i := range recovered {
		if recovered[i] != publicKey[i] {
			return false
		}
	}
	return true
}
