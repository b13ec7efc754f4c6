// Package crypto provides the secp256k1 operations used by the card
// authentication protocol.
//
// This package provides:
//   - ECDH shared-secret derivation for session keys
//   - Public key recovery from compact (recoverable) signatures
//   - Verification of raw r||s signatures
//   - XOR masking helpers
//
// All keys are compressed 33-byte secp256k1 points; all signatures are the
// card's raw fixed-width encodings, never DER.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// CompactSigSize is the length of a recoverable signature: one recovery
// byte followed by the 32-byte R and S values.
const CompactSigSize = 65

// SignatureSize is the length of a non-recoverable r||s signature.
const SignatureSize = 64

// SharedSecret performs ECDH between the private and public key and hashes
// the compressed shared point with SHA-256. Both sides of the exchange
// arrive at the same 32 bytes.
func SharedSecret(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) [32]byte {
	var point, result secp256k1.JacobianPoint
	pub.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&priv.Key, &point, &result)
	result.ToAffine()

	shared := secp256k1.NewPublicKey(&result.X, &result.Y)
	return sha256.Sum256(shared.SerializeCompressed())
}

// VerifySignature checks a 64-byte r||s signature over digest against the
// given public key.
func VerifySignature(pub *btcec.PublicKey, digest []byte, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}

	r := new(btcec.ModNScalar)
	r.SetByteSlice(sig[0:32])

	s := new(btcec.ModNScalar)
	s.SetByteSlice(sig[32:64])

	return ecdsa.NewSignature(r, s).Verify(digest, pub)
}

// RecoverPubKey recovers the public key that produced the given 65-byte
// recoverable signature over digest. The leading byte may carry the raw
// recovery id (0-3) or either of the compact-signature header conventions
// (27-34 or 39-42); it is normalized before recovery.
func RecoverPubKey(digest []byte, sig []byte) (*btcec.PublicKey, error) {
	if len(sig) != CompactSigSize {
		return nil, fmt.Errorf("recoverable signature must be %d bytes, got %d", CompactSigSize, len(sig))
	}

	recID, err := normalizeRecoveryID(sig[0])
	if err != nil {
		return nil, err
	}

	// RecoverCompact wants the header encoding for a compressed key.
	compact := make([]byte, CompactSigSize)
	compact[0] = 27 + 4 + recID
	copy(compact[1:], sig[1:])

	pub, _, err := secpecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, fmt.Errorf("public key recovery: %w", err)
	}
	return pub, nil
}

func normalizeRecoveryID(b byte) (byte, error) {
	switch {
	case b <= 3:
		return b, nil
	case b >= 39 && b <= 42:
		return b - 39, nil
	case b >= 27 && b <= 34:
		return (b - 27) & 3, nil
	}
	return 0, fmt.Errorf("invalid recovery header byte %d", b)
}

// XOR combines two equal-length byte strings. The caller guarantees equal
// lengths; a mismatch is a programming error.
func XOR(a, b []byte) []byte {
	if len(a) != len(b) {
		panic("crypto: xor operands of unequal length")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
