package verify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/opensats/cardauth/crypto"
	"github.com/opensats/cardauth/derive"
	"github.com/opensats/cardauth/protocol"
)

// ReconstructSignature turns a card's 64-byte r||s signature over digest
// into its 65-byte recoverable form by brute-forcing the recovery id.
// Each candidate id in 0..3 is tried in order; a candidate is accepted
// when its recovered key matches expectPubKey (if given) and renders to an
// address ending in expectAddr (if given). The winning id is prepended as
// the first byte of the result.
//
// Recovery ids 2 and 3 are only valid for the rare signatures whose R
// value overflowed the group order, so a recovery failure there is
// skipped; a failure for id 0 or 1 indicates a malformed signature and
// propagates.
func ReconstructSignature(digest, sig []byte, expectAddr string, expectPubKey []byte, testnet bool) ([]byte, error) {
	if len(digest) != 32 {
		return nil, &protocol.InvalidInputError{Field: "digest", Reason: "must be 32 bytes"}
	}
	if len(sig) != crypto.SignatureSize {
		return nil, &protocol.InvalidInputError{Field: "signature", Reason: "must be 64 bytes"}
	}

	for recID := byte(0); recID < 4; recID++ {
		candidate := make([]byte, 0, crypto.CompactSigSize)
		candidate = append(candidate, recID)
		candidate = append(candidate, sig...)

		pub, err := crypto.RecoverPubKey(digest, candidate)
		if err != nil {
			if recID >= 2 {
				continue
			}
			return nil, fmt.Errorf("verify: recovery id %d: %w", recID, err)
		}

		if expectPubKey != nil && !bytes.Equal(pub.SerializeCompressed(), expectPubKey) {
			continue
		}
		if expectAddr != "" {
			addr, err := derive.RenderAddress(pub.SerializeCompressed(), testnet)
			if err != nil {
				return nil, err
			}
			if !strings.HasSuffix(addr, expectAddr) {
				continue
			}
		}
		return candidate, nil
	}

	return nil, ErrSignatureRecovery
}
