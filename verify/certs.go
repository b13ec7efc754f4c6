package verify

import (
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/opensats/cardauth/crypto"
	"github.com/opensats/cardauth/protocol"
)

// VerifyCerts proves the card's long-term key is certified by the
// factory. It checks the card's authentication signature over the
// nonce-bound challenge, then walks the certificate chain from the card
// key upward, recovering each signer from its signature over the hash of
// the previous key. The final recovered key must equal a configured
// factory root byte-for-byte; the matching root is returned.
//
// slotPubKey, when non-nil, is the sealed slot's public key and is bound
// into the signed message so the attestation covers it.
//
// Every link must verify. There is no partial trust: any break in the
// chain, or a terminal key outside the root set, is ErrCounterfeitDevice.
func (s *Service) VerifyCerts(status *protocol.StatusResponse, check *protocol.CheckResponse, certs *protocol.CertsResponse, hostNonce, slotPubKey []byte) ([]byte, error) {
	if len(certs.CertChain) < 2 {
		return nil, ErrChainTooShort
	}

	var context [][]byte
	if slotPubKey != nil {
		if len(slotPubKey) != protocol.PubKeySize {
			return nil, &protocol.FramingError{Field: "slot public key", Got: len(slotPubKey), Want: protocol.PubKeySize}
		}
		context = append(context, slotPubKey)
	}

	msg, err := protocol.SigningMessage(status.CardNonce, hostNonce, context...)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(msg)

	cardKey, err := btcec.ParsePubKey(status.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("verify: parsing card public key: %w", err)
	}

	if !crypto.VerifySignature(cardKey, digest[:], check.AuthSignature) {
		return nil, ErrBadAuthSignature
	}

	// Walk the chain: each link's signer is recovered from its signature
	// over the hash of the previous key.
	current := cardKey
	for i, link := range certs.CertChain {
		prev := sha256.Sum256(current.SerializeCompressed())
		current, err = crypto.RecoverPubKey(prev[:], link)
		if err != nil {
			return nil, fmt.Errorf("%w: chain link %d: %v", ErrCounterfeitDevice, i, err)
		}
	}

	final := current.SerializeCompressed()
	if !s.trustedRoot(final) {
		slog.Debug("chain terminated at untrusted key", "key", fmt.Sprintf("%x", final))
		return nil, fmt.Errorf("%w: chain does not terminate at a factory root", ErrCounterfeitDevice)
	}

	return final, nil
}
