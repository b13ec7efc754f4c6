package verify

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/opensats/cardauth/crypto"
	"github.com/opensats/cardauth/derive"
	"github.com/opensats/cardauth/protocol"
)

// RecoverPubKey decrypts the slot public key from a TAPSIGNER read
// response and confirms the card signed the nonce-bound message with it.
// The key arrives XOR-masked with the session key, all bytes after the
// format byte. Returns the unmasked 33-byte public key.
func (s *Service) RecoverPubKey(status *protocol.StatusResponse, read *protocol.ReadResponse, hostNonce, sessionKey []byte) ([]byte, error) {
	if !status.TapSigner {
		return nil, fmt.Errorf("%w: response is not from a TAPSIGNER", ErrWrongDeviceType)
	}
	if len(read.PublicKey) != protocol.PubKeySize {
		return nil, &protocol.FramingError{Field: "masked public key", Got: len(read.PublicKey), Want: protocol.PubKeySize}
	}
	if len(sessionKey) != 32 {
		return nil, &protocol.FramingError{Field: "session key", Got: len(sessionKey), Want: 32}
	}

	msg, err := protocol.SigningMessage(status.CardNonce, hostNonce, []byte{0})
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(msg)

	unmasked := make([]byte, 0, protocol.PubKeySize)
	unmasked = append(unmasked, read.PublicKey[0])
	unmasked = append(unmasked, crypto.XOR(read.PublicKey[1:], sessionKey)...)

	pub, err := btcec.ParsePubKey(unmasked)
	if err != nil {
		return nil, fmt.Errorf("%w: unmasked key is not a valid point", ErrProofOfPossession)
	}

	if !crypto.VerifySignature(pub, digest[:], read.Signature) {
		return nil, ErrProofOfPossession
	}
	return unmasked, nil
}

// RecoverAddress verifies a SATSCARD read response and runs the
// anti-counterfeiting check: the address rendered from the revealed slot
// key must match the prefix and suffix of the partially-redacted address
// the card reported at status time, and both revealed windows must be
// exactly the trim-policy length. Returns the slot public key and the
// fully rendered address.
func (s *Service) RecoverAddress(status *protocol.StatusResponse, read *protocol.ReadResponse, hostNonce []byte) ([]byte, string, error) {
	if status.TapSigner {
		return nil, "", fmt.Errorf("%w: response is not from a SATSCARD", ErrWrongDeviceType)
	}
	if len(status.Slots) == 0 {
		return nil, "", &protocol.InvalidInputError{Field: "status", Reason: "no active slot"}
	}
	slot := status.Slots[0]
	if slot < 0 || slot > 0xff {
		return nil, "", &protocol.InvalidInputError{Field: "slot", Reason: "not a single byte"}
	}

	msg, err := protocol.SigningMessage(status.CardNonce, hostNonce, []byte{byte(slot)})
	if err != nil {
		return nil, "", err
	}
	digest := sha256.Sum256(msg)

	pub, err := btcec.ParsePubKey(read.PublicKey)
	if err != nil {
		return nil, "", fmt.Errorf("verify: parsing slot public key: %w", err)
	}
	if !crypto.VerifySignature(pub, digest[:], read.Signature) {
		return nil, "", ErrProofOfPossession
	}

	// The card redacts the middle of the address; the separators delimit
	// what it revealed.
	expect := status.Address
	first := strings.IndexByte(expect, '_')
	last := strings.LastIndexByte(expect, '_')
	if first < 0 {
		return nil, "", &protocol.InvalidInputError{Field: "address", Reason: "no redaction separator"}
	}
	left, right := expect[:first], expect[last+1:]

	addr, err := derive.RenderAddress(read.PublicKey, status.Testnet)
	if err != nil {
		return nil, "", err
	}

	if !strings.HasPrefix(addr, left) || !strings.HasSuffix(addr, right) {
		return nil, "", fmt.Errorf("%w: derived address does not match card's claim", ErrCounterfeitDevice)
	}
	if len(left) != protocol.AddrTrim || len(right) != protocol.AddrTrim {
		return nil, "", fmt.Errorf("%w: revealed address windows violate trim policy", ErrCounterfeitDevice)
	}

	return read.PublicKey, addr, nil
}

// VerifyMasterPubKey checks the card's attestation of its master public
// key: a signature over the nonce-bound message with the chain code as
// context. Used by the derive flow before trusting m/0 re-derivation.
func (s *Service) VerifyMasterPubKey(masterPub, sig, chainCode, hostNonce, cardNonce []byte) error {
	if len(chainCode) != protocol.ChainCodeSize {
		return &protocol.FramingError{Field: "chain code", Got: len(chainCode), Want: protocol.ChainCodeSize}
	}

	msg, err := protocol.SigningMessage(cardNonce, hostNonce, chainCode)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(msg)

	pub, err := btcec.ParsePubKey(masterPub)
	if err != nil {
		return fmt.Errorf("verify: parsing master public key: %w", err)
	}
	if !crypto.VerifySignature(pub, digest[:], sig) {
		return ErrProofOfPossession
	}
	return nil
}
