package verify

import "errors"

// Verification failures are split into two severities. Input and framing
// problems surface as protocol errors; everything below is a trust
// decision and must never be downgraded to a warning.
var (
	// ErrChainTooShort rejects a certificate chain with fewer than two
	// links. A genuine card always carries at least a batch certificate
	// and a root certificate.
	ErrChainTooShort = errors.New("verify: certificate chain too short")

	// ErrBadAuthSignature means the card could not sign the challenge
	// with the key it reported.
	ErrBadAuthSignature = errors.New("verify: card authentication signature invalid")

	// ErrProofOfPossession means the signature in a read response does
	// not verify against the key the card just revealed.
	ErrProofOfPossession = errors.New("verify: card does not control the revealed key")

	// ErrCounterfeitDevice means the certificate chain does not reach a
	// trusted factory root, or the re-derived address does not match the
	// card's claim. Present this as a hard device rejection, not a
	// generic failure.
	ErrCounterfeitDevice = errors.New("verify: counterfeit device")

	// ErrWrongDeviceType means the response came from the wrong card mode
	// for the requested operation.
	ErrWrongDeviceType = errors.New("verify: wrong device type for this operation")

	// ErrSignatureRecovery means no recovery id candidate produced a key
	// satisfying the caller's constraints.
	ErrSignatureRecovery = errors.New("verify: no recovery id candidate matched")
)
