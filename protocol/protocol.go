// Package protocol implements the host side of the card authentication
// protocol: signing-message framing, challenge nonces, per-command session
// keys, and the CBOR wire types exchanged with the card.
//
// The package performs no I/O. The transport layer exchanges the encoded
// commands and responses with the card over NFC and hands the decoded
// values back to the verification layer.
package protocol

// Nonce and framing sizes are fixed by the card protocol.
const (
	// CardNonceSize is the length of the nonce the card includes in every
	// response.
	CardNonceSize = 16

	// UserNonceSize is the length of the challenge nonce picked by the
	// host.
	UserNonceSize = 16

	// PubKeySize is the length of a compressed secp256k1 public key.
	PubKeySize = 33

	// ChainCodeSize is the length of a BIP-32 chain code.
	ChainCodeSize = 32

	// AddrTrim is the number of leading and trailing address characters
	// the card reveals for the anti-counterfeiting check.
	AddrTrim = 12
)

// CVC length limits. The verification code is chosen by the user and
// printed on the card; it is never sent in the clear.
const (
	MinCVCLength = 6
	MaxCVCLength = 32
)

// msgHeader is the domain-separation prefix of every signed message.
var msgHeader = []byte("OPENDIME")
