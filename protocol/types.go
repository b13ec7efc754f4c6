package protocol

import "fmt"

// Wire types for the commands and responses the verification flows
// consume. The transport layer encodes commands with EncodeCommand, moves
// the bytes over NFC, and decodes the card's reply with DecodeResponse.

type command struct {
	Cmd string `cbor:"cmd"`
}

// authFields carry the per-command session material on authenticated
// commands.
type authFields struct {
	EphemeralPubKey []byte `cbor:"epubkey,omitempty"`
	XCVC            []byte `cbor:"xcvc,omitempty"`
}

// StatusCommand asks the card for its current state. Never authenticated.
type StatusCommand struct {
	command
}

// ReadCommand asks the card to reveal (and sign over) the active slot's
// public key. The nonce binds the response to this request.
type ReadCommand struct {
	command
	authFields
	Nonce []byte `cbor:"nonce"`
}

// CertsCommand fetches the card's factory certificate chain.
type CertsCommand struct {
	command
}

// CheckCommand challenges the card to sign the host's nonce with its
// long-term key.
type CheckCommand struct {
	command
	Nonce []byte `cbor:"nonce"`
}

// DeriveCommand asks the card to attest its master public key and chain
// code.
type DeriveCommand struct {
	command
	Nonce []byte `cbor:"nonce"`
}

// NewStatusCommand builds a status command.
func NewStatusCommand() StatusCommand {
	return StatusCommand{command: command{Cmd: "status"}}
}

// NewReadCommand builds a read command bound to the given host nonce.
// Session material is optional; SATSCARD reads are unauthenticated.
func NewReadCommand(nonce []byte, session *Session) ReadCommand {
	c := ReadCommand{command: command{Cmd: "read"}, Nonce: nonce}
	if session != nil {
		c.EphemeralPubKey = session.EphemeralPubKey
		c.XCVC = session.XCVC
	}
	return c
}

// NewCertsCommand builds a certs command.
func NewCertsCommand() CertsCommand {
	return CertsCommand{command: command{Cmd: "certs"}}
}

// NewCheckCommand builds a check command bound to the given host nonce.
func NewCheckCommand(nonce []byte) CheckCommand {
	return CheckCommand{command: command{Cmd: "check"}, Nonce: nonce}
}

// NewDeriveCommand builds a derive command bound to the given host nonce.
func NewDeriveCommand(nonce []byte) DeriveCommand {
	return DeriveCommand{command: command{Cmd: "derive"}, Nonce: nonce}
}

// StatusResponse is the card's answer to a status command.
type StatusResponse struct {
	Proto     int      `cbor:"proto"`
	Version   string   `cbor:"ver"`
	Birth     int      `cbor:"birth"`
	Slots     []int    `cbor:"slots,omitempty"`
	Address   string   `cbor:"addr,omitempty"`
	PublicKey []byte   `cbor:"pubkey"`
	CardNonce []byte   `cbor:"card_nonce"`
	TapSigner bool     `cbor:"tapsigner,omitempty"`
	Testnet   bool     `cbor:"testnet,omitempty"`
	Path      []uint32 `cbor:"path,omitempty"`
}

// ReadResponse carries the slot public key and the card's signature over
// the nonce-bound read message. On a TAPSIGNER the key arrives XOR-masked
// with the session key.
type ReadResponse struct {
	Signature []byte `cbor:"sig"`
	PublicKey []byte `cbor:"pubkey"`
	CardNonce []byte `cbor:"card_nonce"`
}

// CheckResponse carries the card's authentication signature for the
// certificate check.
type CheckResponse struct {
	AuthSignature []byte `cbor:"auth_sig"`
	CardNonce     []byte `cbor:"card_nonce"`
}

// CertsResponse carries the factory certificate chain, card first.
type CertsResponse struct {
	CertChain [][]byte `cbor:"cert_chain"`
}

// DeriveResponse carries the card's master public key attestation.
type DeriveResponse struct {
	Signature    []byte `cbor:"sig"`
	ChainCode    []byte `cbor:"chain_code"`
	MasterPubKey []byte `cbor:"master_pubkey"`
	CardNonce    []byte `cbor:"card_nonce"`
}

// CardError is an error response from the card itself.
type CardError struct {
	Code int    `cbor:"code"`
	Msg  string `cbor:"error"`
}

func (e *CardError) Error() string {
	return fmt.Sprintf("card error %d: %s", e.Code, e.Msg)
}
