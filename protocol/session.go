package protocol

import (
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/opensats/cardauth/crypto"
)

// Session holds the key material derived for one authenticated command.
// A fresh Session must be derived for every command; reusing one would let
// an observer correlate session keys across commands.
type Session struct {
	// Key decrypts the encrypted field of the card's response.
	Key [32]byte

	// EphemeralPubKey is the host's side of the ECDH exchange, sent with
	// the command.
	EphemeralPubKey []byte

	// XCVC is the XOR-masked verification code sent with the command.
	XCVC []byte
}

// NewSession derives the session key and encrypted verification code for
// one command. The mask binds the card's current nonce and the command
// name, so a captured XCVC cannot be replayed against another command or
// another nonce.
func NewSession(cmd string, cardNonce, cardPubKey, cvc []byte) (*Session, error) {
	if len(cvc) < MinCVCLength || len(cvc) > MaxCVCLength {
		return nil, &InvalidInputError{
			Field:  "verification code",
			Reason: fmt.Sprintf("length %d outside %d-%d", len(cvc), MinCVCLength, MaxCVCLength),
		}
	}
	if len(cardNonce) != CardNonceSize {
		return nil, &FramingError{Field: "card nonce", Got: len(cardNonce), Want: CardNonceSize}
	}

	cardKey, err := btcec.ParsePubKey(cardPubKey)
	if err != nil {
		return nil, fmt.Errorf("protocol: parsing card public key: %w", err)
	}

	ephemeral, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("protocol: generating ephemeral key: %w", err)
	}

	session := &Session{
		Key:             crypto.SharedSecret(ephemeral, cardKey),
		EphemeralPubKey: ephemeral.PubKey().SerializeCompressed(),
	}

	md := sha256.Sum256(append(append([]byte{}, cardNonce...), cmd...))
	mask := crypto.XOR(session.Key[:], md[:])[:len(cvc)]
	session.XCVC = crypto.XOR(cvc, mask)

	slog.Debug("session derived", "cmd", cmd, "epubkey", fmt.Sprintf("%x", session.EphemeralPubKey))

	return session, nil
}
