package protocol

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/opensats/cardauth/crypto"
)

func testCard(t *testing.T) (*secp256k1.PrivateKey, []byte) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return priv, priv.PubKey().SerializeCompressed()
}

func TestNewSessionMaskRoundTrip(t *testing.T) {
	cardPriv, cardPub := testCard(t)
	cardNonce := bytes.Repeat([]byte{0x11}, CardNonceSize)
	cvc := []byte("123456")

	session, err := NewSession("read", cardNonce, cardPub, cvc)
	require.NoError(t, err)
	require.Len(t, session.EphemeralPubKey, PubKeySize)
	require.Len(t, session.XCVC, len(cvc))

	// The card's side of the exchange arrives at the same session key
	// from its long-term private key and the host's ephemeral public key.
	ephemeral, err := btcec.ParsePubKey(session.EphemeralPubKey)
	require.NoError(t, err)
	cardSide := crypto.SharedSecret(cardPriv, ephemeral)
	require.Equal(t, session.Key, cardSide)

	// Unmasking with the recomputed mask recovers the verification code.
	md := sha256.Sum256(append(append([]byte{}, cardNonce...), "read"...))
	mask := crypto.XOR(cardSide[:], md[:])[:len(cvc)]
	require.Equal(t, cvc, crypto.XOR(session.XCVC, mask))
}

func TestNewSessionFreshEphemeralPerCall(t *testing.T) {
	_, cardPub := testCard(t)
	cardNonce := bytes.Repeat([]byte{0x22}, CardNonceSize)
	cvc := []byte("654321")

	a, err := NewSession("sign", cardNonce, cardPub, cvc)
	require.NoError(t, err)
	b, err := NewSession("sign", cardNonce, cardPub, cvc)
	require.NoError(t, err)

	require.NotEqual(t, a.EphemeralPubKey, b.EphemeralPubKey)
	require.NotEqual(t, a.Key, b.Key)
	require.NotEqual(t, a.XCVC, b.XCVC)
}

func TestNewSessionMaskDependsOnCommand(t *testing.T) {
	cardPriv, cardPub := testCard(t)
	cardNonce := bytes.Repeat([]byte{0x33}, CardNonceSize)
	cvc := []byte("00000000")

	session, err := NewSession("unseal", cardNonce, cardPub, cvc)
	require.NoError(t, err)

	ephemeral, err := btcec.ParsePubKey(session.EphemeralPubKey)
	require.NoError(t, err)
	key := crypto.SharedSecret(cardPriv, ephemeral)

	// Recomputing the mask with a different command name must not
	// recover the code: a captured XCVC is bound to its command.
	md := sha256.Sum256(append(append([]byte{}, cardNonce...), "change"...))
	mask := crypto.XOR(key[:], md[:])[:len(cvc)]
	require.NotEqual(t, cvc, crypto.XOR(session.XCVC, mask))
}

func TestNewSessionRejectsBadCVC(t *testing.T) {
	_, cardPub := testCard(t)
	cardNonce := bytes.Repeat([]byte{0x44}, CardNonceSize)

	var ie *InvalidInputError
	_, err := NewSession("read", cardNonce, cardPub, []byte("12345"))
	require.ErrorAs(t, err, &ie)

	_, err = NewSession("read", cardNonce, cardPub, bytes.Repeat([]byte{'1'}, 33))
	require.ErrorAs(t, err, &ie)
}

func TestNewSessionRejectsBadInputs(t *testing.T) {
	_, cardPub := testCard(t)

	var fe *FramingError
	_, err := NewSession("read", []byte{0x01}, cardPub, []byte("123456"))
	require.ErrorAs(t, err, &fe)

	cardNonce := bytes.Repeat([]byte{0x55}, CardNonceSize)
	_, err = NewSession("read", cardNonce, []byte{0x02, 0x03}, []byte("123456"))
	require.Error(t, err)
}
