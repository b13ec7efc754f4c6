package verify

import (
	"crypto/sha256"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/require"

	"github.com/opensats/cardauth/protocol"
)

func genKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return priv
}

// sign64 produces the card's raw r||s signature over digest.
func sign64(t *testing.T, priv *secp256k1.PrivateKey, digest []byte) []byte {
	t.Helper()
	return secpecdsa.SignCompact(priv, digest, true)[1:]
}

// certify produces one chain link: signer's recoverable signature over
// the hash of the subject key.
func certify(t *testing.T, signer *secp256k1.PrivateKey, subject *secp256k1.PrivateKey) []byte {
	t.Helper()
	digest := sha256.Sum256(subject.PubKey().SerializeCompressed())
	return secpecdsa.SignCompact(signer, digest[:], true)
}

// cardFixture models a factory-certified card: the card key is certified
// by a batch key, which is certified by the root.
type cardFixture struct {
	root    *secp256k1.PrivateKey
	batch   *secp256k1.PrivateKey
	card    *secp256k1.PrivateKey
	service *Service
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()
	f := &cardFixture{
		root:  genKey(t),
		batch: genKey(t),
		card:  genKey(t),
	}

	service, err := New([][]byte{f.root.PubKey().SerializeCompressed()})
	require.NoError(t, err)
	f.service = service
	return f
}

func (f *cardFixture) chain(t *testing.T) [][]byte {
	t.Helper()
	return [][]byte{
		certify(t, f.batch, f.card),
		certify(t, f.root, f.batch),
	}
}

// challenge builds the status/check pair for a certs verification, with
// the card genuinely signing the nonce-bound message.
func (f *cardFixture) challenge(t *testing.T, hostNonce []byte, slotPubKey []byte) (*protocol.StatusResponse, *protocol.CheckResponse) {
	t.Helper()

	cardNonce := make([]byte, protocol.CardNonceSize)
	for i := range cardNonce {
		cardNonce[i] = byte(i + 1)
	}

	var context [][]byte
	if slotPubKey != nil {
		context = append(context, slotPubKey)
	}
	msg, err := protocol.SigningMessage(cardNonce, hostNonce, context...)
	require.NoError(t, err)
	digest := sha256.Sum256(msg)

	status := &protocol.StatusResponse{
		PublicKey: f.card.PubKey().SerializeCompressed(),
		CardNonce: cardNonce,
	}
	check := &protocol.CheckResponse{AuthSignature: sign64(t, f.card, digest[:])}
	return status, check
}

func hostNonce(t *testing.T) []byte {
	t.Helper()
	nonce, err := protocol.PickNonce()
	require.NoError(t, err)
	return nonce
}
