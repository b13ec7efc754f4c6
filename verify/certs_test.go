package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opensats/cardauth/protocol"
)

func TestVerifyCertsGenuineCard(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	status, check := f.challenge(t, nonce, nil)
	certs := &protocol.CertsResponse{CertChain: f.chain(t)}

	root, err := f.service.VerifyCerts(status, check, certs, nonce, nil)
	require.NoError(t, err)
	require.Equal(t, f.root.PubKey().SerializeCompressed(), root)
}

func TestVerifyCertsSealedSlotBinding(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	slotKey := genKey(t).PubKey().SerializeCompressed()
	status, check := f.challenge(t, nonce, slotKey)
	certs := &protocol.CertsResponse{CertChain: f.chain(t)}

	root, err := f.service.VerifyCerts(status, check, certs, nonce, slotKey)
	require.NoError(t, err)
	require.Equal(t, f.root.PubKey().SerializeCompressed(), root)

	// The signature binds the slot key: verifying against a different
	// slot key must fail.
	otherSlot := genKey(t).PubKey().SerializeCompressed()
	_, err = f.service.VerifyCerts(status, check, certs, nonce, otherSlot)
	require.ErrorIs(t, err, ErrBadAuthSignature)
}

func TestVerifyCertsChainTooShort(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	status, check := f.challenge(t, nonce, nil)

	for _, chain := range [][][]byte{nil, {certify(t, f.root, f.card)}} {
		_, err := f.service.VerifyCerts(status, check, &protocol.CertsResponse{CertChain: chain}, nonce, nil)
		require.ErrorIs(t, err, ErrChainTooShort)
	}
}

func TestVerifyCertsBadAuthSignature(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	status, check := f.challenge(t, nonce, nil)
	certs := &protocol.CertsResponse{CertChain: f.chain(t)}

	check.AuthSignature[5] ^= 0x01
	_, err := f.service.VerifyCerts(status, check, certs, nonce, nil)
	require.ErrorIs(t, err, ErrBadAuthSignature)

	// A stale host nonce also fails: the challenge is nonce-bound.
	check.AuthSignature[5] ^= 0x01
	_, err = f.service.VerifyCerts(status, check, certs, hostNonce(t), nil)
	require.ErrorIs(t, err, ErrBadAuthSignature)
}

func TestVerifyCertsUntrustedRoot(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	status, check := f.challenge(t, nonce, nil)

	// Same structure, chain terminates at a key outside the root set.
	impostor := genKey(t)
	chain := [][]byte{
		certify(t, f.batch, f.card),
		certify(t, impostor, f.batch),
	}

	_, err := f.service.VerifyCerts(status, check, &protocol.CertsResponse{CertChain: chain}, nonce, nil)
	require.ErrorIs(t, err, ErrCounterfeitDevice)
}

func TestVerifyCertsMutatedChainLink(t *testing.T) {
	f := newCardFixture(t)
	nonce := hostNonce(t)
	status, check := f.challenge(t, nonce, nil)

	for link := 0; link < 2; link++ {
		for _, offset := range []int{1, 17, 40, 64} {
			chain := f.chain(t)
			chain[link][offset] ^= 0x01

			_, err := f.service.VerifyCerts(status, check, &protocol.CertsResponse{CertChain: chain}, nonce, nil)
			require.ErrorIs(t, err, ErrCounterfeitDevice, "link %d offset %d", link, offset)
		}
	}
}

func TestNewRequiresRoots(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New([][]byte{make([]byte, 33)})
	require.Error(t, err)
}
