package derive

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/opensats/cardauth/protocol"
)

func netParams(testnet bool) *chaincfg.Params {
	if testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// RenderAddress renders a key as a P2WPKH payment address. The key is a
// 33-byte compressed public key, or a 32-byte private key which is
// normalized to its public key first (an unsealed slot reveals only the
// private key).
func RenderAddress(key []byte, testnet bool) (string, error) {
	var pub []byte
	switch len(key) {
	case 32:
		pub = secp256k1.PrivKeyFromBytes(key).PubKey().SerializeCompressed()
	case protocol.PubKeySize:
		parsed, err := btcec.ParsePubKey(key)
		if err != nil {
			return "", fmt.Errorf("derive: parsing public key: %w", err)
		}
		pub = parsed.SerializeCompressed()
	default:
		return "", &protocol.InvalidInputError{Field: "key", Reason: "must be a 33-byte public or 32-byte private key"}
	}

	addr, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub), netParams(testnet))
	if err != nil {
		return "", fmt.Errorf("derive: rendering address: %w", err)
	}
	return addr.EncodeAddress(), nil
}

// FirstChild derives the first non-hardened child (path m/0) from a chain
// code and master key, and renders its address. The master key may be the
// 33-byte public key (sealed slot) or the 32-byte private key (after
// unsealing); both yield the same child address. This is the value the
// card must reproduce after an unseal, so a card that promised one address
// cannot substitute another key later.
func FirstChild(chainCode, masterKey []byte, testnet bool) (string, []byte, error) {
	if len(chainCode) != protocol.ChainCodeSize {
		return "", nil, &protocol.InvalidInputError{Field: "chain code", Reason: "must be 32 bytes"}
	}

	params := netParams(testnet)
	parentFP := []byte{0x00, 0x00, 0x00, 0x00}

	var ext *hdkeychain.ExtendedKey
	switch len(masterKey) {
	case protocol.PubKeySize:
		ext = hdkeychain.NewExtendedKey(params.HDPublicKeyID[:], masterKey, chainCode, parentFP, 0, 0, false)
	case 32:
		ext = hdkeychain.NewExtendedKey(params.HDPrivateKeyID[:], masterKey, chainCode, parentFP, 0, 0, true)
	default:
		return "", nil, &protocol.InvalidInputError{Field: "master key", Reason: "must be a 33-byte public or 32-byte private key"}
	}

	child, err := ext.Derive(0)
	if err != nil {
		return "", nil, fmt.Errorf("derive: deriving first child: %w", err)
	}

	childPub, err := child.ECPubKey()
	if err != nil {
		return "", nil, fmt.Errorf("derive: extracting child public key: %w", err)
	}

	pub := childPub.SerializeCompressed()
	addr, err := RenderAddress(pub, testnet)
	if err != nil {
		return "", nil, err
	}
	return addr, pub, nil
}
