package protocol

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// Ident renders the human-readable fingerprint of a card's long-term
// public key: base32 of the key's hash with the leading bytes skipped
// (those are already revealed in the card's NFC URL), first twenty
// characters in dash-separated groups of five.
func Ident(cardPubKey []byte) (string, error) {
	if len(cardPubKey) != PubKeySize {
		return "", &InvalidInputError{Field: "card public key", Reason: "must be a 33-byte compressed point"}
	}

	sum := sha256.Sum256(cardPubKey)
	md := base32.StdEncoding.EncodeToString(sum[8:])

	groups := make([]string, 0, 4)
	for pos := 0; pos < 20; pos += 5 {
		groups = append(groups, md[pos:pos+5])
	}
	return strings.Join(groups, "-"), nil
}
