package protocol

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Retries before declaring the randomness source suspect.
const nonceAttempts = 3

// PickNonce produces a fresh host challenge nonce. Nonces with degenerate
// entropy (all bytes identical) are rejected and regenerated; if every
// attempt is degenerate the RNG is suspect and ErrWeakEntropy is returned
// rather than a weak nonce.
func PickNonce() ([]byte, error) {
	return pickNonce(rand.Reader)
}

func pickNonce(r io.Reader) ([]byte, error) {
	for attempt := 0; attempt < nonceAttempts; attempt++ {
		nonce := make([]byte, UserNonceSize)
		if _, err := io.ReadFull(r, nonce); err != nil {
			return nil, fmt.Errorf("protocol: reading nonce randomness: %w", err)
		}
		if nonceUsable(nonce) {
			return nonce, nil
		}
	}
	return nil, ErrWeakEntropy
}

// nonceUsable rejects nonces the card would refuse: every byte identical.
func nonceUsable(nonce []byte) bool {
	if nonce[0] != nonce[len(nonce)-1] {
		return true
	}
	for _, b := range nonce[1:] {
		if b != nonce[0] {
			return true
		}
	}
	return false
}
