// Package verify authenticates a card against the factory trust chain and
// recovers the key material the card proves it controls.
//
// A Service is constructed once with the trusted factory root set and is
// safe for concurrent use; every method is a pure function over its
// arguments. All failures are typed: certificate and address mismatches
// surface as ErrCounterfeitDevice, failed signatures as
// ErrBadAuthSignature or ErrProofOfPossession, and neither is ever
// recovered from locally.
package verify

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Service verifies card responses against an immutable trusted-root set.
type Service struct {
	roots [][]byte
}

// New creates a verification service trusting the given factory root
// keys (33-byte compressed points). At least one root is required.
func New(roots [][]byte) (*Service, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("verify: no trusted roots configured")
	}

	kept := make([][]byte, 0, len(roots))
	for i, root := range roots {
		if _, err := btcec.ParsePubKey(root); err != nil {
			return nil, fmt.Errorf("verify: trusted root %d: %w", i, err)
		}
		kept = append(kept, bytes.Clone(root))
	}
	return &Service{roots: kept}, nil
}

// trustedRoot reports whether key is one of the configured factory roots.
// Comparison is byte-for-byte on the compressed encoding.
func (s *Service) trustedRoot(key []byte) bool {
	for _, root := range s.roots {
		if bytes.Equal(root, key) {
			return true
		}
	}
	return false
}
