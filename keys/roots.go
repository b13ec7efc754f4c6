// Package keys provides the trusted factory root key set that terminates
// every legitimate card certificate chain.
//
// The production root is compiled in. Additional roots (development and
// test batches) can be loaded from a file of hex-encoded compressed
// public keys, one per line; blank lines and lines starting with '#' are
// ignored.
//
// The root set is immutable configuration: load it once at startup and
// inject it into the verification service. Concurrent readers need no
// locking.
package keys

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

// factoryRootHex is the manufacturer's certificate authority key. Every
// genuine card's certificate chain terminates at this key.
const factoryRootHex = "03028a0e89e70d0ec0d932053a89ab1da7d9182bdc6d2f03e91d290a95a1be10c5"

// Builtin returns the compiled-in factory root set.
func Builtin() [][]byte {
	root, err := hex.DecodeString(factoryRootHex)
	if err != nil {
		// Compile-time constant; unreachable for a well-formed binary.
		panic(err)
	}
	return [][]byte{root}
}

// LoadFile reads additional trusted roots from a file. Each key is
// validated to be a parseable compressed secp256k1 point before it is
// trusted.
func LoadFile(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("keys: opening roots file: %w", err)
	}
	defer f.Close()

	var roots [][]byte
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		raw, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("keys: %s:%d: invalid hex: %w", path, lineno, err)
		}
		if _, err := btcec.ParsePubKey(raw); err != nil {
			return nil, fmt.Errorf("keys: %s:%d: invalid public key: %w", path, lineno, err)
		}
		roots = append(roots, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("keys: reading roots file: %w", err)
	}
	return roots, nil
}
