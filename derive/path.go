// Package derive renders payment addresses from card keys and handles
// BIP-32 derivation paths, including the fixed first-child re-derivation
// used to confirm a card reproduces the address it promised.
package derive

import (
	"fmt"
	"strconv"
	"strings"
)

// Hardened is the BIP-32 hardened-derivation flag bit.
const Hardened uint32 = 0x80000000

// PathRangeError reports a path component outside [0, 2^31).
type PathRangeError uint64

func (e PathRangeError) Error() string {
	return fmt.Sprintf("derive: path component %d out of range", uint64(e))
}

// MalformedPathError reports a path component that is not a decimal index
// with an optional hardening marker.
type MalformedPathError string

func (e MalformedPathError) Error() string {
	return fmt.Sprintf("derive: malformed path component %q", string(e))
}

// ParsePath parses a textual derivation path such as "m/84h/0h/0h" into
// component indices with the hardened bit applied. The leading "m" and
// empty components are skipped; accepted hardening markers are h, H, p, P
// and the apostrophe.
func ParsePath(path string) ([]uint32, error) {
	var out []uint32
	for _, comp := range strings.Split(path, "/") {
		if comp == "m" || comp == "" {
			continue
		}

		hardened := false
		if strings.ContainsRune("'phHP", rune(comp[len(comp)-1])) {
			if len(comp) == 1 {
				return nil, MalformedPathError(comp)
			}
			hardened = true
			comp = comp[:len(comp)-1]
		}

		n, err := strconv.ParseUint(comp, 10, 64)
		if err != nil {
			return nil, MalformedPathError(comp)
		}
		if n >= uint64(Hardened) {
			return nil, PathRangeError(n)
		}

		idx := uint32(n)
		if hardened {
			idx |= Hardened
		}
		out = append(out, idx)
	}
	return out, nil
}

// FormatPath renders a derivation path in its canonical textual form,
// using "h" as the hardening marker.
func FormatPath(path []uint32) string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, idx := range path {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(idx&^Hardened), 10))
		if idx&Hardened != 0 {
			sb.WriteString("h")
		}
	}
	return sb.String()
}
