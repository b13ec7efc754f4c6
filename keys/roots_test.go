package keys

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	roots := Builtin()
	require.Len(t, roots, 1)
	require.Len(t, roots[0], 33)

	_, err := btcec.ParsePubKey(roots[0])
	require.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	a, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	b, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "roots.txt")
	content := "# development batch roots\n" +
		hex.EncodeToString(a.PubKey().SerializeCompressed()) + "\n" +
		"\n" +
		hex.EncodeToString(b.PubKey().SerializeCompressed()) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	roots, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, a.PubKey().SerializeCompressed(), roots[0])
	require.Equal(t, b.PubKey().SerializeCompressed(), roots[1])
}

func TestLoadFileRejectsBadEntries(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "badhex.txt")
	require.NoError(t, os.WriteFile(path, []byte("not-hex\n"), 0600))
	_, err := LoadFile(path)
	require.Error(t, err)

	path = filepath.Join(dir, "badkey.txt")
	require.NoError(t, os.WriteFile(path, []byte(hex.EncodeToString(make([]byte, 33))+"\n"), 0600))
	_, err = LoadFile(path)
	require.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
