package hash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32CKnownValue(t *testing.T) {
	// RFC 3720 test vector: 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
}

func TestFileCRC32CMatchesOneShot(t *testing.T) {
	data := []byte("sparse ternary vectors")
	path := filepath.Join(t.TempDir(), "blob")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sum, err := FileCRC32C(path)
	require.NoError(t, err)
	assert.Equal(t, CRC32C(data), sum)
}

func TestFileCRC32CMissing(t *testing.T) {
	_, err := FileCRC32C(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCRC32CBase64(t *testing.T) {
	assert.Equal(t, "AAAAAQ==", CRC32CBase64(1))
}

func TestSeed64(t *testing.T) {
	a := Seed64([]byte("ab"), []byte("c"))
	b := Seed64([]byte("a"), []byte("bc"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Seed64([]byte("ab"), []byte("c")))
}
