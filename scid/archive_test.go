package scid

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestUnpackXZ(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := filepath.Join(dir, "es.scid")
	base := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	require.NoError(t, WriteFile(plain, []Tick{tickAt(base, 5000.25, 2)}))

	raw, err := os.ReadFile(plain)
	require.NoError(t, err)

	packed := filepath.Join(dir, "dl", "es.scid.xz")
	require.NoError(t, os.MkdirAll(filepath.Dir(packed), 0o755))
	out, err := os.Create(packed)
	require.NoError(t, err)
	zw, err := xz.NewWriter(out)
	require.NoError(t, err)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	dst, err := UnpackXZ(packed, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dl", "es.scid"), dst)

	r, err := Open(dst)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, 1, r.Count())
}

func TestUnpackXZBadSuffix(t *testing.T) {
	t.Parallel()

	_, err := UnpackXZ("plain.scid", "")
	assert.Error(t, err)
}

func TestUnpackXZNotXZ(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "junk.scid.xz")
	require.NoError(t, os.WriteFile(src, []byte("not an xz stream"), 0o644))

	_, err := UnpackXZ(src, "")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
