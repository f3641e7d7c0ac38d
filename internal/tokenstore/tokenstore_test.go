package tokenstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func Test_DefaultPath_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.Equal(t, filepath.Join(dir, "assetdesk", "token.json"), DefaultPath())
}

func TestFileStore_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "token.json"))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoToken)

	tok := signed(t, time.Now().Add(time.Hour))
	require.NoError(t, s.Save(tok))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, tok, got)

	require.NoError(t, s.Delete())
	require.NoError(t, s.Delete(), "deleting twice is fine")
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestFileStore_ExpiredTokenIsDropped(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, s.Save(signed(t, time.Now().Add(-time.Minute))))

	_, err := s.Load()
	require.ErrorIs(t, err, ErrNoToken)
	_, statErr := os.Stat(s.Path())
	require.True(t, os.IsNotExist(statErr))
}

func TestFileStore_OpaqueTokenGetsDefaultTTL(t *testing.T) {
	t.Parallel()

	s := NewFileStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, s.Save("opaque"))

	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"access_token": "opaque"`))

	s.now = func() time.Time { return time.Now().Add(20 * time.Minute) }
	_, err = s.Load()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	exp := now.Add(2 * time.Hour).Truncate(time.Second)
	require.True(t, Expiry(signed(t, exp), now).Equal(exp))
	require.Equal(t, now.Add(defaultTTL), Expiry("garbage", now))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore("")
	_, err := m.Load()
	require.ErrorIs(t, err, ErrNoToken)
	require.NoError(t, m.Save("t"))
	got, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, "t", got)
	require.NoError(t, m.Delete())
	_, err = m.Load()
	require.ErrorIs(t, err, ErrNoToken)
}
