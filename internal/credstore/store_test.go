package credstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentui/agentui/pkg/domain"
)

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend()
	return New(b, zerolog.Nop()), b
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	_, ok := s.Token()
	assert.False(t, ok, "empty store has no token")

	require.NoError(t, s.SetToken("tok-123"))
	tok, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-123", tok)

	require.NoError(t, s.ClearToken())
	_, ok = s.Token()
	assert.False(t, ok)

	// clearing again is fine
	require.NoError(t, s.ClearToken())
}

func TestStore_EmptyTokenIsAbsent(t *testing.T) {
	s, b := newTestStore(t)
	require.NoError(t, b.Set(KeyToken, ""))
	_, ok := s.Token()
	assert.False(t, ok)
}

func TestStore_ProfileRoundTrip(t *testing.T) {
	s, b := newTestStore(t)

	u := &domain.UserDetails{
		UserID: "u1",
		Email:  "a@b.c",
		Roles:  []domain.RoleAssignment{{RoleName: "ADMIN"}},
		ScreenPermissions: []domain.ScreenPermission{
			{ScreenName: "DASHBOARD", IsValid: true},
		},
	}
	require.NoError(t, s.SetProfile(u))

	raw, ok, err := b.Get(KeyProfile)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"screen_permissions"`)

	got, ok := s.Profile()
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.HasRole("ADMIN"))
	assert.True(t, got.HasPermission("DASHBOARD"))

	require.NoError(t, s.ClearProfile())
	_, ok = s.Profile()
	assert.False(t, ok)
}

func TestStore_MalformedProfileIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "{not json"},
		{"wrong shape", `"just a string"`},
		{"null", "null"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, b := newTestStore(t)
			require.NoError(t, b.Set(KeyProfile, tt.raw))
			assert.NotPanics(t, func() {
				u, ok := s.Profile()
				assert.False(t, ok)
				assert.Nil(t, u)
			})
		})
	}
}

func TestFileBackend_RoundTripAndModes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	b := NewFileBackend(dir)

	_, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(KeyToken, "secret"))
	v, ok, err := b.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "secret", v)

	fi, err := os.Stat(filepath.Join(dir, KeyToken))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	di, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), di.Mode().Perm())

	require.NoError(t, b.Set(KeyToken, "rotated"))
	v, _, err = b.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "rotated", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, b.Remove(KeyToken))
	require.NoError(t, b.Remove(KeyToken))
	_, ok, err = b.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileBackend_RejectsBadKeys(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	for _, key := range []string{"", "..", "../escape", "a/b"} {
		assert.Error(t, b.Set(key, "x"), "key %q", key)
	}
}

func TestFileBackend_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	s1 := New(NewFileBackend(dir), zerolog.Nop())
	require.NoError(t, s1.SetToken("tok"))
	require.NoError(t, s1.SetProfile(&domain.UserDetails{Email: "x@y.z"}))

	s2 := New(NewFileBackend(dir), zerolog.Nop())
	tok, ok := s2.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", tok)
	u, ok := s2.Profile()
	require.True(t, ok)
	assert.Equal(t, "x@y.z", u.Email)
}

func TestMemoryBackend_Concurrent(t *testing.T) {
	s, _ := newTestStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SetToken("t")
			s.Token()
			_ = s.ClearToken()
		}()
	}
	wg.Wait()
}
