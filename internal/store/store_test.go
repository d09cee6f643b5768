package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	s := openTestStore(t)

	reg := &ServerRegistration{
		Name:     "eu-main",
		Host:     "ror.example.com",
		Port:     12000,
		Password: "hunter2",
		Language: "en-US",
	}
	require.NoError(t, s.Add(reg))

	got, err := s.Get("eu-main")
	require.NoError(t, err)
	assert.Equal(t, "ror.example.com", got.Host)
	assert.Equal(t, 12000, got.Port)
	assert.Equal(t, "hunter2", got.Password)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUniqueNames(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add(&ServerRegistration{Name: "dup", Host: "a", Port: 1}))
	assert.Error(t, s.Add(&ServerRegistration{Name: "dup", Host: "b", Port: 2}))
}

func TestListOrder(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, s.Add(&ServerRegistration{Name: name, Host: "h", Port: 1}))
	}

	regs, err := s.List()
	require.NoError(t, err)
	require.Len(t, regs, 3)
	assert.Equal(t, "first", regs[0].Name)
	assert.Equal(t, "third", regs[2].Name)
}

func TestRemove(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Add(&ServerRegistration{Name: "gone", Host: "h", Port: 1}))
	require.NoError(t, s.Remove("gone"))

	_, err := s.Get("gone")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Remove("gone"), ErrNotFound)
}
