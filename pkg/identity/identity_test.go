package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore simulates an unavailable persistence layer.
type failingStore struct{}

func (failingStore) Get(string) (string, bool) { return "", false }
func (failingStore) Set(string, string) error  { return errors.New("storage unavailable") }

func TestProvider_DeviceIDStable(t *testing.T) {
	p := NewProvider(NewMemStore(), NewMemStore())

	first := p.DeviceID()
	require.NotEmpty(t, first)
	assert.Equal(t, first, p.DeviceID())
	assert.Equal(t, first, p.DeviceID())
}

func TestProvider_FallbackWhenPrimaryUnavailable(t *testing.T) {
	fallback := NewMemStore()
	p := NewProvider(failingStore{}, fallback)

	id := p.DeviceID()
	require.NotEmpty(t, id)

	// The id landed in the fallback and is served from there afterwards.
	stored, ok := fallback.Get("deviceId")
	require.True(t, ok)
	assert.Equal(t, id, stored)
	assert.Equal(t, id, p.DeviceID())
}

func TestProvider_UsernameRoundTrip(t *testing.T) {
	p := NewProvider(NewMemStore(), NewMemStore())

	assert.Empty(t, p.CurrentUsername())
	p.SaveCurrentUsername("reader_42")
	assert.Equal(t, "reader_42", p.CurrentUsername())
}

func TestProvider_UsernameFallback(t *testing.T) {
	p := NewProvider(failingStore{}, NewMemStore())

	p.SaveCurrentUsername("anon")
	assert.Equal(t, "anon", p.CurrentUsername())
}

func TestFileStore_PersistsAcrossProviders(t *testing.T) {
	path := t.TempDir() + "/identity.json"

	first := NewProvider(NewFileStore(path), NewMemStore())
	id := first.DeviceID()
	first.SaveCurrentUsername("alice")

	second := NewProvider(NewFileStore(path), NewMemStore())
	assert.Equal(t, id, second.DeviceID())
	assert.Equal(t, "alice", second.CurrentUsername())
}

func TestFingerprint_Unique(t *testing.T) {
	// The time suffix keeps ids from colliding across installations even
	// when the host attributes are identical.
	a := fingerprint()
	b := fingerprint()
	if a == b {
		// Same millisecond; the ids are allowed to match only then.
		t.Skip("fingerprints generated within the same millisecond")
	}
	assert.NotEqual(t, a, b)
}
