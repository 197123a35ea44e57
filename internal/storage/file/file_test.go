package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trust/internal/storage"
)

var _ storage.Slot = (*Slot)(nil)

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "pathan_samaj_trust_data")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "pathan_samaj_trust_data", []byte(`{"members":[]}`)))
	require.NoError(t, s.Put(ctx, "pathan_samaj_trust_data", []byte(`{"members":[],"donations":[]}`)))

	got, ok, err := s.Get(ctx, "pathan_samaj_trust_data")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"members":[],"donations":[]}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPathSanitizesKey(t *testing.T) {
	s := &Slot{dir: "/data"}
	assert.Equal(t, filepath.Join("/data", "a_b_c.json"), s.Path("a/b c"))
	assert.Equal(t, filepath.Join("/data", "trust-data.v1.json"), s.Path("trust-data.v1"))
}
