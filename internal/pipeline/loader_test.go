package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/adpulse/internal/model"
	"github.com/theirongolddev/adpulse/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loaderFile = `
[[country]]
id = "thailand"

[[country.point]]
period = 2025-01-01
new_users = 100
revenue = 1000
cpa = 20
ltv = 90
subscription_share = 0.4

[[country.point]]
period = 2025-02-01
new_users = 150
revenue = 1600
cpa = 19
ltv = 92
subscription_share = 0.42

[[budget]]
channel = "Paid Search"
allocated = 100
spent = 20
`

func writeDataFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "data.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadBuiltin(t *testing.T) {
	a, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, a.Source)
	assert.Len(t, a.Dataset.Campaigns, 7)

	b, err := LoadWithCache("", nil)
	require.NoError(t, err)
	assert.Equal(t, a.Revision, b.Revision)
}

func TestLoadFile(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), loaderFile)
	res, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.Source)
	assert.False(t, res.CacheHit)
	th, ok := res.Dataset.Country(model.Thailand)
	require.True(t, ok)
	assert.Len(t, th.Historical, 2)
	assert.NotEmpty(t, th.Journey)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadWithCache(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, loaderFile)

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	first, err := LoadWithCache(path, cache)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := LoadWithCache(path, cache)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Revision, second.Revision)

	th, ok := second.Dataset.Country(model.Thailand)
	require.True(t, ok)
	assert.Len(t, th.Historical, 2)
	assert.Len(t, th.Journey, 5, "journeys are reattached on cache hits")
	require.Len(t, second.Dataset.Budget, 1)
	assert.True(t, second.Dataset.Budget[0].Spent.Equal(dec("20")))

	// Change the file: different size and a later mtime.
	require.NoError(t, os.WriteFile(path, []byte(loaderFile+"\n[[budget]]\nchannel = \"Affiliate\"\nallocated = 5\nspent = 1\n"), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := LoadWithCache(path, cache)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
	assert.NotEqual(t, first.Revision, third.Revision)
	assert.Len(t, third.Dataset.Budget, 2)
}

func TestLoadWithCacheInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "[[budget]]\nchannel = \"x\"\nallocated = 1\n")

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, err = LoadWithCache(path, cache)
	assert.ErrorIs(t, err, model.ErrInvalidRecord)

	n, err := cache.DatasetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLoadWithCacheDropsStaleEntry(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, loaderFile)

	cache, err := store.Open(filepath.Join(dir, "cache.db"))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	_, err = LoadWithCache(path, cache)
	require.NoError(t, err)
	n, err := cache.DatasetCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, os.WriteFile(path, []byte("[[budget]]\nchannel = \"x\"\nallocated = 1\n"), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = LoadWithCache(path, cache)
	assert.ErrorIs(t, err, model.ErrInvalidRecord)

	n, err = cache.DatasetCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
