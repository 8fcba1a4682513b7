package syncpair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddIsIdempotent(t *testing.T) {
	configPath := writeBatch(t, "job.ffs_batch", sampleBatch)
	reg := NewRegistry()

	errs := reg.Add(configPath)
	require.Len(t, errs, 1)
	require.NoError(t, errs[0])
	first := reg.Pairs()
	require.NotEmpty(t, first)

	// Same config again: pairs share the ConfigPath, so nothing new.
	errs = reg.Add(configPath)
	require.NoError(t, errs[0])
	assert.Equal(t, len(first), len(reg.Pairs()))
}

func TestRegistry_DedupByConfigPath(t *testing.T) {
	configPath := writeBatch(t, "multi.ffs_batch", sampleBatch)
	reg := NewRegistry()
	require.NoError(t, reg.Add(configPath)[0])

	// The sample file defines two usable pairs but they share one config
	// path, so only the first is registered.
	pairs := reg.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "/data/docs", pairs[0].LeftPath)
}

func TestRegistry_AddReportsPerPathErrors(t *testing.T) {
	good := writeBatch(t, "good.ffs_batch", sampleBatch)
	bad := writeBatch(t, "bad.ffs_batch", "<not-xml")
	reg := NewRegistry()

	errs := reg.Add(bad, "unknown.toml", good)
	require.Len(t, errs, 3)
	assert.Error(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrUnsupportedConfig)
	assert.NoError(t, errs[2])

	// The good config still loaded despite the bad ones.
	assert.NotEmpty(t, reg.Pairs())
}

func TestRegistry_Remove(t *testing.T) {
	configPath := writeBatch(t, "job.ffs_batch", sampleBatch)
	reg := NewRegistry()
	require.NoError(t, reg.Add(configPath)[0])

	assert.True(t, reg.Remove(configPath))
	assert.Empty(t, reg.Pairs())
	assert.Empty(t, reg.ConfigPaths())
	assert.False(t, reg.Remove(configPath))
}

func TestRegistry_OnChange(t *testing.T) {
	configPath := writeBatch(t, "job.ffs_batch", sampleBatch)
	reg := NewRegistry()

	var fired int
	reg.OnChange(func() { fired++ })

	require.NoError(t, reg.Add(configPath)[0])
	assert.Equal(t, 1, fired)

	// No-op add must not notify.
	require.NoError(t, reg.Add(configPath)[0])
	assert.Equal(t, 1, fired)

	reg.Remove(configPath)
	assert.Equal(t, 2, fired)
}

func TestRegistry_Reload(t *testing.T) {
	configPath := writeBatch(t, "job.ffs_batch", sampleBatch)
	reg := NewRegistry()
	require.NoError(t, reg.Add(configPath)[0])

	var fired int
	reg.OnChange(func() { fired++ })

	require.NoError(t, reg.Reload(configPath))
	assert.Equal(t, 1, fired)
	assert.Len(t, reg.Pairs(), 1)
}
