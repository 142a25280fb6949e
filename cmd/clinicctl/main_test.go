package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFlushCache(t *testing.T) string {
	t.Helper()

	cmd := flushCacheCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestFlushCache_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())
	t.Setenv("REDIS_PREFIX", "clinichub:")

	require.NoError(t, mr.Set("clinichub:clinic:slug:north-clinic", "north"))
	require.NoError(t, mr.Set("clinichub:clinic:id:1", "north"))
	require.NoError(t, mr.Set("clinichub:session:1", "kept"))

	runFlushCache(t)

	assert.False(t, mr.Exists("clinichub:clinic:slug:north-clinic"))
	assert.False(t, mr.Exists("clinichub:clinic:id:1"))
	assert.True(t, mr.Exists("clinichub:session:1"))
}

func TestFlushCache_MemoryCacheIsNoop(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TYPE", "memory")

	out := runFlushCache(t)
	assert.Contains(t, out, "No shared clinic cache configured")
}
