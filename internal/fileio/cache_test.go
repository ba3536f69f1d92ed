package fileio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cacheCSV = "id,name\n1,milk\n"

func TestCache_HitOnSameContent(t *testing.T) {
	c := NewCache(time.Minute)

	first, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)
	second, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)

	assert.Same(t, first, second)
	hits, misses := c.stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCache_KeyIncludesHeaderRowAndExtension(t *testing.T) {
	c := NewCache(time.Minute)

	a, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)
	b, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 2)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestCache_Expiry(t *testing.T) {
	c := NewCache(20 * time.Millisecond)

	first, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	second, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	_, misses := c.stats()
	assert.Equal(t, int64(2), misses)
}

func TestCache_DisabledTTLParsesEveryTime(t *testing.T) {
	c := NewCache(0)

	a, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)
	b, err := c.GetOrParse([]byte(cacheCSV), "a.csv", 1)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestCache_ParseErrorNotCached(t *testing.T) {
	c := NewCache(time.Minute)

	_, err := c.GetOrParse([]byte("x"), "a.unsupported", 1)
	require.Error(t, err)
	_, err = c.GetOrParse([]byte("x"), "a.unsupported", 1)
	require.Error(t, err)
}
