package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCache_BasicOperations(t *testing.T) {
	tempDir := t.TempDir()

	cache, err := NewContentCache(filepath.Join(tempDir, ".cache"))
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.py")
	testContent := []byte("print('hello')\n")
	require.NoError(t, os.WriteFile(testFile, testContent, 0644))

	content, found := cache.Get(testFile)
	assert.False(t, found)
	assert.Nil(t, content)

	require.NoError(t, cache.Set(testFile, testContent))

	cached, found := cache.Get(testFile)
	assert.True(t, found)
	assert.Equal(t, testContent, cached)
}

func TestContentCache_InvalidatesOnModification(t *testing.T) {
	tempDir := t.TempDir()

	cache, err := NewContentCache(filepath.Join(tempDir, ".cache"))
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.py")
	require.NoError(t, os.WriteFile(testFile, []byte("original"), 0644))
	require.NoError(t, cache.Set(testFile, []byte("original")))

	// Change both content and mtime so the entry is stale.
	newContent := []byte("modified content")
	require.NoError(t, os.WriteFile(testFile, newContent, 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(testFile, future, future))

	_, found := cache.Get(testFile)
	assert.False(t, found)
}

func TestContentCache_Clear(t *testing.T) {
	tempDir := t.TempDir()

	cache, err := NewContentCache(filepath.Join(tempDir, ".cache"))
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.py")
	require.NoError(t, os.WriteFile(testFile, []byte("data"), 0644))
	require.NoError(t, cache.Set(testFile, []byte("data")))

	files, totalSize, err := cache.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, files)
	assert.Greater(t, totalSize, int64(0))

	require.NoError(t, cache.Clear())

	files, _, err = cache.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, files)

	_, found := cache.Get(testFile)
	assert.False(t, found)
}
