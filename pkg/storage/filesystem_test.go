package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	n, err := store.SaveStream("photo.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.EqualValues(t, len("jpeg-bytes"), n)

	data, err := os.ReadFile(filepath.Join(dir, "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete("photo.jpg"))
	_, err = os.Stat(filepath.Join(dir, "photo.jpg"))
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Delete("photo.jpg"))
}

func TestLocalStorageRefusesOverwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("a.png", strings.NewReader("one"))
	require.NoError(t, err)
	_, err = store.SaveStream("a.png", strings.NewReader("two"))
	assert.Error(t, err)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveStream("../escape.png", strings.NewReader("x"))
	assert.Error(t, err)
	_, err = store.SaveStream("", strings.NewReader("x"))
	assert.Error(t, err)
}
