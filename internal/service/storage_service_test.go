package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learngenix_backend/internal/config"
	"learngenix_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStorage(t *testing.T) (*StorageService, string) {
	root := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = root
	return NewStorageService(cfg), root
}

func TestLocalProviderRejectsEscapingKeys(t *testing.T) {
	storage, _ := newLocalStorage(t)
	ctx := context.Background()

	for _, key := range []string{"", "../secret", "avatars/../../etc/passwd", "/abs/path", "avatars//double"} {
		_, err := storage.Provider.Put(ctx, key, strings.NewReader("x"), 1, "text/plain")
		assert.ErrorIs(t, err, errInvalidObjectKey, key)
	}
}

func TestSaveAndRemoveAvatar(t *testing.T) {
	storage, root := newLocalStorage(t)
	ctx := context.Background()

	url, err := storage.SaveAvatar(ctx, "user-1", strings.NewReader("img"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/user-1/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	key, ok := storage.KeyForURL("user-1", url)
	require.True(t, ok)
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)

	// 其他用户或外部 URL 不会被删除
	_, ok = storage.KeyForURL("user-2", url)
	assert.False(t, ok)
	assert.NoError(t, storage.RemoveAvatar(ctx, "user-1", "https://cdn.example.com/a.png"))

	require.NoError(t, storage.RemoveAvatar(ctx, "user-1", url))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// 重复删除不报错
	assert.NoError(t, storage.RemoveAvatar(ctx, "user-1", url))
}

func TestMinioFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageMinio
	cfg.Storage.MinioEndpoint = "bad endpoint with spaces"
	cfg.Storage.LocalPath = t.TempDir()

	storage := NewStorageService(cfg)
	_, ok := storage.Provider.(*localProvider)
	assert.True(t, ok)
}
