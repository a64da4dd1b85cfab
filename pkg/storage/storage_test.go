package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"skill_portal_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProviderUploadAndDelete(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(root)
	ctx := context.Background()

	url, err := PutBytes(ctx, p, "questions/skill-1.json", []byte(`{"a":1}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, "/exports/questions/skill-1.json", url)

	data, err := os.ReadFile(filepath.Join(root, "questions", "skill-1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))

	require.NoError(t, p.Delete(ctx, "questions/skill-1.json"))
	_, err = os.Stat(filepath.Join(root, "questions", "skill-1.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalProviderStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	p := NewLocalProvider(root)

	_, err := PutBytes(context.Background(), p, "../../escape.json", []byte("x"), "text/plain")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.json"))
	assert.NoError(t, err)
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(&config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalProvider{}, p)

	p, err = New(&config.StorageConfig{Type: "minio", MinioEndpoint: "localhost:9000", MinioBucket: "b"})
	require.NoError(t, err)
	assert.IsType(t, &MinioProvider{}, p)
	assert.Equal(t, "/b/k.json", p.GetURL("k.json"))

	_, err = New(&config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
