package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
	"github.com/bananamirror/relay/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuckets() config.BucketsConfig {
	return config.BucketsConfig{
		Mods:              config.BucketConfig{Name: "mods-bucket", Subdomain: "banana-mirror-mods"},
		Screenshots:       config.BucketConfig{Name: "images-bucket", Subdomain: "banana-mirror-images"},
		RichPresenceIcons: config.BucketConfig{Name: "icons-bucket", Subdomain: "banana-mirror-rich-presence-icons"},
	}
}

func TestOpen_Filesystem(t *testing.T) {
	dir := t.TempDir()

	set, err := storage.Open(context.Background(), config.StorageConfig{
		Type:    config.StorageFilesystem,
		Path:    dir,
		Buckets: testBuckets(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, set.Close()) })

	require.Len(t, set.Bindings, 3)
	assert.Equal(t, "banana-mirror-images", set.Bindings[relay.CategoryScreenshots].Subdomain)

	err = set.Bindings[relay.CategoryScreenshots].Bucket.Put(context.Background(), "x.png", []byte("png"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "images-bucket", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	for _, name := range []string{"mods-bucket", "icons-bucket"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestOpen_R2(t *testing.T) {
	set, err := storage.Open(context.Background(), config.StorageConfig{
		Type: config.StorageR2,
		R2: config.R2Config{
			AccountID:       "abc123",
			AccessKeyID:     "AKID",
			SecretAccessKey: "SECRET",
		},
		Buckets: testBuckets(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, set.Close()) })

	require.Len(t, set.Bindings, 3)
	assert.Equal(t, "banana-mirror-mods", set.Bindings[relay.CategoryMods].Subdomain)
	assert.NotNil(t, set.Bindings[relay.CategoryRichPresenceIcons].Bucket)
}

func TestOpen_R2MissingCredentials(t *testing.T) {
	_, err := storage.Open(context.Background(), config.StorageConfig{
		Type:    config.StorageR2,
		R2:      config.R2Config{AccountID: "abc123"},
		Buckets: testBuckets(),
	})
	assert.ErrorIs(t, err, relay.ErrConfiguration)
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := storage.Open(context.Background(), config.StorageConfig{Type: "tape"})
	assert.ErrorIs(t, err, relay.ErrConfiguration)
}
