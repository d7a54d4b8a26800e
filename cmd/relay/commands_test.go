package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananamirror/relay"
)

func TestUploadRequest(t *testing.T) {
	req, err := uploadRequest(relay.CategoryMods, "a.zip", []byte{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, "AAEC", req.File)
	assert.Equal(t, "a.zip", req.FileName)

	_, err = uploadRequest(relay.CategoryMods, strings.Repeat("a", relay.MaxFileNameLength+1), []byte{0})
	assert.ErrorIs(t, err, relay.ErrInvalidInput)

	_, err = uploadRequest(relay.CategoryMods, "empty.zip", nil)
	assert.ErrorIs(t, err, relay.ErrInvalidInput)
}

func TestDeletionBatches(t *testing.T) {
	names := make([]string, relay.MaxDeleteBatch+1)
	for i := range names {
		names[i] = fmt.Sprintf("f%d.zip", i)
	}

	batches, err := deletionBatches(relay.CategoryScreenshots, names)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].FileNames, relay.MaxDeleteBatch)
	assert.Equal(t, []string{"f50.zip"}, batches[1].FileNames)

	names[len(names)-1] = strings.Repeat("b", relay.MaxFileNameLength+1)
	batches, err = deletionBatches(relay.CategoryScreenshots, names)
	assert.ErrorIs(t, err, relay.ErrInvalidInput)
	assert.Nil(t, batches)
}

func TestWriteTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), writeTimeout(0))
	assert.Equal(t, 3*time.Minute, writeTimeout(2*time.Minute))
}
