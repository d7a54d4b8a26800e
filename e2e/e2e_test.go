package e2e_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananamirror/relay"
)

const permittedIP = "203.0.113.7"

// TestE2E_Lifecycle uploads, mirrors and deletes through the real binary.
func TestE2E_Lifecycle(t *testing.T) {
	storageDir := t.TempDir()
	baseURL := startServer(t, ServerConfig{
		StoragePath:  storageDir,
		PermittedIPs: []string{permittedIP},
	})

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mirrored bytes"))
	}))
	defer origin.Close()

	httpClient := &http.Client{}
	modsDir := filepath.Join(storageDir, "banana-mirror-mods")
	shotsDir := filepath.Join(storageDir, "banana-mirror-images")

	t.Run("upload stores decoded bytes", func(t *testing.T) {
		req := signedRequest(t, http.MethodPut, baseURL+"/", permittedIP, map[string]any{
			"fileCategory": "mods",
			"fileName":     "author_mod.zip",
			"file":         relay.EncodeBase64([]byte("mod bytes")),
		})

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Saved author_mod.zip to https://banana-mirror-mods.mirror.example/author/mod.zip", string(body))

		data, err := os.ReadFile(filepath.Join(modsDir, "author_mod.zip"))
		require.NoError(t, err)
		assert.Equal(t, "mod bytes", string(data))
	})

	t.Run("mirror fetches the url", func(t *testing.T) {
		req := signedRequest(t, http.MethodPut, baseURL+"/", permittedIP, map[string]any{
			"fileCategory": "screenshots",
			"fileName":     "shot.png",
			"downloadUrl":  origin.URL + "/shot.png",
			"timestamp":    1700000000000,
		})

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data, err := os.ReadFile(filepath.Join(shotsDir, "shot.png"))
		require.NoError(t, err)
		assert.Equal(t, "mirrored bytes", string(data))
	})

	t.Run("delete removes files", func(t *testing.T) {
		req := signedRequest(t, http.MethodDelete, baseURL+"/", permittedIP, map[string]any{
			"fileCategory": "mods",
			"fileNames":    []string{"author_mod.zip"},
		})

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Deleted 1 files from https://banana-mirror-mods.mirror.example", string(body))

		_, err = os.Stat(filepath.Join(modsDir, "author_mod.zip"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("method mismatch returns 400", func(t *testing.T) {
		req := signedRequest(t, http.MethodDelete, baseURL+"/", permittedIP, map[string]any{
			"fileCategory": "mods",
			"fileName":     "a.zip",
			"file":         "AAEC",
		})

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("GET returns 405", func(t *testing.T) {
		resp, err := httpClient.Get(baseURL + "/anything")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

// TestE2E_Auth checks the rejection order of the authenticator.
func TestE2E_Auth(t *testing.T) {
	storageDir := t.TempDir()
	baseURL := startServer(t, ServerConfig{
		StoragePath:  storageDir,
		PermittedIPs: []string{permittedIP},
	})

	httpClient := &http.Client{}
	body := map[string]any{
		"fileCategory": "screenshots",
		"fileName":     "a.png",
		"file":         "AAEC",
	}

	t.Run("unknown caller is forbidden", func(t *testing.T) {
		req := signedRequest(t, http.MethodPut, baseURL+"/", "198.51.100.1", body)

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing signature is unauthorized", func(t *testing.T) {
		req := signedRequest(t, http.MethodPut, baseURL+"/", permittedIP, body)
		req.Header.Del("Authorization")

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("tampered body is forbidden", func(t *testing.T) {
		req := signedRequest(t, http.MethodPut, baseURL+"/", permittedIP, body)
		tampered := []byte(`{"fileCategory":"screenshots","fileName":"b.png","file":"AAEC"}`)
		req.Body = io.NopCloser(bytes.NewReader(tampered))
		req.ContentLength = int64(len(tampered))

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		_, err = os.Stat(filepath.Join(storageDir, "banana-mirror-images", "b.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

// TestE2E_ClientCLI drives a development server with the relay-cli binary.
func TestE2E_ClientCLI(t *testing.T) {
	storageDir := t.TempDir()
	baseURL := startServer(t, ServerConfig{
		Environment: "development",
		StoragePath: storageDir,
	})

	cli := buildBinary(t, "relay-cli")
	_, priv := testKeys(t)

	localFile := filepath.Join(t.TempDir(), "icon.png")
	require.NoError(t, os.WriteFile(localFile, []byte("icon"), 0o600))

	run := func(args ...string) (string, error) {
		cmd := exec.Command(cli, args...)
		cmd.Env = append(os.Environ(),
			"HOME="+t.TempDir(),
			"RELAY_ENDPOINT="+baseURL,
			"RELAY_PRIVATE_KEY="+priv,
		)
		out, err := cmd.CombinedOutput()
		return string(out), err
	}

	out, err := run("upload", "-C", "richPresenceIcons", "--name", "game_icon.png", localFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Saved game_icon.png")

	iconPath := filepath.Join(storageDir, "banana-mirror-rich-presence-icons", "game_icon.png")
	data, err := os.ReadFile(iconPath)
	require.NoError(t, err)
	assert.Equal(t, "icon", string(data))

	out, err = run("delete", "-C", "richPresenceIcons", "game_icon.png")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted 1 files")

	_, err = os.Stat(iconPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
