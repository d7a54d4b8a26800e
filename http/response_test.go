package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bananamirror/relay"
	relayhttp "github.com/bananamirror/relay/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid input", relay.ErrInvalidInput, http.StatusBadRequest, "bad_request"},
		{"wrapped invalid input", fmt.Errorf("classify: %w", relay.ErrInvalidInput), http.StatusBadRequest, "bad_request"},
		{"unauthorized", relay.ErrUnauthorized, http.StatusForbidden, "forbidden"},
		{"missing signature", relay.AuthResult{State: relay.StateRejectedMissingSignature, Status: http.StatusUnauthorized}.Err(), http.StatusUnauthorized, "unauthorized"},
		{"bad signature", relay.AuthResult{State: relay.StateRejectedSignature, Status: http.StatusForbidden}.Err(), http.StatusForbidden, "forbidden"},
		{"unusable keys", relay.AuthResult{State: relay.StateRejectedConfig, Status: http.StatusInternalServerError}.Err(), http.StatusInternalServerError, "internal_server_error"},
		{"configuration", relay.ErrConfiguration, http.StatusInternalServerError, "internal_server_error"},
		{"upstream", fmt.Errorf("put: %w", relay.ErrUpstream), http.StatusInternalServerError, "internal_server_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			relayhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp relayhttp.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestHandleError_DoesNotLeakDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	relayhttp.HandleError(rec, fmt.Errorf("bucket banana-secret: %w", relay.ErrUpstream))

	assert.NotContains(t, rec.Body.String(), "banana-secret")
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	relayhttp.WriteError(rec, http.StatusTeapot, "teapot", "Short and stout")

	assert.Equal(t, http.StatusTeapot, rec.Code)

	var resp relayhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "teapot", resp.Error)
	assert.Equal(t, "Short and stout", resp.Message)
}

func TestWriteStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	relayhttp.WriteStatus(rec, http.StatusMethodNotAllowed)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var resp relayhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "method_not_allowed", resp.Error)
	assert.Equal(t, "Method Not Allowed", resp.Message)
}

func TestWriteText(t *testing.T) {
	rec := httptest.NewRecorder()

	relayhttp.WriteText(rec, http.StatusOK, "Deleted 2 files from https://a.example")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Deleted 2 files from https://a.example", rec.Body.String())
}
