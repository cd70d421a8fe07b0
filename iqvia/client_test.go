package iqvia

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard(string) {}

const sampleJWT = "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.c2ln"

func TestGetTokenJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		// The endpoint wants the identifier lowercased.
		assert.Equal(t, "abc123", body["client_id"])
		assert.Equal(t, "s3cret", body["client_secret"])

		json.NewEncoder(w).Encode(map[string]string{"access_token": sampleJWT})
	}))
	defer srv.Close()

	tok := GetToken(srv.URL, "ABC123", "s3cret", discard)
	assert.Equal(t, sampleJWT, tok)
}

func TestGetTokenFallsBackToForm(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Content-Type") == "application/json" {
			http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "abc123", r.PostForm.Get("client_id"))
		json.NewEncoder(w).Encode(map[string]string{"token": sampleJWT})
	}))
	defer srv.Close()

	tok := GetToken(srv.URL, "abc123", "s3cret", discard)
	assert.Equal(t, sampleJWT, tok)
	assert.Equal(t, 2, calls)
}

func TestGetTokenAcceptsRawJWTBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, sampleJWT)
	}))
	defer srv.Close()

	tok := GetToken(srv.URL, "abc123", "s3cret", discard)
	assert.Equal(t, sampleJWT, tok)
}

func TestGetTokenFailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	assert.Equal(t, "", GetToken(srv.URL, "abc123", "bad", discard))
}

func TestUploadZip(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "U_ABC_20260101_20260131.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("PK\x03\x04fake"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "U_ABC_20260101_20260131.zip", header.Filename)
		assert.Equal(t, "application/zip", header.Header.Get("Content-Type"))

		json.NewEncoder(w).Encode(map[string]string{"guid": "g-1", "status": "received"})
	}))
	defer srv.Close()

	resp, err := UploadZip(srv.URL, zipPath, "tok", discard)
	require.NoError(t, err)
	assert.Equal(t, "g-1", resp["guid"])
}

func TestUploadZipNonJSONResponse(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "a.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("zip"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK")
	}))
	defer srv.Close()

	resp, err := UploadZip(srv.URL, zipPath, "tok", discard)
	require.NoError(t, err)
	assert.Equal(t, "OK", resp["raw"])
}

func TestUploadZipRejected(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "a.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("zip"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	_, err := UploadZip(srv.URL, zipPath, "tok", discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "413")
}

func TestCheckUploadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status/g-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "processed"})
	}))
	defer srv.Close()

	status := CheckUploadStatus(srv.URL+"/", "g-1", "tok")
	assert.Equal(t, "processed", status["status"])
}

func TestCheckUploadStatusNeverErrors(t *testing.T) {
	// Unreachable endpoint folds into the status map.
	status := CheckUploadStatus("http://127.0.0.1:1", "g-1", "tok")
	assert.Equal(t, "error", status["status"])
	assert.NotEmpty(t, status["message"])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "still working on it")
	}))
	defer srv.Close()

	status = CheckUploadStatus(srv.URL, "g-1", "tok")
	assert.Equal(t, "success", status["status"])
	assert.Equal(t, "still working on it", status["raw"])
}

func TestLooksLikeJWT(t *testing.T) {
	assert.True(t, looksLikeJWT(sampleJWT))
	assert.False(t, looksLikeJWT("just a sentence"))
	assert.False(t, looksLikeJWT("a.b"))
	assert.False(t, looksLikeJWT("a..c"))
}
