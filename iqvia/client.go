// Package iqvia talks to the reporting endpoint: token acquisition, archive
// upload and upload-status lookup. Every function degrades to a log line and
// a zero result on failure; callers decide whether that aborts anything.
package iqvia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger is the caller-supplied progress callback.
type Logger func(string)

const (
	tokenTimeout  = 60 * time.Second
	uploadTimeout = 180 * time.Second
	statusTimeout = 30 * time.Second
)

// looksLikeJWT reports whether s has the three dot-separated non-empty
// segments of a JWT. Some endpoint versions answer the token request with
// the bare token instead of a JSON wrapper.
func looksLikeJWT(s string) bool {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// tokenFromJSON digs the token out of the known response wrappings.
func tokenFromJSON(body []byte) string {
	var j map[string]any
	if err := json.Unmarshal(body, &j); err != nil {
		return ""
	}
	for _, key := range []string{"access_token", "token", "jwt", "bearerToken"} {
		if tok, ok := j[key].(string); ok && tok != "" {
			return tok
		}
	}
	return ""
}

func postForToken(tokenURL, contentType string, body io.Reader, logf Logger, label string) string {
	client := &http.Client{Timeout: tokenTimeout}
	resp, err := client.Post(tokenURL, contentType, body)
	if err != nil {
		logf(fmt.Sprintf("WARN: token attempt (%s) failed: %v", label, err))
		return ""
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logf(fmt.Sprintf("WARN: token attempt (%s) read failed: %v", label, err))
		return ""
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logf(fmt.Sprintf("WARN: token attempt (%s) rejected: %d %s", label, resp.StatusCode, clipBody(data)))
		return ""
	}
	if tok := tokenFromJSON(data); tok != "" {
		logf(fmt.Sprintf("Token obtained (%s).", label))
		return tok
	}
	if raw := strings.TrimSpace(string(data)); looksLikeJWT(raw) {
		logf(fmt.Sprintf("Token obtained (raw JWT, %s).", label))
		return raw
	}
	return ""
}

// GetToken authenticates with client credentials. The endpoint has shipped
// both a JSON-body and a form-body contract, so both are tried in that
// order. Returns "" when neither works; never returns an error.
func GetToken(tokenURL, clientID, clientSecret string, logf Logger) string {
	jsonBody, _ := json.Marshal(map[string]string{
		"client_id":     strings.ToLower(clientID),
		"client_secret": clientSecret,
	})
	if tok := postForToken(tokenURL, "application/json", bytes.NewReader(jsonBody), logf, "json"); tok != "" {
		return tok
	}

	form := url.Values{}
	form.Set("client_id", strings.ToLower(clientID))
	form.Set("client_secret", clientSecret)
	return postForToken(tokenURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), logf, "form")
}

// UploadZip sends the archive as a multipart upload with bearer auth. The
// response is the endpoint's JSON body, or {"raw": <text>} when the body is
// not JSON.
func UploadZip(uploadURL, zipPath, token string, logf Logger) (map[string]any, error) {
	f, err := os.Open(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filepath.Base(zipPath)))
	header.Set("Content-Type", "application/zip")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to buffer archive: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, uploadURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	client := &http.Client{Timeout: uploadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upload response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload rejected: %d %s", resp.StatusCode, clipBody(data))
	}

	var j map[string]any
	if err := json.Unmarshal(data, &j); err != nil {
		return map[string]any{"raw": string(data)}, nil
	}
	return j, nil
}

// CheckUploadStatus asks the endpoint for the state of a previous upload.
// It never fails: every problem is folded into the returned status map.
func CheckUploadStatus(baseURL, guid, token string) map[string]any {
	statusURL := strings.TrimRight(baseURL, "/") + "/status/" + guid

	req, err := http.NewRequest(http.MethodGet, statusURL, nil)
	if err != nil {
		return map[string]any{"status": "error", "message": err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: statusTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return map[string]any{"status": "error", "message": "status check failed: " + err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return map[string]any{"status": "error", "message": "status read failed: " + err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return map[string]any{
			"status":  "error",
			"message": fmt.Sprintf("HTTP %d: %s", resp.StatusCode, clipBody(data)),
		}
	}

	var j map[string]any
	if err := json.Unmarshal(data, &j); err != nil {
		return map[string]any{"status": "success", "raw": string(data)}
	}
	return j
}

// TestComm checks the endpoint is reachable and the credentials work.
func TestComm(tokenURL, clientID, clientSecret string, logf Logger) bool {
	return GetToken(tokenURL, clientID, clientSecret, logf) != ""
}

// clipBody keeps diagnostics short; endpoint error pages can be huge.
func clipBody(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
