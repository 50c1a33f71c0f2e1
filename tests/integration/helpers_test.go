//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/auth/jwt"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

// mintToken signs a token with the secret the server under test was started with.
func mintToken(t *testing.T, userID int64, role auth.Role) string {
	t.Helper()

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(envOrDefault("INTEGRATION_JWT_SECRET", "dev-secret")),
		Issuer: envOrDefault("INTEGRATION_JWT_ISSUER", "lms-platform"),
	})
	token, err := tokens.GenerateAccessToken(userID, string(role))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// uniqueUser keeps attempt counters independent across runs.
func uniqueUser() int64 {
	return time.Now().UnixNano() % 1_000_000_000
}

func makeAuthenticatedRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func expectJSON(t *testing.T, resp *http.Response, status int, out interface{}) {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", status, resp.StatusCode, body)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type idResponse struct {
	ID int64 `json:"id"`
}

// createQuizResource builds a course, lesson and quiz resource; it returns the resource id.
func createQuizResource(t *testing.T, teacherToken string) int64 {
	t.Helper()
	base := baseURL()

	var c idResponse
	resp := makeAuthenticatedRequest(t, http.MethodPost, base+"/v1/courses", teacherToken, map[string]interface{}{
		"title":    fmt.Sprintf("Integration course %d", time.Now().UnixNano()),
		"category": "testing",
		"price":    "9.99",
	})
	expectJSON(t, resp, http.StatusCreated, &c)

	var l idResponse
	resp = makeAuthenticatedRequest(t, http.MethodPost, fmt.Sprintf("%s/v1/courses/%d/lessons", base, c.ID), teacherToken, map[string]interface{}{
		"title": "Lesson one",
	})
	expectJSON(t, resp, http.StatusCreated, &l)

	var r idResponse
	resp = makeAuthenticatedRequest(t, http.MethodPost, fmt.Sprintf("%s/v1/lessons/%d/resources", base, l.ID), teacherToken, map[string]interface{}{
		"kind":  "quiz",
		"title": "Checkpoint",
	})
	expectJSON(t, resp, http.StatusCreated, &r)
	return r.ID
}
