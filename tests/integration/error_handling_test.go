//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gokatarajesh/lms-platform/internal/auth"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func TestUnauthorizedAccess(t *testing.T) {
	resp := makeAuthenticatedRequest(t, http.MethodGet, baseURL()+"/v1/courses", "", nil)

	var errResp errorBody
	expectJSON(t, resp, http.StatusUnauthorized, &errResp)
	if errResp.Error != "authentication_required" {
		t.Fatalf("unexpected error code %q", errResp.Error)
	}
}

func TestInvalidToken(t *testing.T) {
	resp := makeAuthenticatedRequest(t, http.MethodGet, baseURL()+"/v1/courses", "not-a-jwt", nil)

	var errResp errorBody
	expectJSON(t, resp, http.StatusUnauthorized, &errResp)
	if errResp.Error != "invalid_token" {
		t.Fatalf("unexpected error code %q", errResp.Error)
	}
}

func TestForbiddenAccess(t *testing.T) {
	student := mintToken(t, uniqueUser(), auth.RoleStudent)

	resp := makeAuthenticatedRequest(t, http.MethodPost, baseURL()+"/v1/courses", student, map[string]string{"title": "Nope"})
	var errResp errorBody
	expectJSON(t, resp, http.StatusForbidden, &errResp)
	if errResp.Error != "forbidden" {
		t.Fatalf("unexpected error code %q", errResp.Error)
	}
}

func TestValidationErrors(t *testing.T) {
	teacher := mintToken(t, uniqueUser(), auth.RoleTeacher)
	base := baseURL()

	testCases := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing title", http.MethodPost, "/v1/courses", map[string]string{"title": ""}, http.StatusBadRequest, "validation_failed"},
		{"negative price", http.MethodPost, "/v1/courses", map[string]interface{}{"title": "x", "price": "-1"}, http.StatusBadRequest, "validation_failed"},
		{"bad sort", http.MethodGet, "/v1/courses?sort=random", nil, http.StatusBadRequest, "invalid_sort"},
		{"bad id", http.MethodGet, "/v1/courses/abc", nil, http.StatusBadRequest, "invalid_id"},
		{"unknown course", http.MethodGet, "/v1/courses/999999999", nil, http.StatusNotFound, "course_not_found"},
		{"malformed quiz", http.MethodPost, "/v1/quizzes/validate", `{"questions": 5}`, http.StatusBadRequest, "invalid_quiz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := makeAuthenticatedRequest(t, tc.method, fmt.Sprintf("%s%s", base, tc.path), teacher, tc.body)
			var errResp errorBody
			expectJSON(t, resp, tc.status, &errResp)
			if errResp.Error != tc.code {
				t.Fatalf("expected %q, got %q (%s)", tc.code, errResp.Error, errResp.Message)
			}
		})
	}
}
