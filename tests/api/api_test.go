//go:build api

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseURL = envOr("API_BASE_URL", "http://localhost:8080")

// TestAPI_BuddySessionFlow exercises the buddy meetup surface end-to-end
// against a running server: signup, session create, join until full, chat,
// dashboard, leave.
func TestAPI_BuddySessionFlow(t *testing.T) {
	waitForService(t)

	suffix := time.Now().UnixNano()
	hostToken := signup(t, fmt.Sprintf("host-%d", suffix))
	guestToken := signup(t, fmt.Sprintf("guest-%d", suffix))
	lateToken := signup(t, fmt.Sprintf("late-%d", suffix))

	var sessionID float64

	t.Run("Step1_CreateSession", func(t *testing.T) {
		resp := post(t, "/api/v1/buddy-sessions", hostToken, map[string]any{
			"title":         "Dawn swim at the cove",
			"type":          "swim",
			"start":         time.Now().Add(48 * time.Hour).Format(time.RFC3339),
			"location_name": "Kilkee Cove",
			"capacity":      2,
		})
		require.Equal(t, 201, resp.StatusCode, "should create session")

		var session map[string]any
		decodeJSON(t, resp, &session)
		sessionID = session["id"].(float64)

		assert.Equal(t, "Dawn swim at the cove", session["title"])
		assert.Equal(t, float64(1), session["count"], "creator auto-joins")
		assert.Equal(t, float64(1), session["spots_left"])
	})

	t.Run("Step2_GuestJoins", func(t *testing.T) {
		resp := post(t, fmt.Sprintf("/api/v1/buddy-sessions/%.0f/toggle-join", sessionID), guestToken, nil)
		require.Equal(t, 200, resp.StatusCode)

		var session map[string]any
		decodeJSON(t, resp, &session)
		assert.Equal(t, float64(2), session["count"])
		assert.Equal(t, float64(0), session["spots_left"])
		assert.Equal(t, true, session["joined"])
	})

	t.Run("Step3_FullSessionRejectsJoin", func(t *testing.T) {
		resp := post(t, fmt.Sprintf("/api/v1/buddy-sessions/%.0f/toggle-join", sessionID), lateToken, nil)
		assert.Equal(t, 409, resp.StatusCode, "full session should reject a join")

		var errResp map[string]string
		decodeJSON(t, resp, &errResp)
		assert.Contains(t, errResp["message"], "full")
	})

	t.Run("Step4_PostMessage", func(t *testing.T) {
		resp := post(t, fmt.Sprintf("/api/v1/buddy-sessions/%.0f/messages", sessionID), guestToken, map[string]any{
			"body": "see you at the slipway",
		})
		require.Equal(t, 201, resp.StatusCode)

		var msg map[string]any
		decodeJSON(t, resp, &msg)
		assert.Equal(t, "see you at the slipway", msg["body"])
	})

	t.Run("Step5_Dashboard", func(t *testing.T) {
		resp := get(t, "/api/v1/me/dashboard", hostToken)
		require.Equal(t, 200, resp.StatusCode)

		var dash map[string]any
		decodeJSON(t, resp, &dash)
		hosting := dash["hosting"].([]any)
		require.NotEmpty(t, hosting, "host should see the session on their dashboard")
	})

	t.Run("Step6_GuestLeavesFreeingSpot", func(t *testing.T) {
		resp := post(t, fmt.Sprintf("/api/v1/buddy-sessions/%.0f/toggle-join", sessionID), guestToken, nil)
		require.Equal(t, 200, resp.StatusCode)

		var session map[string]any
		decodeJSON(t, resp, &session)
		assert.Equal(t, float64(1), session["spots_left"])

		// the previously rejected user can now join
		resp = post(t, fmt.Sprintf("/api/v1/buddy-sessions/%.0f/toggle-join", sessionID), lateToken, nil)
		assert.Equal(t, 200, resp.StatusCode)
	})
}

func TestAPI_SafetyValidation(t *testing.T) {
	waitForService(t)

	resp := get(t, "/api/v1/safety?lat=bogus&lon=-9.65", "")
	assert.Equal(t, 400, resp.StatusCode)
	resp.Body.Close()
}

// Helper functions

func waitForService(t *testing.T) {
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			return
		}
		time.Sleep(1 * time.Second)
	}
	t.Fatal("service did not become ready in time")
}

func signup(t *testing.T, username string) string {
	t.Helper()
	resp := post(t, "/api/v1/auth/signup", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "sandy-beach-42",
	})
	require.Equal(t, 201, resp.StatusCode, "signup should succeed")

	var auth map[string]any
	decodeJSON(t, resp, &auth)
	token, _ := auth["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func get(t *testing.T, path, token string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func post(t *testing.T, path, token string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, target any) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(target)
	if err != nil && resp.StatusCode >= 400 {
		// error responses may not carry a JSON body
		return
	}
	require.NoError(t, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
