package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/ports"
	"triforge-backend/domain/core/entities"
)

func testClient(t *testing.T, handler http.Handler) (*Client, ports.JiraCredentials) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(nil, nil)
	client.scheme = "http"

	return client, ports.JiraCredentials{
		Domain:   strings.TrimPrefix(server.URL, "http://"),
		Email:    "alice@example.com",
		APIToken: "secret-token",
	}
}

func TestValidateCredentialsConnected(t *testing.T) {
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "alice@example.com", user)
		assert.Equal(t, "secret-token", pass)

		json.NewEncoder(w).Encode(map[string]string{"displayName": "Alice Liddell"})
	}))

	result := client.ValidateCredentials(context.Background(), creds)
	assert.True(t, result.Success)
	assert.Equal(t, "Connected as Alice Liddell", result.Message)
}

func TestValidateCredentialsFallsBackToEmail(t *testing.T) {
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	result := client.ValidateCredentials(context.Background(), creds)
	assert.True(t, result.Success)
	assert.Equal(t, "Connected as alice@example.com", result.Message)
}

func TestValidateCredentialsStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, "Invalid credentials - check email and API token"},
		{"bad domain", http.StatusNotFound, "Invalid domain - check your Atlassian domain"},
		{"server error", http.StatusInternalServerError, "Connection failed: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			result := client.ValidateCredentials(context.Background(), creds)
			assert.False(t, result.Success)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestValidateCredentialsConnectionError(t *testing.T) {
	client := NewClient(nil, nil)
	client.scheme = "http"
	creds := ports.JiraCredentials{Domain: "127.0.0.1:1", Email: "alice@example.com", APIToken: "token"}

	result := client.ValidateCredentials(context.Background(), creds)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "Connection error: ")
}

func TestValidateProjectFound(t *testing.T) {
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/project/PLAT", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"name": "Platform"})
	}))

	result := client.ValidateProject(context.Background(), creds, "PLAT")
	assert.True(t, result.Success)
	assert.Equal(t, "Project found: Platform", result.Message)
}

func TestValidateProjectStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"not found", http.StatusNotFound, "Project 'PLAT' not found or no access"},
		{"forbidden", http.StatusForbidden, "No permission to access project 'PLAT'"},
		{"gateway error", http.StatusBadGateway, "Project validation failed: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			result := client.ValidateProject(context.Background(), creds, "PLAT")
			assert.False(t, result.Success)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestUploadStoriesAllCreated(t *testing.T) {
	var payloads []issuePayload
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload issuePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		payloads = append(payloads, payload)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"key": fmt.Sprintf("PLAT-%d", len(payloads))})
	}))

	stories := []entities.UserStory{
		{
			Title:              "As a user, I want to log in",
			Description:        "Email and password login.",
			AcceptanceCriteria: []string{"Valid credentials succeed", "Invalid credentials fail"},
			StoryPoints:        3,
			Priority:           "High",
		},
		{Title: "As an admin, I want to audit logins"},
	}

	result := client.UploadStories(context.Background(), creds, "PLAT", stories)

	assert.True(t, result.Success)
	assert.Equal(t, "Successfully uploaded all 2 stories to Jira", result.Message)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "PLAT-1", result.Created[0].Key)
	assert.Equal(t, "As a user, I want to log in", result.Created[0].Title)
	assert.Equal(t, "https://"+creds.Domain+"/browse/PLAT-1", result.Created[0].URL)
	assert.Empty(t, result.Failed)

	require.Len(t, payloads, 2)
	fields := payloads[0].Fields
	assert.Equal(t, "PLAT", fields.Project.Key)
	assert.Equal(t, "As a user, I want to log in", fields.Summary)
	assert.Equal(t, "Story", fields.IssueType.Name)
	assert.Equal(t, "doc", fields.Description.Type)
	assert.Equal(t, 1, fields.Description.Version)

	text := fields.Description.Content[0].Content[0].Text
	assert.Equal(t, "Email and password login.\n\n*Acceptance Criteria:*\n1. Valid credentials succeed\n2. Invalid credentials fail\n\n*Story Points:* 3\n\n*Priority:* High", text)
}

func TestUploadStoriesPartialFailure(t *testing.T) {
	var calls int
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"key": "PLAT-1"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": map[string]string{"summary": "Summary is required"},
		})
	}))

	stories := []entities.UserStory{
		{Title: "As a user, I want to log in"},
		{Title: "As an admin, I want to audit logins"},
	}

	result := client.UploadStories(context.Background(), creds, "PLAT", stories)

	assert.True(t, result.Success)
	assert.Equal(t, "Uploaded 1/2 stories to Jira", result.Message)
	require.Len(t, result.Created, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "As an admin, I want to audit logins", result.Failed[0].Title)
	assert.Equal(t, "summary: Summary is required", result.Failed[0].Error)
}

func TestUploadStoriesAllFailed(t *testing.T) {
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errorMessages": []string{"Field 'issuetype' is required", "Project is archived"},
		})
	}))

	result := client.UploadStories(context.Background(), creds, "PLAT", []entities.UserStory{
		{Title: "As a user, I want to log in"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Failed to upload any stories to Jira", result.Message)
	assert.Empty(t, result.Created)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Field 'issuetype' is required; Project is archived", result.Failed[0].Error)
}

func TestUploadStoriesRawBodyFallback(t *testing.T) {
	client, creds := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "upstream maintenance window")
	}))

	result := client.UploadStories(context.Background(), creds, "PLAT", []entities.UserStory{
		{Title: "As a user, I want to log in"},
	})

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "HTTP 503: upstream maintenance window", result.Failed[0].Error)
}

func TestUploadStoriesEmptyList(t *testing.T) {
	client := NewClient(nil, nil)

	result := client.UploadStories(context.Background(), ports.JiraCredentials{Domain: "acme.atlassian.net"}, "PLAT", nil)

	assert.False(t, result.Success)
	assert.Equal(t, "No stories to upload", result.Message)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Failed)
}
