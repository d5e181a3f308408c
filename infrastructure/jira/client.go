package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"triforge-backend/application/ports"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/entities"
)

// checkTimeout bounds the credential and project probes. Uploads use the
// configured Jira timeout instead, since issue creation is slower.
const checkTimeout = 10 * time.Second

// Client talks to the Atlassian Cloud REST API v3. Credentials travel with
// every call; nothing is stored, so one client serves all users.
type Client struct {
	scheme        string
	uploadTimeout time.Duration
	client        *http.Client
	logger        *zap.Logger
}

// NewClient creates a Jira gateway client
func NewClient(cfg *config.DomainConfig, logger *zap.Logger) *Client {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		scheme:        "https",
		uploadTimeout: cfg.JiraTimeout,
		client:        &http.Client{},
		logger:        logger,
	}
}

type myselfResponse struct {
	DisplayName string `json:"displayName"`
}

type projectResponse struct {
	Name string `json:"name"`
}

type issueCreatedResponse struct {
	Key string `json:"key"`
}

type apiErrorResponse struct {
	Errors        map[string]string `json:"errors"`
	ErrorMessages []string          `json:"errorMessages"`
}

// issuePayload is the create-issue request body. Descriptions use the
// Atlassian Document Format: a single paragraph of plain text.
type issuePayload struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Project     projectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description adfDocument  `json:"description"`
	IssueType   issueTypeRef `json:"issuetype"`
}

type projectRef struct {
	Key string `json:"key"`
}

type issueTypeRef struct {
	Name string `json:"name"`
}

type adfDocument struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Content []adfNode `json:"content,omitempty"`
	Text    string    `json:"text,omitempty"`
}

// ValidateCredentials checks the token against the /myself endpoint
func (c *Client) ValidateCredentials(ctx context.Context, creds ports.JiraCredentials) ports.JiraResult {
	reqCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp, err := c.get(reqCtx, creds, "/myself")
	if err != nil {
		return ports.JiraResult{Success: false, Message: "Connection error: " + err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var myself myselfResponse
		_ = json.NewDecoder(resp.Body).Decode(&myself)
		name := myself.DisplayName
		if name == "" {
			name = creds.Email
		}
		return ports.JiraResult{Success: true, Message: "Connected as " + name}
	case http.StatusUnauthorized:
		return ports.JiraResult{Success: false, Message: "Invalid credentials - check email and API token"}
	case http.StatusNotFound:
		return ports.JiraResult{Success: false, Message: "Invalid domain - check your Atlassian domain"}
	default:
		return ports.JiraResult{Success: false, Message: fmt.Sprintf("Connection failed: %d", resp.StatusCode)}
	}
}

// ValidateProject checks that the project exists and the caller can see it
func (c *Client) ValidateProject(ctx context.Context, creds ports.JiraCredentials, projectKey string) ports.JiraResult {
	reqCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	resp, err := c.get(reqCtx, creds, "/project/"+projectKey)
	if err != nil {
		return ports.JiraResult{Success: false, Message: "Project validation error: " + err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var project projectResponse
		_ = json.NewDecoder(resp.Body).Decode(&project)
		name := project.Name
		if name == "" {
			name = projectKey
		}
		return ports.JiraResult{Success: true, Message: "Project found: " + name}
	case http.StatusNotFound:
		return ports.JiraResult{Success: false, Message: fmt.Sprintf("Project '%s' not found or no access", projectKey)}
	case http.StatusForbidden:
		return ports.JiraResult{Success: false, Message: fmt.Sprintf("No permission to access project '%s'", projectKey)}
	default:
		return ports.JiraResult{Success: false, Message: fmt.Sprintf("Project validation failed: %d", resp.StatusCode)}
	}
}

// UploadStories creates one Story issue per parsed story. A failed story
// never aborts the batch; the result reports both sides.
func (c *Client) UploadStories(ctx context.Context, creds ports.JiraCredentials, projectKey string, stories []entities.UserStory) ports.JiraUpload {
	created := make([]ports.JiraCreatedIssue, 0, len(stories))
	failed := make([]ports.JiraFailedIssue, 0)

	if len(stories) == 0 {
		return ports.JiraUpload{
			Success: false,
			Message: "No stories to upload",
			Created: created,
			Failed:  failed,
		}
	}

	for _, story := range stories {
		key, err := c.createIssue(ctx, creds, projectKey, story)
		if err != nil {
			failed = append(failed, ports.JiraFailedIssue{Title: story.Title, Error: err.Error()})
			c.logger.Error("Failed to create Jira issue",
				zap.String("title", story.Title),
				zap.String("error", err.Error()),
			)
			continue
		}

		created = append(created, ports.JiraCreatedIssue{
			Key:   key,
			Title: story.Title,
			URL:   fmt.Sprintf("https://%s/browse/%s", creds.Domain, key),
		})
		c.logger.Info("Created Jira issue", zap.String("key", key))
	}

	total := len(stories)
	var message string
	switch {
	case len(created) == total:
		message = fmt.Sprintf("Successfully uploaded all %d stories to Jira", total)
	case len(created) > 0:
		message = fmt.Sprintf("Uploaded %d/%d stories to Jira", len(created), total)
	default:
		message = "Failed to upload any stories to Jira"
	}

	return ports.JiraUpload{
		Success: len(created) > 0,
		Message: message,
		Created: created,
		Failed:  failed,
	}
}

func (c *Client) createIssue(ctx context.Context, creds ports.JiraCredentials, projectKey string, story entities.UserStory) (string, error) {
	body, err := json.Marshal(buildIssuePayload(projectKey, story))
	if err != nil {
		return "", err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL(creds.Domain)+"/issue", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(creds.Email, creds.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s", extractAPIError(resp))
	}

	var issue issueCreatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&issue); err != nil {
		return "", fmt.Errorf("invalid create response: %v", err)
	}
	if issue.Key == "" {
		return "", fmt.Errorf("create response missing issue key")
	}
	return issue.Key, nil
}

func (c *Client) get(ctx context.Context, creds ports.JiraCredentials, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL(creds.Domain)+path, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(creds.Email, creds.APIToken)
	return c.client.Do(req)
}

func (c *Client) baseURL(domain string) string {
	return fmt.Sprintf("%s://%s/rest/api/3", c.scheme, domain)
}

// buildIssuePayload renders a story into the create-issue body. Acceptance
// criteria, story points and priority are folded into the description text
// since they are not standard fields on every Jira project.
func buildIssuePayload(projectKey string, story entities.UserStory) issuePayload {
	var parts []string
	if story.Description != "" {
		parts = append(parts, story.Description)
	}
	if len(story.AcceptanceCriteria) > 0 {
		parts = append(parts, "\n*Acceptance Criteria:*")
		for i, criterion := range story.AcceptanceCriteria {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, criterion))
		}
	}
	if story.StoryPoints > 0 {
		parts = append(parts, fmt.Sprintf("\n*Story Points:* %d", story.StoryPoints))
	}
	if story.Priority != "" {
		parts = append(parts, fmt.Sprintf("\n*Priority:* %s", story.Priority))
	}

	return issuePayload{
		Fields: issueFields{
			Project: projectRef{Key: projectKey},
			Summary: story.Title,
			Description: adfDocument{
				Type:    "doc",
				Version: 1,
				Content: []adfNode{
					{
						Type:    "paragraph",
						Content: []adfNode{{Type: "text", Text: strings.Join(parts, "\n")}},
					},
				},
			},
			IssueType: issueTypeRef{Name: "Story"},
		},
	}
}

// extractAPIError pulls a readable message out of a Jira error response.
// Field errors are sorted so the message is stable.
func extractAPIError(resp *http.Response) string {
	body, _ := io.ReadAll(resp.Body)

	var payload apiErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Errors) > 0 {
			fields := make([]string, 0, len(payload.Errors))
			for field := range payload.Errors {
				fields = append(fields, field)
			}
			sort.Strings(fields)

			messages := make([]string, 0, len(fields))
			for _, field := range fields {
				messages = append(messages, field+": "+payload.Errors[field])
			}
			return strings.Join(messages, "; ")
		}
		if len(payload.ErrorMessages) > 0 {
			return strings.Join(payload.ErrorMessages, "; ")
		}
	}

	text := string(body)
	if len(text) > 200 {
		text = text[:200]
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, text)
}
