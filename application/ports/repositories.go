package ports

import (
	"context"

	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
)

// SessionStore defines the interface for per-user conversation sessions.
// This is a port in hexagonal architecture - the application doesn't know
// whether sessions live in process memory or somewhere else.
//
// All access to a session goes through Update or View so that the
// placeholder-then-final write pattern of the generation flow is atomic
// with respect to concurrent requests for the same user.
type SessionStore interface {
	// Update runs fn against the user's session under that session's lock,
	// creating an empty session first when the user has none
	Update(ctx context.Context, userID valueobjects.UserID, fn func(*aggregates.Session) error) error

	// View runs fn against the user's session under that session's lock
	// without creating one. It reports whether a session existed.
	View(ctx context.Context, userID valueobjects.UserID, fn func(*aggregates.Session) error) (bool, error)

	// Clear removes the user's session entirely. It returns the number of
	// turns dropped and whether a session existed.
	Clear(ctx context.Context, userID valueobjects.UserID) (int, bool)

	// ActiveSessions returns the number of users with a live session
	ActiveSessions(ctx context.Context) int
}

// ProjectRegistry defines the interface for generated project storage.
// Entries are evicted least-recently-used once the configured capacity
// is reached, and may be removed explicitly via Delete.
type ProjectRegistry interface {
	// Put registers a generated project, possibly evicting the
	// least-recently-used entry
	Put(ctx context.Context, project *entities.GeneratedProject) error

	// Get retrieves a project by its ID
	Get(ctx context.Context, id valueobjects.ProjectID) (*entities.GeneratedProject, bool)

	// ListByUser retrieves all registered projects owned by a user,
	// newest first
	ListByUser(ctx context.Context, userID valueobjects.UserID) []*entities.GeneratedProject

	// Delete removes a project and reports whether it existed
	Delete(ctx context.Context, id valueobjects.ProjectID) bool

	// Len returns the number of registered projects
	Len(ctx context.Context) int
}

// CompletionOptions carries the per-chain generation parameters. Chain
// names the definition being invoked so instrumentation can label the call.
type CompletionOptions struct {
	Chain           string
	Temperature     float64
	MaxOutputTokens int
}

// CompletionClient defines the interface for a hosted model provider.
// Implementations translate a rendered prompt into a single text
// completion; streaming is not part of this surface.
type CompletionClient interface {
	// Complete sends the prompt and returns the raw model text
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

	// Provider returns the provider name for logging and metrics
	Provider() string
}

// JiraResult describes the outcome of a connectivity or project check
type JiraResult struct {
	Success bool
	Message string
}

// JiraUpload describes the outcome of a story upload
type JiraUpload struct {
	Success bool
	Message string
	Created []JiraCreatedIssue
	Failed  []JiraFailedIssue
}

// JiraCreatedIssue identifies one issue created on the Jira side
type JiraCreatedIssue struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// JiraFailedIssue records one story that could not be created
type JiraFailedIssue struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// JiraCredentials carries the caller-supplied Atlassian connection details
type JiraCredentials struct {
	Domain   string
	Email    string
	APIToken string
}

// JiraGateway defines the interface to an Atlassian Jira site
type JiraGateway interface {
	// ValidateCredentials checks that the credentials can authenticate
	ValidateCredentials(ctx context.Context, creds JiraCredentials) JiraResult

	// ValidateProject checks that the project key exists and is accessible
	ValidateProject(ctx context.Context, creds JiraCredentials, projectKey string) JiraResult

	// UploadStories creates one issue per story in the given project
	UploadStories(ctx context.Context, creds JiraCredentials, projectKey string, stories []entities.UserStory) JiraUpload
}

// Archiver defines the interface for packaging a generated project
// into a downloadable archive
type Archiver interface {
	// Package returns the project as ZIP bytes
	Package(ctx context.Context, project *entities.GeneratedProject) ([]byte, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
