package events

import (
	"time"

	"triforge-backend/domain/core/valueobjects"
)

// Event type names, namespaced by the aggregate that raises them
const (
	typeTurnRecorded      = "session.turn_recorded"
	typeSessionCleared    = "session.cleared"
	typeArtifactGenerated = "artifact.generated"
	typeGenerationFailed  = "artifact.generation_failed"
	typeProjectGenerated  = "project.generated"
	typeProjectDeleted    = "project.deleted"
	typeStoriesUploaded   = "jira.stories_uploaded"
)

// DomainEvent is implemented by everything the aggregates raise. Events
// record facts, so they are named in the past tense.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent carries the envelope fields shared by every event
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func newBaseEvent(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// TurnRecorded is raised when a conversation turn is committed to a session
type TurnRecorded struct {
	BaseEvent
	UserID    string `json:"user_id"`
	TurnCount int    `json:"turn_count"`
	Evicted   bool   `json:"evicted"`
}

// NewTurnRecorded creates a TurnRecorded event
func NewTurnRecorded(userID valueobjects.UserID, turnCount int, evicted bool, timestamp time.Time) TurnRecorded {
	return TurnRecorded{
		BaseEvent: newBaseEvent(userID.String(), typeTurnRecorded, timestamp),
		UserID:    userID.String(),
		TurnCount: turnCount,
		Evicted:   evicted,
	}
}

// SessionCleared is raised when a user's conversation history is dropped
type SessionCleared struct {
	BaseEvent
	UserID       string `json:"user_id"`
	TurnsDropped int    `json:"turns_dropped"`
}

// NewSessionCleared creates a SessionCleared event
func NewSessionCleared(userID valueobjects.UserID, turnsDropped int, timestamp time.Time) SessionCleared {
	return SessionCleared{
		BaseEvent:    newBaseEvent(userID.String(), typeSessionCleared, timestamp),
		UserID:       userID.String(),
		TurnsDropped: turnsDropped,
	}
}

// ArtifactGenerated is raised when a chain invocation produced a committed artifact
type ArtifactGenerated struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Artifact string `json:"artifact"`
	Chain    string `json:"chain"`
}

// NewArtifactGenerated creates an ArtifactGenerated event
func NewArtifactGenerated(userID valueobjects.UserID, artifact valueobjects.ArtifactKind, chain string, timestamp time.Time) ArtifactGenerated {
	return ArtifactGenerated{
		BaseEvent: newBaseEvent(userID.String(), typeArtifactGenerated, timestamp),
		UserID:    userID.String(),
		Artifact:  artifact.String(),
		Chain:     chain,
	}
}

// ArtifactGenerationFailed is raised when a chain invocation could not complete
type ArtifactGenerationFailed struct {
	BaseEvent
	UserID string `json:"user_id"`
	Chain  string `json:"chain"`
	Reason string `json:"reason"`
}

// NewArtifactGenerationFailed creates an ArtifactGenerationFailed event
func NewArtifactGenerationFailed(userID valueobjects.UserID, chain string, reason string, timestamp time.Time) ArtifactGenerationFailed {
	return ArtifactGenerationFailed{
		BaseEvent: newBaseEvent(userID.String(), typeGenerationFailed, timestamp),
		UserID:    userID.String(),
		Chain:     chain,
		Reason:    reason,
	}
}

// ProjectGenerated is raised when the project pipeline registers a new project
type ProjectGenerated struct {
	BaseEvent
	ProjectID    string   `json:"project_id"`
	UserID       string   `json:"user_id"`
	FileCount    int      `json:"file_count"`
	Technologies []string `json:"technologies"`
}

// NewProjectGenerated creates a ProjectGenerated event
func NewProjectGenerated(projectID valueobjects.ProjectID, userID valueobjects.UserID, fileCount int, technologies []string, timestamp time.Time) ProjectGenerated {
	return ProjectGenerated{
		BaseEvent:    newBaseEvent(projectID.String(), typeProjectGenerated, timestamp),
		ProjectID:    projectID.String(),
		UserID:       userID.String(),
		FileCount:    fileCount,
		Technologies: technologies,
	}
}

// ProjectDeleted is raised when a project is removed from the registry
type ProjectDeleted struct {
	BaseEvent
	ProjectID string `json:"project_id"`
}

// NewProjectDeleted creates a ProjectDeleted event
func NewProjectDeleted(projectID valueobjects.ProjectID, timestamp time.Time) ProjectDeleted {
	return ProjectDeleted{
		BaseEvent: newBaseEvent(projectID.String(), typeProjectDeleted, timestamp),
		ProjectID: projectID.String(),
	}
}

// StoriesUploaded is raised after a batch upload of stories to Jira Cloud
type StoriesUploaded struct {
	BaseEvent
	UserID     string `json:"user_id"`
	ProjectKey string `json:"project_key"`
	Created    int    `json:"created"`
	Failed     int    `json:"failed"`
}

// NewStoriesUploaded creates a StoriesUploaded event
func NewStoriesUploaded(userID valueobjects.UserID, projectKey string, created, failed int, timestamp time.Time) StoriesUploaded {
	return StoriesUploaded{
		BaseEvent:  newBaseEvent(userID.String(), typeStoriesUploaded, timestamp),
		UserID:     userID.String(),
		ProjectKey: projectKey,
		Created:    created,
		Failed:     failed,
	}
}
