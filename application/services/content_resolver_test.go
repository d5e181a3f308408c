package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/infrastructure/persistence/memory"
)

const (
	sampleStories = "## As a user, I want to log in so that I can access my account\n\n**Story Points:** 3"
	sampleDiagram = "graph TD\n    A[Login] --> B[Dashboard]"
	sampleCode    = "def login(user):\n    return True"
)

func newResolverFixture(t *testing.T) (*ContentResolver, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore(config.DefaultDomainConfig(), nil)
	return NewContentResolver(store, nil), store
}

func seedOutputs(t *testing.T, store *memory.SessionStore, userID valueobjects.UserID, outputs ...string) {
	t.Helper()
	err := store.Update(context.Background(), userID, func(session *aggregates.Session) error {
		for i, output := range outputs {
			session.AddTurn(fmt.Sprintf("request %d", i+1), output)
		}
		return nil
	})
	require.NoError(t, err)
}

func mustUserID(t *testing.T, id string) valueobjects.UserID {
	t.Helper()
	userID, err := valueobjects.NewUserIDFromString(id)
	require.NoError(t, err)
	return userID
}

func TestResolveExplicitWinsOverMemory(t *testing.T) {
	resolver, store := newResolverFixture(t)
	userID := mustUserID(t, "alice")
	seedOutputs(t, store, userID, sampleStories)

	resolved, found, err := resolver.Resolve(context.Background(), userID, ContentCandidate{
		Kind:     valueobjects.ArtifactJiraStories,
		Explicit: "## As a tester, I want explicit stories",
	})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "## As a tester, I want explicit stories", resolved.Text)
	assert.Equal(t, valueobjects.ArtifactJiraStories, resolved.Kind)
	assert.False(t, resolved.FromMemory)
}

func TestResolveAnyExplicitBeatsEveryMemoryHit(t *testing.T) {
	// The code operation prefers an explicit stories value over a diagram
	// that is only present in history
	resolver, store := newResolverFixture(t)
	userID := mustUserID(t, "alice")
	seedOutputs(t, store, userID, sampleDiagram)

	resolved, found, err := resolver.Resolve(context.Background(), userID,
		ContentCandidate{Kind: valueobjects.ArtifactDiagram},
		ContentCandidate{Kind: valueobjects.ArtifactJiraStories, Explicit: sampleStories},
	)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, valueobjects.ArtifactJiraStories, resolved.Kind)
	assert.Equal(t, sampleStories, resolved.Text)
	assert.False(t, resolved.FromMemory)
}

func TestResolveFromMemoryNewestFirst(t *testing.T) {
	resolver, store := newResolverFixture(t)
	userID := mustUserID(t, "alice")
	older := "## As a user, I want the old version"
	newer := "## As a user, I want the new version"
	seedOutputs(t, store, userID, older, "just some chat in between", newer)

	resolved, found, err := resolver.Resolve(context.Background(), userID,
		ContentCandidate{Kind: valueobjects.ArtifactJiraStories})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, newer, resolved.Text)
	assert.True(t, resolved.FromMemory)
}

func TestResolveCandidateOrderBeatsRecency(t *testing.T) {
	// Diagram-before-stories is the code operation's precedence: a diagram
	// wins even when stories were produced afterwards
	resolver, store := newResolverFixture(t)
	userID := mustUserID(t, "alice")
	seedOutputs(t, store, userID, sampleDiagram, sampleStories)

	resolved, found, err := resolver.Resolve(context.Background(), userID,
		ContentCandidate{Kind: valueobjects.ArtifactDiagram},
		ContentCandidate{Kind: valueobjects.ArtifactJiraStories},
	)

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, valueobjects.ArtifactDiagram, resolved.Kind)
	assert.Equal(t, sampleDiagram, resolved.Text)
}

func TestResolveTrimsDiagramsAndCodeButNotStories(t *testing.T) {
	resolver, store := newResolverFixture(t)

	t.Run("diagram is trimmed", func(t *testing.T) {
		userID := mustUserID(t, "diagram-user")
		seedOutputs(t, store, userID, "\n\n  "+sampleDiagram+"\n")

		resolved, found, err := resolver.Resolve(context.Background(), userID,
			ContentCandidate{Kind: valueobjects.ArtifactDiagram})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, sampleDiagram, resolved.Text)
	})

	t.Run("code is trimmed", func(t *testing.T) {
		userID := mustUserID(t, "code-user")
		seedOutputs(t, store, userID, "\n"+sampleCode+"\n\n")

		resolved, found, err := resolver.Resolve(context.Background(), userID,
			ContentCandidate{Kind: valueobjects.ArtifactCode})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, sampleCode, resolved.Text)
	})

	t.Run("stories keep surrounding whitespace", func(t *testing.T) {
		userID := mustUserID(t, "stories-user")
		stored := "\n" + sampleStories + "\n"
		seedOutputs(t, store, userID, stored)

		resolved, found, err := resolver.Resolve(context.Background(), userID,
			ContentCandidate{Kind: valueobjects.ArtifactJiraStories})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, stored, resolved.Text)
	})
}

func TestResolveNotFound(t *testing.T) {
	resolver, store := newResolverFixture(t)

	t.Run("no session", func(t *testing.T) {
		_, found, err := resolver.Resolve(context.Background(), mustUserID(t, "nobody"),
			ContentCandidate{Kind: valueobjects.ArtifactDiagram})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("no matching shape", func(t *testing.T) {
		userID := mustUserID(t, "chatty")
		seedOutputs(t, store, userID, "Sure, happy to help with that.")

		_, found, err := resolver.Resolve(context.Background(), userID,
			ContentCandidate{Kind: valueobjects.ArtifactDiagram},
			ContentCandidate{Kind: valueobjects.ArtifactJiraStories},
		)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestLastOutput(t *testing.T) {
	resolver, store := newResolverFixture(t)

	t.Run("no session", func(t *testing.T) {
		_, ok, err := resolver.LastOutput(context.Background(), mustUserID(t, "nobody"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returns the newest output", func(t *testing.T) {
		userID := mustUserID(t, "alice")
		seedOutputs(t, store, userID, "first answer", "second answer")

		output, ok, err := resolver.LastOutput(context.Background(), userID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "second answer", output)
	})
}
