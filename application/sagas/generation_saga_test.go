package sagas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/ports"
	"triforge-backend/domain/chains"
	"triforge-backend/domain/config"
	"triforge-backend/domain/core/aggregates"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/core/valueobjects"
	"triforge-backend/domain/events"
	"triforge-backend/infrastructure/persistence/memory"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/tests/mocks"
)

type sagaFixture struct {
	saga      *GenerationSaga
	store     *memory.SessionStore
	client    *mocks.MockCompletionClient
	publisher *mocks.MockEventPublisher
	userID    valueobjects.UserID
}

func newSagaFixture(t *testing.T, cfg *config.DomainConfig) *sagaFixture {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	store := memory.NewSessionStore(cfg, nil)
	client := new(mocks.MockCompletionClient)
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(nil).Maybe()

	userID, err := valueobjects.NewUserIDFromString("alice")
	require.NoError(t, err)

	return &sagaFixture{
		saga:      NewGenerationSaga(store, client, publisher, cfg, nil),
		store:     store,
		client:    client,
		publisher: publisher,
		userID:    userID,
	}
}

func (f *sagaFixture) turns(t *testing.T) []entities.Turn {
	t.Helper()
	var turns []entities.Turn
	_, err := f.store.View(context.Background(), f.userID, func(session *aggregates.Session) error {
		turns = session.Turns()
		return nil
	})
	require.NoError(t, err)
	return turns
}

func diagramPlan(userID valueobjects.UserID) GenerationPlan {
	return GenerationPlan{
		UserID:   userID,
		Chain:    chains.DiagramGeneration,
		Artifact: valueobjects.ArtifactDiagram,
		Vars: map[string]string{
			"input": "Jira User Stories:\n## As a user, I want to log in\n\nDiagram Type: flowchart\n",
		},
		Placeholder: TurnDraft{
			Input:  "Generate a flowchart diagram for these Jira stories",
			Output: "Processing diagram generation request...",
		},
		FinalInput: "Generate a flowchart diagram",
		Normalize:  chains.CleanMermaidResponse,
	}
}

func TestExecuteCommitsPlaceholderThenFinal(t *testing.T) {
	f := newSagaFixture(t, nil)

	var gotPrompt string
	var gotOpts ports.CompletionOptions
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotPrompt = args.String(1)
			gotOpts = args.Get(2).(ports.CompletionOptions)
		}).
		Return("```mermaid\ngraph TD\n    A --> B\n```", nil)

	output, err := f.saga.Execute(context.Background(), diagramPlan(f.userID))

	require.NoError(t, err)
	assert.Equal(t, "graph TD\n    A --> B", output)

	turns := f.turns(t)
	require.Len(t, turns, 2)
	assert.Equal(t, "Generate a flowchart diagram for these Jira stories", turns[0].Input())
	assert.Equal(t, "Processing diagram generation request...", turns[0].Output())
	assert.Equal(t, "Generate a flowchart diagram", turns[1].Input())
	assert.Equal(t, "graph TD\n    A --> B", turns[1].Output())

	// History is rendered after the placeholder commit, so the prompt sees it
	assert.Contains(t, gotPrompt, "AI: Processing diagram generation request...")
	assert.Contains(t, gotPrompt, "Jira User Stories:")
	assert.Equal(t, ports.CompletionOptions{
		Chain:           string(chains.DiagramGeneration),
		Temperature:     0.0,
		MaxOutputTokens: 300,
	}, gotOpts)

	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(event events.ArtifactGenerated) bool {
		return event.Chain == string(chains.DiagramGeneration) && event.Artifact == "diagram"
	}))
}

func TestExecuteWithoutPlaceholderCommitsOnce(t *testing.T) {
	f := newSagaFixture(t, nil)
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Hi! How can I help?", nil)

	output, err := f.saga.Execute(context.Background(), GenerationPlan{
		UserID:     f.userID,
		Chain:      chains.Conversation,
		Vars:       map[string]string{"input": "Hello there"},
		FinalInput: "Hello there",
	})

	require.NoError(t, err)
	assert.Equal(t, "Hi! How can I help?", output)

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "Hello there", turns[0].Input())
	assert.Equal(t, "Hi! How can I help?", turns[0].Output())
}

func TestExecuteFailureAmendsPlaceholder(t *testing.T) {
	f := newSagaFixture(t, nil)
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	_, err := f.saga.Execute(context.Background(), diagramPlan(f.userID))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpstream(err))

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "Request failed: model unavailable", turns[0].Output())

	// At most one model call, no retries
	f.client.AssertNumberOfCalls(t, "Complete", 1)

	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(event events.ArtifactGenerationFailed) bool {
		return event.Chain == string(chains.DiagramGeneration)
	}))
}

func TestExecuteFailureWithoutPlaceholderLeavesNoTurn(t *testing.T) {
	f := newSagaFixture(t, nil)
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	_, err := f.saga.Execute(context.Background(), GenerationPlan{
		UserID:     f.userID,
		Chain:      chains.Conversation,
		Vars:       map[string]string{"input": "Hello there"},
		FinalInput: "Hello there",
	})

	require.Error(t, err)
	assert.Empty(t, f.turns(t))
}

func TestExecuteTimesOutAndReconciles(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.GenerationTimeout = 15 * time.Millisecond
	f := newSagaFixture(t, cfg)

	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			invokeCtx := args.Get(0).(context.Context)
			<-invokeCtx.Done()
		}).
		Return("", context.DeadlineExceeded)

	started := time.Now()
	_, err := f.saga.Execute(context.Background(), diagramPlan(f.userID))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpstream(err))
	assert.Less(t, time.Since(started), 2*time.Second)

	turns := f.turns(t)
	require.Len(t, turns, 1)
	assert.Equal(t, "Request failed: context deadline exceeded", turns[0].Output())
}

func TestExecutePublisherFailureIsIgnored(t *testing.T) {
	f := newSagaFixture(t, nil)
	f.publisher.ExpectedCalls = nil
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("sink down"))
	f.publisher.On("PublishBatch", mock.Anything, mock.Anything).Return(errors.New("sink down"))

	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("graph TD\n    A --> B", nil)

	output, err := f.saga.Execute(context.Background(), diagramPlan(f.userID))

	require.NoError(t, err)
	assert.Equal(t, "graph TD\n    A --> B", output)
	assert.Len(t, f.turns(t), 2)
}

func TestExecuteUnknownChainFailsBeforeAnyCommit(t *testing.T) {
	f := newSagaFixture(t, nil)

	plan := diagramPlan(f.userID)
	plan.Chain = chains.ChainName("no_such_chain")

	_, err := f.saga.Execute(context.Background(), plan)

	require.Error(t, err)
	assert.Empty(t, f.turns(t))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}
