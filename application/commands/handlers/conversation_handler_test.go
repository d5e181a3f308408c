package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/commands"
	"triforge-backend/application/ports"
	pkgerrors "triforge-backend/pkg/errors"
)

func (f *handlerFixture) conversation() *ConversationHandler {
	return NewConversationHandler(f.saga, nil)
}

func TestConverseCommitsSingleTurn(t *testing.T) {
	f := newHandlerFixture(t)

	var gotOpts ports.CompletionOptions
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotOpts = args.Get(2).(ports.CompletionOptions) }).
		Return("You can reset it from the account settings page.", nil)

	result, err := f.conversation().Converse(context.Background(), commands.ConverseCommand{
		UserID:  "alice",
		Content: "How do I reset my password?",
	})

	require.NoError(t, err)
	assert.Equal(t, "You can reset it from the account settings page.", result.Response)
	assert.Equal(t, 0.2, gotOpts.Temperature)
	assert.Equal(t, 100, gotOpts.MaxOutputTokens)

	turns := f.turns(t, "alice")
	require.Len(t, turns, 1)
	assert.Equal(t, "How do I reset my password?", turns[0].Input())
	assert.Equal(t, "You can reset it from the account settings page.", turns[0].Output())
}

func TestConverseRendersHistoryIntoPrompt(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", "Hello, how can I help?")

	var gotPrompt string
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("Sure thing.", nil)

	_, err := f.conversation().Converse(context.Background(), commands.ConverseCommand{
		UserID:  "alice",
		Content: "Thanks!",
	})

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Human: request 1\nAI: Hello, how can I help?")
	assert.Contains(t, gotPrompt, "User: Thanks!")
}

func TestConverseUpstreamFailureLeavesNoTurn(t *testing.T) {
	f := newHandlerFixture(t)
	f.client.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset"))

	_, err := f.conversation().Converse(context.Background(), commands.ConverseCommand{
		UserID:  "alice",
		Content: "Hello there",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsUpstream(err))
	assert.Contains(t, err.Error(), "Error in conversation")
	assert.Empty(t, f.turns(t, "alice"))
}

func TestConverseMissingContent(t *testing.T) {
	f := newHandlerFixture(t)

	_, err := f.conversation().Converse(context.Background(), commands.ConverseCommand{
		UserID: "alice",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	f.client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}
