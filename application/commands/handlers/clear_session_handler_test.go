package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"triforge-backend/application/commands"
	"triforge-backend/domain/events"
	pkgerrors "triforge-backend/pkg/errors"
	"triforge-backend/tests/mocks"
)

func TestClearSessionDropsTurns(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedOutputs(t, "alice", "first answer", "second answer")

	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(event events.DomainEvent) bool {
		cleared, ok := event.(events.SessionCleared)
		return ok && cleared.TurnsDropped == 2
	})).Return(nil).Once()

	handler := NewClearSessionHandler(f.store, publisher, nil)
	err := handler.Handle(context.Background(), commands.ClearSessionCommand{UserID: "alice"})

	require.NoError(t, err)
	assert.Empty(t, f.turns(t, "alice"))
	publisher.AssertExpectations(t)
}

func TestClearSessionNoSessionIsNoOp(t *testing.T) {
	f := newHandlerFixture(t)
	publisher := new(mocks.MockEventPublisher)

	handler := NewClearSessionHandler(f.store, publisher, nil)
	err := handler.Handle(context.Background(), commands.ClearSessionCommand{UserID: "ghost"})

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestClearSessionMissingUserID(t *testing.T) {
	f := newHandlerFixture(t)

	handler := NewClearSessionHandler(f.store, f.publisher, nil)
	err := handler.Handle(context.Background(), commands.ClearSessionCommand{})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
