// Package mocks provides mock implementations of application ports for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"triforge-backend/application/ports"
	"triforge-backend/domain/core/entities"
	"triforge-backend/domain/events"
)

// MockCompletionClient is a testify mock for ports.CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionClient) Provider() string {
	return "mock"
}

// MockJiraGateway is a testify mock for ports.JiraGateway
type MockJiraGateway struct {
	mock.Mock
}

func (m *MockJiraGateway) ValidateCredentials(ctx context.Context, creds ports.JiraCredentials) ports.JiraResult {
	args := m.Called(ctx, creds)
	return args.Get(0).(ports.JiraResult)
}

func (m *MockJiraGateway) ValidateProject(ctx context.Context, creds ports.JiraCredentials, projectKey string) ports.JiraResult {
	args := m.Called(ctx, creds, projectKey)
	return args.Get(0).(ports.JiraResult)
}

func (m *MockJiraGateway) UploadStories(ctx context.Context, creds ports.JiraCredentials, projectKey string, stories []entities.UserStory) ports.JiraUpload {
	args := m.Called(ctx, creds, projectKey, stories)
	return args.Get(0).(ports.JiraUpload)
}

// MockEventPublisher is a testify mock for ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// MockArchiver is a testify mock for ports.Archiver
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Package(ctx context.Context, project *entities.GeneratedProject) ([]byte, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCache is a testify mock for ports.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
