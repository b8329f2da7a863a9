package service

import (
	"context"
	"io"

	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/phrazzld/distill-api/internal/events"
	"github.com/stretchr/testify/mock"
)

// MockEngine mocks the engine.Engine interface
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Process(
	ctx context.Context,
	input engine.InputDescriptor,
	onProgress engine.ProgressFunc,
) (*engine.Result, error) {
	args := m.Called(ctx, input, onProgress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}

// MockArtifactStore mocks the ArtifactStore interface
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Stage(src io.Reader, originalFilename string) (string, error) {
	args := m.Called(src, originalFilename)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Release(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// MockConverter mocks the convert.Converter interface
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockConverter) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockHistoryStore mocks the store.HistoryStore interface
type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryStore) List(ctx context.Context) ([]*domain.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HistoryEntry), args.Error(1)
}

func (m *MockHistoryStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBroadcaster mocks the events.Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(event events.ProgressEvent) {
	m.Called(event)
}
