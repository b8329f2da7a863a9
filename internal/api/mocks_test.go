package api

import (
	"context"
	"io"

	"github.com/phrazzld/distill-api/internal/domain"
	"github.com/phrazzld/distill-api/internal/engine"
	"github.com/stretchr/testify/mock"
)

// MockProcessService mocks the service.ProcessService interface
type MockProcessService struct {
	mock.Mock
}

func (m *MockProcessService) ProcessText(
	ctx context.Context,
	inputSource string,
	inputType domain.InputType,
	enableIndexing bool,
) (*engine.Result, error) {
	args := m.Called(ctx, inputSource, inputType, enableIndexing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}

func (m *MockProcessService) ProcessFile(
	ctx context.Context,
	upload io.Reader,
	originalFilename string,
	enableIndexing bool,
) (*engine.Result, error) {
	args := m.Called(ctx, upload, originalFilename, enableIndexing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
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
