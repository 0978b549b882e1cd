package journal

import (
	"context"

	"github.com/stretchr/testify/mock"

	"journal-service/internal/memory"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateJournal(ctx context.Context, j *Journal) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockStore) GetJournal(ctx context.Context, id string) (*Journal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Journal), args.Error(1)
}

func (m *MockStore) ListJournals(ctx context.Context, userID string) ([]Journal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Journal), args.Error(1)
}

func (m *MockStore) UpdateJournal(ctx context.Context, j *Journal) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}

func (m *MockStore) DeleteJournal(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(t memory.Task) bool {
	args := m.Called(t)
	return args.Bool(0)
}
