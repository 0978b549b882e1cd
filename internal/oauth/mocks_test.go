package oauth

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, token ExternalToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, userID string, platform Platform) (ExternalToken, error) {
	args := m.Called(ctx, userID, platform)
	return args.Get(0).(ExternalToken), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, userID string, platform Platform) error {
	args := m.Called(ctx, userID, platform)
	return args.Error(0)
}
