package content

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"journal-service/internal/oauth"
)

type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) GetToken(ctx context.Context, userID string, p oauth.Platform) (oauth.ExternalToken, error) {
	args := m.Called(ctx, userID, p)
	return args.Get(0).(oauth.ExternalToken), args.Error(1)
}

func (m *MockTokenSource) Refresh(ctx context.Context, userID string, p oauth.Platform) (string, error) {
	args := m.Called(ctx, userID, p)
	return args.String(0), args.Error(1)
}

// countingAdapter records the access token of every call.
type countingAdapter struct {
	platform oauth.Platform
	items    []ExternalContent
	err      error

	calls     atomic.Int32
	lastToken atomic.Value
}

func (a *countingAdapter) Platform() oauth.Platform { return a.platform }

func (a *countingAdapter) RecentContent(_ context.Context, accessToken string) ([]ExternalContent, error) {
	a.calls.Add(1)
	a.lastToken.Store(accessToken)
	return a.items, a.err
}

func TestService_RecentContent(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	track := ExternalContent{ID: "t1", Title: "Song", ArtistOrChannel: "Band", Platform: oauth.Spotify}

	t.Run("no stored token", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{platform: oauth.Spotify}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.Spotify).Return(oauth.ExternalToken{}, oauth.ErrTokenNotFound)

		got := svc.RecentContent(ctx, "U", oauth.Spotify)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, int32(0), adapter.calls.Load())
	})

	t.Run("valid token skips refresh", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{platform: oauth.Spotify, items: []ExternalContent{track}}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.Spotify).
			Return(oauth.ExternalToken{AccessToken: "A", RefreshToken: "R", ExpiresAt: &future}, nil)

		got := svc.RecentContent(ctx, "U", oauth.Spotify)
		assert.Equal(t, []ExternalContent{track}, got)
		assert.Equal(t, "A", adapter.lastToken.Load())
		tokens.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired token refreshes once", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{platform: oauth.Spotify, items: []ExternalContent{track}}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.Spotify).
			Return(oauth.ExternalToken{AccessToken: "OLD", RefreshToken: "R", ExpiresAt: &past}, nil)
		tokens.On("Refresh", mock.Anything, "U", oauth.Spotify).Return("NEW", nil).Once()

		got := svc.RecentContent(ctx, "U", oauth.Spotify)
		assert.Len(t, got, 1)
		assert.Equal(t, "NEW", adapter.lastToken.Load())
		tokens.AssertNumberOfCalls(t, "Refresh", 1)
	})

	t.Run("failed refresh never calls adapter", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{platform: oauth.YouTube}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.YouTube).
			Return(oauth.ExternalToken{AccessToken: "OLD", ExpiresAt: &past}, nil)
		tokens.On("Refresh", mock.Anything, "U", oauth.YouTube).Return("", oauth.ErrNoRefreshToken)

		got := svc.RecentContent(ctx, "U", oauth.YouTube)
		assert.Empty(t, got)
		assert.Equal(t, int32(0), adapter.calls.Load())
	})

	t.Run("adapter error collapses to empty", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{
			platform: oauth.YouTube,
			err:      &FetchError{Platform: oauth.YouTube, Kind: KindStatus, Status: 403},
		}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.YouTube).
			Return(oauth.ExternalToken{AccessToken: "A"}, nil)

		got := svc.RecentContent(ctx, "U", oauth.YouTube)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Equal(t, int32(1), adapter.calls.Load())
	})

	t.Run("store error collapses to empty", func(t *testing.T) {
		tokens := new(MockTokenSource)
		adapter := &countingAdapter{platform: oauth.Spotify}
		svc := NewService(tokens, adapter)

		tokens.On("GetToken", mock.Anything, "U", oauth.Spotify).Return(oauth.ExternalToken{}, errors.New("db down"))

		assert.Empty(t, svc.RecentContent(ctx, "U", oauth.Spotify))
		assert.Equal(t, int32(0), adapter.calls.Load())
	})

	t.Run("platform without adapter", func(t *testing.T) {
		tokens := new(MockTokenSource)
		svc := NewService(tokens)

		assert.Empty(t, svc.RecentContent(ctx, "U", oauth.Spotify))
		tokens.AssertNotCalled(t, "GetToken", mock.Anything, mock.Anything, mock.Anything)
	})
}
