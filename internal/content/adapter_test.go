package content

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journal-service/internal/oauth"
)

// Mock HTTP Transport
type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func NewMockClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func fetchKind(t *testing.T, err error) FetchErrorKind {
	t.Helper()
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	return fe.Kind
}

func TestSpotifyAdapter_RecentContent(t *testing.T) {
	t.Run("maps tracks", func(t *testing.T) {
		var gotReq *http.Request
		client := NewMockClient(func(req *http.Request) *http.Response {
			gotReq = req
			return jsonResponse(http.StatusOK, `{
				"items": [
					{"track": {
						"id": "t1", "name": "Song",
						"artists": [{"name": "Band"}, {"name": "Feat"}],
						"album": {"images": [{"url": "http://img/1"}, {"url": "http://img/2"}]},
						"external_urls": {"spotify": "https://open.spotify.com/track/t1"}
					}}
				]
			}`)
		})

		items, err := NewSpotifyAdapter(client).RecentContent(context.Background(), "AT")
		require.NoError(t, err)

		require.NotNil(t, gotReq)
		assert.Equal(t, "Bearer AT", gotReq.Header.Get("Authorization"))
		assert.Equal(t, "api.spotify.com", gotReq.URL.Host)
		assert.Equal(t, "/v1/me/player/recently-played", gotReq.URL.Path)
		assert.Equal(t, "5", gotReq.URL.Query().Get("limit"))

		assert.Equal(t, []ExternalContent{{
			ID:              "t1",
			Title:           "Song",
			ArtistOrChannel: "Band",
			ThumbnailURL:    "http://img/1",
			ExternalURL:     "https://open.spotify.com/track/t1",
			Platform:        oauth.Spotify,
		}}, items)
	})

	t.Run("defaults missing artists and images", func(t *testing.T) {
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"items":[{"track":{"id":"t2","name":"Lonely"}}]}`)
		})

		items, err := NewSpotifyAdapter(client).RecentContent(context.Background(), "AT")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Unknown", items[0].ArtistOrChannel)
		assert.Equal(t, "", items[0].ThumbnailURL)
	})

	t.Run("caps at five", func(t *testing.T) {
		var b strings.Builder
		b.WriteString(`{"items":[`)
		for i := 0; i < 8; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"track":{"id":"t","name":"n"}}`)
		}
		b.WriteString(`]}`)
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, b.String())
		})

		items, err := NewSpotifyAdapter(client).RecentContent(context.Background(), "AT")
		require.NoError(t, err)
		assert.Len(t, items, 5)
	})

	t.Run("empty history", func(t *testing.T) {
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"items":[]}`)
		})

		items, err := NewSpotifyAdapter(client).RecentContent(context.Background(), "AT")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	tests := []struct {
		name   string
		client *http.Client
		kind   FetchErrorKind
	}{
		{
			name:   "network",
			client: &http.Client{Transport: failingTransport{}},
			kind:   KindNetwork,
		},
		{
			name: "unauthorized",
			client: NewMockClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusUnauthorized, `{"error":{"status":401}}`)
			}),
			kind: KindStatus,
		},
		{
			name: "not json",
			client: NewMockClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, `<html>`)
			}),
			kind: KindMalformed,
		},
		{
			name: "wrong shape",
			client: NewMockClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, `{"items":[{"track":{"id":"t","artists":"nope"}}]}`)
			}),
			kind: KindMalformed,
		},
		{
			name: "missing track",
			client: NewMockClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, `{"items":[{"played_at":"x"}]}`)
			}),
			kind: KindMissingField,
		},
		{
			name: "missing track id",
			client: NewMockClient(func(req *http.Request) *http.Response {
				return jsonResponse(http.StatusOK, `{"items":[{"track":{"name":"n"}}]}`)
			}),
			kind: KindMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewSpotifyAdapter(tt.client).RecentContent(context.Background(), "AT")
			assert.Nil(t, items)
			assert.Equal(t, tt.kind, fetchKind(t, err))
		})
	}
}

func TestYouTubeAdapter_RecentContent(t *testing.T) {
	t.Run("maps activities", func(t *testing.T) {
		var gotReq *http.Request
		client := NewMockClient(func(req *http.Request) *http.Response {
			gotReq = req
			return jsonResponse(http.StatusOK, `{
				"items": [
					{"id": "act1", "snippet": {
						"title": "Video", "channelTitle": "Chan",
						"thumbnails": {"default": {"url": "http://thumb"}}
					}},
					{"id": "act2", "snippet": {"title": "Bare"}}
				]
			}`)
		})

		items, err := NewYouTubeAdapter(client).RecentContent(context.Background(), "YT")
		require.NoError(t, err)

		require.NotNil(t, gotReq)
		assert.Equal(t, "Bearer YT", gotReq.Header.Get("Authorization"))
		assert.Equal(t, "www.googleapis.com", gotReq.URL.Host)
		assert.Equal(t, "/youtube/v3/activities", gotReq.URL.Path)
		q := gotReq.URL.Query()
		assert.Equal(t, "true", q.Get("mine"))
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "5", q.Get("maxResults"))

		require.Len(t, items, 2)
		assert.Equal(t, ExternalContent{
			ID:              "act1",
			Title:           "Video",
			ArtistOrChannel: "Chan",
			ThumbnailURL:    "http://thumb",
			ExternalURL:     "https://www.youtube.com/watch?v=act1",
			Platform:        oauth.YouTube,
		}, items[0])
		assert.Equal(t, "", items[1].ThumbnailURL)
		assert.Equal(t, oauth.YouTube, items[1].Platform)
	})

	t.Run("missing snippet", func(t *testing.T) {
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"items":[{"id":"a"}]}`)
		})

		_, err := NewYouTubeAdapter(client).RecentContent(context.Background(), "YT")
		assert.Equal(t, KindMissingField, fetchKind(t, err))
		assert.Contains(t, err.Error(), "items[0].snippet")
	})

	t.Run("missing id", func(t *testing.T) {
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{"items":[{"snippet":{"title":"Video","channelTitle":"Chan"}}]}`)
		})

		_, err := NewYouTubeAdapter(client).RecentContent(context.Background(), "YT")
		assert.Equal(t, KindMissingField, fetchKind(t, err))
	})

	t.Run("server error", func(t *testing.T) {
		client := NewMockClient(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusInternalServerError, ``)
		})

		_, err := NewYouTubeAdapter(client).RecentContent(context.Background(), "YT")
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindStatus, fe.Kind)
		assert.Equal(t, http.StatusInternalServerError, fe.Status)
	})
}
