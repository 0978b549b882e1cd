package content

import (
	"context"
	"fmt"
	"net/http"

	"journal-service/internal/oauth"
)

const spotifyRecentlyPlayedURL = "https://api.spotify.com/v1/me/player/recently-played?limit=5"

type spotifyRecentlyPlayed struct {
	Items []struct {
		Track *struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			ExternalURLs struct {
				Spotify string `json:"spotify"`
			} `json:"external_urls"`
		} `json:"track"`
	} `json:"items"`
}

type SpotifyAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewSpotifyAdapter(client *http.Client) *SpotifyAdapter {
	return &SpotifyAdapter{
		baseURL:    spotifyRecentlyPlayedURL,
		httpClient: defaultClient(client),
	}
}

func (a *SpotifyAdapter) Platform() oauth.Platform { return oauth.Spotify }

// RecentContent maps recently played tracks. Missing artists or album art are
// defaulted; a missing track or track id fails the whole fetch.
func (a *SpotifyAdapter) RecentContent(ctx context.Context, accessToken string) ([]ExternalContent, error) {
	var body spotifyRecentlyPlayed
	if err := getJSON(ctx, a.httpClient, oauth.Spotify, a.baseURL, accessToken, &body); err != nil {
		return nil, err
	}

	out := make([]ExternalContent, 0, min(len(body.Items), maxItems))
	for i, item := range body.Items {
		if len(out) == maxItems {
			break
		}
		t := item.Track
		if t == nil {
			return nil, missingField(oauth.Spotify, fmt.Sprintf("items[%d].track", i))
		}
		if t.ID == "" {
			return nil, missingField(oauth.Spotify, fmt.Sprintf("items[%d].track.id", i))
		}

		artist := unknownArtist
		if len(t.Artists) > 0 && t.Artists[0].Name != "" {
			artist = t.Artists[0].Name
		}
		thumb := ""
		if len(t.Album.Images) > 0 {
			thumb = t.Album.Images[0].URL
		}

		out = append(out, ExternalContent{
			ID:              t.ID,
			Title:           t.Name,
			ArtistOrChannel: artist,
			ThumbnailURL:    thumb,
			ExternalURL:     t.ExternalURLs.Spotify,
			Platform:        oauth.Spotify,
		})
	}
	return out, nil
}
