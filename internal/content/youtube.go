package content

import (
	"context"
	"fmt"
	"net/http"

	"journal-service/internal/oauth"
)

const (
	youtubeActivitiesURL = "https://www.googleapis.com/youtube/v3/activities?mine=true&part=snippet&maxResults=5"
	youtubeWatchURL      = "https://www.youtube.com/watch?v="
)

type ytActivitiesResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet *struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

type YouTubeAdapter struct {
	baseURL    string
	httpClient *http.Client
}

func NewYouTubeAdapter(client *http.Client) *YouTubeAdapter {
	return &YouTubeAdapter{
		baseURL:    youtubeActivitiesURL,
		httpClient: defaultClient(client),
	}
}

func (a *YouTubeAdapter) Platform() oauth.Platform { return oauth.YouTube }

func (a *YouTubeAdapter) RecentContent(ctx context.Context, accessToken string) ([]ExternalContent, error) {
	var body ytActivitiesResponse
	if err := getJSON(ctx, a.httpClient, oauth.YouTube, a.baseURL, accessToken, &body); err != nil {
		return nil, err
	}

	out := make([]ExternalContent, 0, min(len(body.Items), maxItems))
	for i, item := range body.Items {
		if len(out) == maxItems {
			break
		}
		if item.ID == "" {
			return nil, missingField(oauth.YouTube, fmt.Sprintf("items[%d].id", i))
		}
		if item.Snippet == nil {
			return nil, missingField(oauth.YouTube, fmt.Sprintf("items[%d].snippet", i))
		}

		out = append(out, ExternalContent{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			ArtistOrChannel: item.Snippet.ChannelTitle,
			ThumbnailURL:    item.Snippet.Thumbnails.Default.URL,
			ExternalURL:     youtubeWatchURL + item.ID,
			Platform:        oauth.YouTube,
		})
	}
	return out, nil
}
