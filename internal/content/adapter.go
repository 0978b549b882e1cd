package content

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"journal-service/internal/oauth"
)

// Adapter fetches a user's recent items from one platform.
type Adapter interface {
	Platform() oauth.Platform
	RecentContent(ctx context.Context, accessToken string) ([]ExternalContent, error)
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// getJSON performs an authenticated GET and decodes the body into out,
// classifying every failure as a *FetchError.
func getJSON(ctx context.Context, client *http.Client, p oauth.Platform, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Platform: p, Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{Platform: p, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &FetchError{Platform: p, Kind: KindStatus, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Platform: p, Kind: KindMalformed, Err: err}
	}
	return nil
}
