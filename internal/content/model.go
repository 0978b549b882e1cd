package content

import "journal-service/internal/oauth"

// maxItems caps how many items a single fetch returns per platform.
const maxItems = 5

const unknownArtist = "Unknown"

type ExternalContent struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	ArtistOrChannel string         `json:"artistOrChannel"`
	ThumbnailURL    string         `json:"thumbnailUrl"`
	ExternalURL     string         `json:"externalUrl"`
	Platform        oauth.Platform `json:"platform"`
}
