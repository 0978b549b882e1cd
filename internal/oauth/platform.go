package oauth

import (
	"errors"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

type Platform string

const (
	Spotify Platform = "spotify"
	YouTube Platform = "youtube"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{Spotify, YouTube}

func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case Spotify:
		return Spotify, nil
	case YouTube:
		return YouTube, nil
	}
	return "", ErrUnknownPlatform
}

func (p Platform) String() string {
	return string(p)
}

// platformDef is the static half of a platform's OAuth setup. Client
// credentials are supplied at runtime.
type platformDef struct {
	endpoint   oauth2.Endpoint
	scopes     []string
	authParams []oauth2.AuthCodeOption
}

var platformDefs = map[Platform]platformDef{
	Spotify: {
		endpoint: spotify.Endpoint,
		scopes:   []string{"user-read-recently-played"},
	},
	YouTube: {
		endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		scopes: []string{"https://www.googleapis.com/auth/youtube.readonly"},
		// Google only issues a refresh token with offline access and an
		// explicit consent prompt.
		authParams: []oauth2.AuthCodeOption{
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		},
	},
}

type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
