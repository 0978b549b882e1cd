package oauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"journal-service/internal/metrics"
)

const callbackPath = "/api/v1/external-auth/callback/"

var (
	ErrNotConfigured  = errors.New("oauth client not configured")
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrNoRefreshToken = errors.New("no refresh token stored")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

// Service runs the authorization-code and refresh-token grants for every
// supported platform. Both platforms share one flow; only the data in the
// platform table differs.
type Service struct {
	store      Store
	gatewayURL string
	creds      map[Platform]Credentials
	configs    map[Platform]*oauth2.Config
	authParams map[Platform][]oauth2.AuthCodeOption
	client     *http.Client
	now        func() time.Time
}

func NewService(store Store, gatewayURL string, creds map[Platform]Credentials, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	s := &Service{
		store:      store,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		creds:      creds,
		configs:    make(map[Platform]*oauth2.Config, len(platformDefs)),
		authParams: make(map[Platform][]oauth2.AuthCodeOption, len(platformDefs)),
		client:     client,
		now:        time.Now,
	}
	for p, def := range platformDefs {
		c := creds[p]
		s.configs[p] = &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  def.endpoint.AuthURL,
				TokenURL: def.endpoint.TokenURL,
				// Client credentials travel in the form body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: s.RedirectURI(p),
			Scopes:      def.scopes,
		}
		s.authParams[p] = def.authParams
	}
	return s
}

// RedirectURI is the callback registered with the provider for p.
func (s *Service) RedirectURI(p Platform) string {
	return s.gatewayURL + callbackPath + p.String()
}

func (s *Service) config(p Platform) (*oauth2.Config, error) {
	cfg, ok := s.configs[p]
	if !ok {
		return nil, ErrUnknownPlatform
	}
	if !s.creds[p].configured() {
		return nil, fmt.Errorf("%s: %w", p, ErrNotConfigured)
	}
	return cfg, nil
}

// Configured reports whether client credentials are present for p.
func (s *Service) Configured(p Platform) bool {
	_, err := s.config(p)
	return err == nil
}

// BuildAuthorizeURL returns the provider consent URL. userID rides through
// the provider untouched as the OAuth state and later keys the stored token.
func (s *Service) BuildAuthorizeURL(p Platform, userID string) (string, error) {
	cfg, err := s.config(p)
	if err != nil {
		return "", err
	}
	return cfg.AuthCodeURL(userID, s.authParams[p]...), nil
}

// ExchangeCode trades an authorization code for tokens. The returned token
// belongs to state, the user id sent with the authorize redirect. Nothing is
// persisted here.
func (s *Service) ExchangeCode(ctx context.Context, p Platform, code, state string) (ExternalToken, error) {
	cfg, err := s.config(p)
	if err != nil {
		return ExternalToken{}, err
	}

	tok, err := cfg.Exchange(s.clientContext(ctx), code)
	if err != nil {
		metrics.OAuthExchanges.WithLabelValues(p.String(), metrics.ResultError).Inc()
		return ExternalToken{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	metrics.OAuthExchanges.WithLabelValues(p.String(), metrics.ResultOK).Inc()

	expiresAt := s.expiry(tok)
	return ExternalToken{
		UserID:       state,
		Platform:     p,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    &expiresAt,
	}, nil
}

// Refresh mints a new access token from the stored refresh token and
// overwrites the stored record. The old refresh token is kept because the
// providers do not always rotate it. A failed refresh leaves the stale record
// in place and is not retried.
func (s *Service) Refresh(ctx context.Context, userID string, p Platform) (string, error) {
	cfg, err := s.config(p)
	if err != nil {
		return "", err
	}

	stored, err := s.store.Get(ctx, userID, p)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrNoRefreshToken
		}
		return "", err
	}
	if stored.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	src := cfg.TokenSource(s.clientContext(ctx), &oauth2.Token{RefreshToken: stored.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(p.String(), metrics.ResultError).Inc()
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	expiresAt := s.expiry(fresh)
	updated := ExternalToken{
		UserID:       userID,
		Platform:     p,
		AccessToken:  fresh.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresAt:    &expiresAt,
	}
	if err := s.store.Save(ctx, updated); err != nil {
		metrics.TokenRefreshes.WithLabelValues(p.String(), metrics.ResultError).Inc()
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	metrics.TokenRefreshes.WithLabelValues(p.String(), metrics.ResultOK).Inc()
	log.Printf("oauth: refreshed %s token for user %s", p, userID)
	return fresh.AccessToken, nil
}

func (s *Service) StoreToken(ctx context.Context, token ExternalToken) error {
	return s.store.Save(ctx, token)
}

func (s *Service) GetToken(ctx context.Context, userID string, p Platform) (ExternalToken, error) {
	return s.store.Get(ctx, userID, p)
}

func (s *Service) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.client)
}

// expiry uses the provider's expires_in when present, else the default
// lifetime.
func (s *Service) expiry(tok *oauth2.Token) time.Time {
	if !tok.Expiry.IsZero() {
		return tok.Expiry
	}
	return s.now().Add(defaultExpiresIn)
}
