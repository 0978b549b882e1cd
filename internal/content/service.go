// Package content pulls a user's recent activity from connected platforms.
package content

import (
	"context"
	"errors"
	"log"

	"journal-service/internal/metrics"
	"journal-service/internal/oauth"
)

const (
	outcomeOK            = "ok"
	outcomeNoToken       = "no_token"
	outcomeRefreshFailed = "refresh_failed"
	outcomeStoreError    = "store_error"
)

// TokenSource is the slice of the OAuth service this package needs.
type TokenSource interface {
	GetToken(ctx context.Context, userID string, p oauth.Platform) (oauth.ExternalToken, error)
	Refresh(ctx context.Context, userID string, p oauth.Platform) (string, error)
}

type Service struct {
	tokens   TokenSource
	adapters map[oauth.Platform]Adapter
}

func NewService(tokens TokenSource, adapters ...Adapter) *Service {
	s := &Service{
		tokens:   tokens,
		adapters: make(map[oauth.Platform]Adapter, len(adapters)),
	}
	for _, a := range adapters {
		s.adapters[a.Platform()] = a
	}
	return s
}

// RecentContent never fails: a missing connection, a failed refresh and an
// upstream error all yield an empty list.
func (s *Service) RecentContent(ctx context.Context, userID string, p oauth.Platform) []ExternalContent {
	empty := []ExternalContent{}

	adapter, ok := s.adapters[p]
	if !ok {
		return empty
	}

	tok, err := s.tokens.GetToken(ctx, userID, p)
	if err != nil {
		if errors.Is(err, oauth.ErrTokenNotFound) {
			metrics.ContentFetches.WithLabelValues(p.String(), outcomeNoToken).Inc()
		} else {
			log.Printf("content: load %s token for %s: %v", p, userID, err)
			metrics.ContentFetches.WithLabelValues(p.String(), outcomeStoreError).Inc()
		}
		return empty
	}

	access := tok.AccessToken
	if tok.IsExpired() {
		access, err = s.tokens.Refresh(ctx, userID, p)
		if err != nil {
			log.Printf("content: refresh %s token for %s: %v", p, userID, err)
			metrics.ContentFetches.WithLabelValues(p.String(), outcomeRefreshFailed).Inc()
			return empty
		}
	}

	items, err := adapter.RecentContent(ctx, access)
	if err != nil {
		outcome := "error"
		var fe *FetchError
		if errors.As(err, &fe) {
			outcome = string(fe.Kind)
		}
		log.Printf("content: fetch %s for %s: %v", p, userID, err)
		metrics.ContentFetches.WithLabelValues(p.String(), outcome).Inc()
		return empty
	}

	metrics.ContentFetches.WithLabelValues(p.String(), outcomeOK).Inc()
	if items == nil {
		return empty
	}
	return items
}
