package content

import (
	"fmt"

	"journal-service/internal/oauth"
)

type FetchErrorKind string

const (
	KindNetwork      FetchErrorKind = "network"
	KindStatus       FetchErrorKind = "status"
	KindMalformed    FetchErrorKind = "malformed"
	KindMissingField FetchErrorKind = "missing_field"
)

// FetchError describes why an adapter could not produce content. The service
// collapses it to an empty list; it exists for logs and metrics.
type FetchError struct {
	Platform oauth.Platform
	Kind     FetchErrorKind
	Status   int
	Field    string
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: upstream returned status %d", e.Platform, e.Status)
	case KindMissingField:
		return fmt.Sprintf("%s: response missing %s", e.Platform, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Platform, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Platform, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

func missingField(p oauth.Platform, field string) *FetchError {
	return &FetchError{Platform: p, Kind: KindMissingField, Field: field}
}
