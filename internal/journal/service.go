// Package journal owns users and their journal entries.
package journal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"journal-service/internal/memory"
)

// MemoryEnqueuer accepts fire-and-forget semantic memory tasks.
type MemoryEnqueuer interface {
	Enqueue(t memory.Task) bool
}

type Service struct {
	store  Store
	memory MemoryEnqueuer
	now    func() time.Time
}

// NewService wires the store. mem may be nil when no LLM service is
// configured.
func NewService(store Store, mem MemoryEnqueuer) *Service {
	return &Service{store: store, memory: mem, now: time.Now}
}

// ---------- users ----------

func (s *Service) CreateUser(ctx context.Context, u User) (*User, error) {
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.TrimSpace(u.Email)
	if err := validateStruct(u); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = strings.TrimSpace(*patch.Email)
	}
	u.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.DeleteUser(ctx, id)
}

// ---------- journals ----------

// CreateJournal persists the entry for userID and then queues it for
// semantic memory extraction. Queueing never fails the request.
func (s *Service) CreateJournal(ctx context.Context, userID string, in JournalInput) (*Journal, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	j := Journal{
		ID:        in.ID,
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		CreatedAt: s.now().UTC(),
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if err := s.store.CreateJournal(ctx, &j); err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	if s.memory != nil {
		meta := map[string]any{
			"journalId": j.ID,
			"title":     j.Title,
			"createdAt": j.CreatedAt.Format(time.RFC3339),
		}
		if j.Mood != "" {
			meta["mood"] = j.Mood
		}
		if !s.memory.Enqueue(memory.Task{UserID: userID, Content: j.Content, Metadata: meta}) {
			log.Printf("journal: memory task for %s not queued", j.ID)
		}
	}
	return &j, nil
}

func (s *Service) ListJournals(ctx context.Context, userID string) ([]Journal, error) {
	return s.store.ListJournals(ctx, userID)
}

// GetJournal returns ErrForbidden when the entry exists but belongs to a
// different user.
func (s *Service) GetJournal(ctx context.Context, userID, id string) (*Journal, error) {
	j, err := s.store.GetJournal(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.UserID != userID {
		return nil, ErrForbidden
	}
	return j, nil
}

func (s *Service) UpdateJournal(ctx context.Context, userID, id string, patch JournalPatch) (*Journal, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	j, err := s.GetJournal(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		j.Title = *patch.Title
	}
	if patch.Content != nil {
		j.Content = *patch.Content
	}
	if patch.Mood != nil {
		j.Mood = *patch.Mood
	}
	if err := s.store.UpdateJournal(ctx, j); err != nil {
		return nil, fmt.Errorf("update journal: %w", err)
	}
	return j, nil
}

func (s *Service) DeleteJournal(ctx context.Context, userID, id string) error {
	if _, err := s.GetJournal(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteJournal(ctx, id)
}
