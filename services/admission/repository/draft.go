package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"spmb/domain"
)

// draftTTL is how long an untouched draft survives before the janitor drops it.
const draftTTL = 2 * time.Hour

type draftEntry struct {
	wizard   *domain.Wizard
	lastSeen time.Time
}

// MemoryDraftStore keeps in-progress wizards in memory. Submitted
// registrations live in the database; a draft lost to a restart only costs
// the parent re-entering the form.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*draftEntry

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryDraftStore() *MemoryDraftStore {
	s := &MemoryDraftStore{
		drafts: make(map[string]*draftEntry),
		stop:   make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryDraftStore) Create(ctx context.Context) (string, *domain.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	w := domain.NewWizard()
	s.drafts[id] = &draftEntry{
		wizard:   w,
		lastSeen: time.Now(),
	}
	return id, w, nil
}

func (s *MemoryDraftStore) Get(ctx context.Context, id string) (*domain.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[id]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	entry.lastSeen = time.Now()
	return entry.wizard, nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}

// Close stops the janitor goroutine. Held drafts stay readable.
func (s *MemoryDraftStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *MemoryDraftStore) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-draftTTL)
			s.mu.Lock()
			for id, entry := range s.drafts {
				if entry.lastSeen.Before(cutoff) {
					delete(s.drafts, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
