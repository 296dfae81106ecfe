package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
	"github.com/dndvault/character-api/internal/core/recovery"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubCharacterRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.Character
	order []string

	failWith    error // if set, every call returns this error
	calls       int
	insertCalls int
	deleteCalls int
}

func newStubCharacterRepo() *stubCharacterRepo {
	return &stubCharacterRepo{byID: make(map[string]*domain.Character)}
}

func cloneCharacter(c *domain.Character) *domain.Character {
	clone := *c
	return &clone
}

func (r *stubCharacterRepo) enter() error {
	r.calls++
	return r.failWith
}

func (r *stubCharacterRepo) owned(id, userID string) (*domain.Character, bool) {
	c, ok := r.byID[id]
	if !ok || c.UserID != userID {
		return nil, false
	}
	return c, true
}

func (r *stubCharacterRepo) ListByOwner(_ context.Context, userID string) ([]*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	var out []*domain.Character
	for i := len(r.order) - 1; i >= 0; i-- {
		if c := r.byID[r.order[i]]; c != nil && c.UserID == userID {
			out = append(out, cloneCharacter(c))
		}
	}
	return out, nil
}

func (r *stubCharacterRepo) Insert(_ context.Context, c *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	r.insertCalls++
	r.byID[c.ID] = cloneCharacter(c)
	r.order = append(r.order, c.ID)
	return nil
}

func (r *stubCharacterRepo) FindOwned(_ context.Context, id, userID string) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	c, ok := r.owned(id, userID)
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return cloneCharacter(c), nil
}

func (r *stubCharacterRepo) UpdateOwned(_ context.Context, id, userID string, p ports.CharacterPatch) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	c, ok := r.owned(id, userID)
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ClassName != nil {
		c.ClassName = *p.ClassName
	}
	if p.Level != nil {
		c.Level = *p.Level
	}
	if p.HPCurrent != nil {
		c.HPCurrent = *p.HPCurrent
	}
	if p.HPMax != nil {
		c.HPMax = *p.HPMax
	}
	if p.SpellSlots != nil {
		c.SpellSlots = *p.SpellSlots
	}
	if p.SpellsKnown != nil {
		c.SpellsKnown = *p.SpellsKnown
	}
	if p.CharacterData != nil {
		c.CharacterData = p.CharacterData
	}
	c.UpdatedAt = p.UpdatedAt
	return cloneCharacter(c), nil
}

func (r *stubCharacterRepo) DeleteOwned(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	r.deleteCalls++
	if _, ok := r.owned(id, userID); ok {
		delete(r.byID, id)
	}
	return nil
}

func (r *stubCharacterRepo) SetShareToken(_ context.Context, id, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	c, ok := r.owned(id, userID)
	if !ok {
		return domain.ErrCharacterNotFound
	}
	c.ShareToken = &token
	c.TokenExpiresAt = &expiresAt
	return nil
}

func (r *stubCharacterRepo) ClearShareToken(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	if c, ok := r.owned(id, userID); ok {
		c.ShareToken = nil
		c.TokenExpiresAt = nil
	}
	return nil
}

func (r *stubCharacterRepo) FindByShareToken(_ context.Context, token string, now time.Time) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	for _, c := range r.byID {
		if c.ShareToken != nil && *c.ShareToken == token && c.TokenExpiresAt != nil && c.TokenExpiresAt.After(now) {
			return cloneCharacter(c), nil
		}
	}
	return nil, domain.ErrCharacterNotFound
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	alice = &domain.User{ID: "user-alice", Email: "alice@example.com"}
	bob   = &domain.User{ID: "user-bob", Email: "bob@example.com"}
)

func fastExecutor() *recovery.Executor {
	return recovery.NewExecutor(recovery.Options{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   time.Millisecond,
	}, recovery.NewBreaker(50, time.Minute), nil, discardLogger)
}

func newTestCharacterService(repo *stubCharacterRepo) *CharacterService {
	return NewCharacterService(repo, fastExecutor(), 0, discardLogger)
}
