package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

// memCharacterRepo is an in-memory ports.CharacterRepository that counts
// calls so tests can assert that no mutation happened.
type memCharacterRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.Character

	failWith    error
	calls       int
	insertCalls int
	updateCalls int
	deleteCalls int
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{rows: make(map[string]*domain.Character)}
}

func (r *memCharacterRepo) enter() error {
	r.calls++
	return r.failWith
}

func (r *memCharacterRepo) owned(id, userID string) *domain.Character {
	c := r.rows[id]
	if c == nil || c.UserID != userID {
		return nil
	}
	return c
}

func copyOf(c *domain.Character) *domain.Character {
	cp := *c
	return &cp
}

func (r *memCharacterRepo) ListByOwner(_ context.Context, userID string) ([]*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	var out []*domain.Character
	for _, c := range r.rows {
		if c.UserID == userID {
			out = append(out, copyOf(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCharacterRepo) Insert(_ context.Context, c *domain.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	r.insertCalls++
	r.rows[c.ID] = copyOf(c)
	return nil
}

func (r *memCharacterRepo) FindOwned(_ context.Context, id, userID string) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	if c := r.owned(id, userID); c != nil {
		return copyOf(c), nil
	}
	return nil, domain.ErrCharacterNotFound
}

func (r *memCharacterRepo) UpdateOwned(_ context.Context, id, userID string, p ports.CharacterPatch) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	c := r.owned(id, userID)
	if c == nil {
		return nil, domain.ErrCharacterNotFound
	}
	r.updateCalls++
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
	return copyOf(c), nil
}

func (r *memCharacterRepo) DeleteOwned(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	r.deleteCalls++
	if r.owned(id, userID) != nil {
		delete(r.rows, id)
	}
	return nil
}

func (r *memCharacterRepo) SetShareToken(_ context.Context, id, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	c := r.owned(id, userID)
	if c == nil {
		return domain.ErrCharacterNotFound
	}
	r.updateCalls++
	c.ShareToken = &token
	c.TokenExpiresAt = &expiresAt
	return nil
}

func (r *memCharacterRepo) ClearShareToken(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return err
	}
	if c := r.owned(id, userID); c != nil {
		r.updateCalls++
		c.ShareToken = nil
		c.TokenExpiresAt = nil
	}
	return nil
}

func (r *memCharacterRepo) FindByShareToken(_ context.Context, token string, now time.Time) (*domain.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enter(); err != nil {
		return nil, err
	}
	for _, c := range r.rows {
		if c.ShareToken != nil && *c.ShareToken == token && c.TokenExpiresAt != nil && c.TokenExpiresAt.After(now) {
			return copyOf(c), nil
		}
	}
	return nil, domain.ErrCharacterNotFound
}

func (r *memCharacterRepo) row(id string) *domain.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.rows[id]; c != nil {
		return copyOf(c)
	}
	return nil
}

func (r *memCharacterRepo) expireShare(id string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[id].TokenExpiresAt = &at
}

func (r *memCharacterRepo) mutations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertCalls + r.updateCalls + r.deleteCalls
}

// tokenAuth resolves fixed bearer tokens to users.
type tokenAuth struct {
	users map[string]*domain.User
}

func (a *tokenAuth) ResolveToken(_ context.Context, token string) (*domain.User, error) {
	if u, ok := a.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthorized
}

func (a *tokenAuth) SignUp(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrInvalidCredentials
}

func (a *tokenAuth) SignIn(context.Context, string, string) (*ports.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (a *tokenAuth) SignOut(context.Context, string) error { return nil }
