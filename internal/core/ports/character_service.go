package ports

import (
	"context"
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
)

// CreateCharacterInput is the validated create payload. Zero-valued
// numeric fields take their defaults (level 1, hp 1/1).
type CreateCharacterInput struct {
	Name          string
	ClassName     string
	Level         int
	HPCurrent     int
	HPMax         int
	SpellSlots    domain.SpellSlots
	SpellsKnown   []domain.KnownSpell
	CharacterData map[string]any
}

// ShareGrant is returned when a share token is issued.
type ShareGrant struct {
	Token     string
	ExpiresAt time.Time
}

// CharacterService defines the use cases behind the characters endpoints.
// The caller identity is always the authenticated user, never request data.
type CharacterService interface {
	List(ctx context.Context, owner *domain.User) ([]*domain.Character, error)
	Create(ctx context.Context, owner *domain.User, input CreateCharacterInput) (*domain.Character, error)
	Get(ctx context.Context, owner *domain.User, id string) (*domain.Character, error)
	Update(ctx context.Context, owner *domain.User, id string, patch CharacterPatch) (*domain.Character, error)
	Delete(ctx context.Context, owner *domain.User, id string) error

	IssueShareToken(ctx context.Context, owner *domain.User, id string) (*ShareGrant, error)
	RevokeShareToken(ctx context.Context, owner *domain.User, id string) error
	ResolveShareToken(ctx context.Context, token string) (*domain.SharedCharacter, error)
}
