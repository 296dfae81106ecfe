package ports

import (
	"context"
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
)

// CharacterPatch lists the fields an owner may change. Nil means "leave as is".
// Identity and creation fields are deliberately absent.
type CharacterPatch struct {
	Name          *string
	ClassName     *string
	Level         *int
	HPCurrent     *int
	HPMax         *int
	SpellSlots    *domain.SpellSlots
	SpellsKnown   *[]domain.KnownSpell
	CharacterData map[string]any
	UpdatedAt     time.Time
}

// CharacterRepository is the table-oriented store behind the characters
// endpoints. Every owner operation filters by (id, user_id); a row owned by
// someone else is reported as domain.ErrCharacterNotFound.
type CharacterRepository interface {
	// ListByOwner returns the owner's characters, newest first.
	ListByOwner(ctx context.Context, userID string) ([]*domain.Character, error)
	Insert(ctx context.Context, c *domain.Character) error
	FindOwned(ctx context.Context, id, userID string) (*domain.Character, error)
	// UpdateOwned applies patch and returns the row as stored afterwards.
	UpdateOwned(ctx context.Context, id, userID string, patch CharacterPatch) (*domain.Character, error)
	DeleteOwned(ctx context.Context, id, userID string) error

	// SetShareToken overwrites any existing token.
	SetShareToken(ctx context.Context, id, userID, token string, expiresAt time.Time) error
	// ClearShareToken nulls both token fields; it succeeds even when nothing matched.
	ClearShareToken(ctx context.Context, id, userID string) error
	// FindByShareToken matches token AND token_expires_at > now in one query.
	FindByShareToken(ctx context.Context, token string, now time.Time) (*domain.Character, error)
}
