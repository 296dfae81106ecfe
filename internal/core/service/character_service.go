package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
	"github.com/dndvault/character-api/internal/core/recovery"
)

// DefaultShareTTL is how long an issued share token stays valid.
const DefaultShareTTL = 30 * 24 * time.Hour

// CharacterService runs every repository call through the recovery
// executor and scopes every owner operation by the caller's user id.
type CharacterService struct {
	repo     ports.CharacterRepository
	exec     *recovery.Executor
	shareTTL time.Duration
	now      func() time.Time
	newID    func() string
	newToken func() string
	log      zerolog.Logger
}

func NewCharacterService(repo ports.CharacterRepository, exec *recovery.Executor, shareTTL time.Duration, log zerolog.Logger) *CharacterService {
	if shareTTL <= 0 {
		shareTTL = DefaultShareTTL
	}
	return &CharacterService{
		repo:     repo,
		exec:     exec,
		shareTTL: shareTTL,
		now:      time.Now,
		newID:    uuid.NewString,
		newToken: uuid.NewString,
		log:      log,
	}
}

func (s *CharacterService) List(ctx context.Context, owner *domain.User) ([]*domain.Character, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	chars, err := recovery.Do(ctx, s.exec, func(ctx context.Context) ([]*domain.Character, error) {
		return s.repo.ListByOwner(ctx, owner.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	if chars == nil {
		chars = []*domain.Character{}
	}
	for _, c := range chars {
		c.Normalize()
	}
	return chars, nil
}

func (s *CharacterService) Create(ctx context.Context, owner *domain.User, in ports.CreateCharacterInput) (*domain.Character, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	className := strings.TrimSpace(in.ClassName)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidCharacter)
	}
	if className == "" {
		return nil, fmt.Errorf("%w: class_name is required", domain.ErrInvalidCharacter)
	}

	now := s.now().UTC()
	c := &domain.Character{
		ID:            s.newID(),
		UserID:        owner.ID,
		Name:          name,
		ClassName:     className,
		Level:         orDefault(in.Level, 1),
		HPCurrent:     orDefault(in.HPCurrent, 1),
		HPMax:         orDefault(in.HPMax, 1),
		SpellSlots:    in.SpellSlots,
		SpellsKnown:   in.SpellsKnown,
		CharacterData: in.CharacterData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	c.Normalize()

	// Last line before the write: the row must belong to the caller.
	if c.UserID == "" || c.UserID != owner.ID {
		return nil, fmt.Errorf("%w: owner mismatch", domain.ErrUnauthorized)
	}

	if err := s.exec.Run(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, c)
	}); err != nil {
		s.log.Error().Err(err).Str("user_id", owner.ID).Msg("failed to create character")
		return nil, fmt.Errorf("create character: %w", err)
	}

	s.log.Info().Str("character_id", c.ID).Str("user_id", owner.ID).Msg("character created")
	return c, nil
}

func (s *CharacterService) Get(ctx context.Context, owner *domain.User, id string) (*domain.Character, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	c, err := s.findOwned(ctx, id, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("get character: %w", err)
	}
	return c, nil
}

// Update applies patch as-is; hit points and levels are not range-checked
// because the client owns those rules.
func (s *CharacterService) Update(ctx context.Context, owner *domain.User, id string, patch ports.CharacterPatch) (*domain.Character, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	patch.UpdatedAt = s.now().UTC()

	c, err := recovery.Do(ctx, s.exec, func(ctx context.Context) (*domain.Character, error) {
		return s.repo.UpdateOwned(ctx, id, owner.ID, patch)
	})
	if err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}
	c.Normalize()
	return c, nil
}

// Delete verifies the row exists under the caller before deleting it, so
// deleting a missing or foreign character is a 404 rather than a silent no-op.
func (s *CharacterService) Delete(ctx context.Context, owner *domain.User, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if _, err := s.findOwned(ctx, id, owner.ID); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}

	if err := s.exec.Run(ctx, func(ctx context.Context) error {
		return s.repo.DeleteOwned(ctx, id, owner.ID)
	}); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}

	s.log.Info().Str("character_id", id).Str("user_id", owner.ID).Msg("character deleted")
	return nil
}

// IssueShareToken replaces any previous token with a fresh one.
func (s *CharacterService) IssueShareToken(ctx context.Context, owner *domain.User, id string) (*ports.ShareGrant, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	grant := &ports.ShareGrant{
		Token:     s.newToken(),
		ExpiresAt: s.now().UTC().Add(s.shareTTL),
	}

	if err := s.exec.Run(ctx, func(ctx context.Context) error {
		return s.repo.SetShareToken(ctx, id, owner.ID, grant.Token, grant.ExpiresAt)
	}); err != nil {
		return nil, fmt.Errorf("issue share token: %w", err)
	}

	s.log.Info().Str("character_id", id).Time("expires_at", grant.ExpiresAt).Msg("share token issued")
	return grant, nil
}

// RevokeShareToken nulls the token fields whether or not a token was set.
func (s *CharacterService) RevokeShareToken(ctx context.Context, owner *domain.User, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.exec.Run(ctx, func(ctx context.Context) error {
		return s.repo.ClearShareToken(ctx, id, owner.ID)
	}); err != nil {
		return fmt.Errorf("revoke share token: %w", err)
	}
	return nil
}

// ResolveShareToken returns the public view of the character behind token.
// Expired and unknown tokens both yield domain.ErrCharacterNotFound.
func (s *CharacterService) ResolveShareToken(ctx context.Context, token string) (*domain.SharedCharacter, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, domain.ErrInvalidShareToken
	}
	now := s.now().UTC()

	c, err := recovery.Do(ctx, s.exec, func(ctx context.Context) (*domain.Character, error) {
		return s.repo.FindByShareToken(ctx, token, now)
	})
	if err != nil {
		return nil, fmt.Errorf("resolve share token: %w", err)
	}
	c.Normalize()
	return c.Shared(), nil
}

func (s *CharacterService) findOwned(ctx context.Context, id, userID string) (*domain.Character, error) {
	c, err := recovery.Do(ctx, s.exec, func(ctx context.Context) (*domain.Character, error) {
		return s.repo.FindOwned(ctx, id, userID)
	})
	if err != nil {
		return nil, err
	}
	c.Normalize()
	return c, nil
}

func requireOwner(owner *domain.User) error {
	if owner == nil || owner.ID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
