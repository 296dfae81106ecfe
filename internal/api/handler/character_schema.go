package handler

import (
	"time"

	"github.com/dndvault/character-api/internal/core/domain"
)

// successResponse is returned by mutations that have nothing else to report.
type successResponse struct {
	Success bool `json:"success"`
}

// --- Request types ---

type createCharacterRequest struct {
	Name          string              `json:"name"           validate:"required"`
	ClassName     string              `json:"class_name"     validate:"required"`
	Level         int                 `json:"level"`
	HPCurrent     int                 `json:"hp_current"`
	HPMax         int                 `json:"hp_max"`
	SpellSlots    domain.SpellSlots   `json:"spell_slots"`
	SpellsKnown   []domain.KnownSpell `json:"spells_known"`
	CharacterData map[string]any      `json:"character_data"`
}

// updateCharacterRequest only carries patchable fields. id, user_id,
// created_at and the share token fields are dropped on decode.
type updateCharacterRequest struct {
	Name          *string              `json:"name"`
	ClassName     *string              `json:"class_name"`
	Level         *int                 `json:"level"`
	HPCurrent     *int                 `json:"hp_current"`
	HPMax         *int                 `json:"hp_max"`
	SpellSlots    *domain.SpellSlots   `json:"spell_slots"`
	SpellsKnown   *[]domain.KnownSpell `json:"spells_known"`
	CharacterData map[string]any       `json:"character_data"`
}

// --- Response types ---
// Response-only types owned by the transport layer, so the JSON contract is
// not coupled to storage tags on the domain model.

type characterResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	Name           string              `json:"name"`
	ClassName      string              `json:"class_name"`
	Level          int                 `json:"level"`
	HPCurrent      int                 `json:"hp_current"`
	HPMax          int                 `json:"hp_max"`
	SpellSlots     domain.SpellSlots   `json:"spell_slots"`
	SpellsKnown    []domain.KnownSpell `json:"spells_known"`
	CharacterData  map[string]any      `json:"character_data,omitempty"`
	ShareToken     *string             `json:"share_token"`
	TokenExpiresAt *time.Time          `json:"token_expires_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// sharedCharacterResponse is the public projection. It has no owner or
// token fields at all.
type sharedCharacterResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	ClassName     string              `json:"class_name"`
	Level         int                 `json:"level"`
	HPCurrent     int                 `json:"hp_current"`
	HPMax         int                 `json:"hp_max"`
	SpellSlots    domain.SpellSlots   `json:"spell_slots"`
	SpellsKnown   []domain.KnownSpell `json:"spells_known"`
	CharacterData map[string]any      `json:"character_data,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type shareTokenResponse struct {
	ShareToken string    `json:"share_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}
