package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrCharacterNotFound = errors.New("character not found")
var ErrInvalidCharacter = errors.New("invalid character")
var ErrInvalidShareToken = errors.New("invalid share token format")

// ErrInvalidSpellSlot is returned when a slot entry is not a [current, maximum] pair.
var ErrInvalidSpellSlot = fmt.Errorf("%w: spell slot must be a [current, maximum] pair", ErrInvalidCharacter)

// SlotUsage is a [current, maximum] pair for one spell level.
type SlotUsage [2]int

// UnmarshalJSON rejects arrays that are not exactly two integers long;
// the default array decoding would drop extras or zero-fill missing values.
func (s *SlotUsage) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpellSlot, err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: got %d values", ErrInvalidSpellSlot, len(pair))
	}
	*s = SlotUsage{pair[0], pair[1]}
	return nil
}

// SpellSlots maps a spell level ("1".."9") to its slot usage.
type SpellSlots map[string]SlotUsage

// KnownSpell is a spell the character can cast.
type KnownSpell struct {
	Name  string `json:"name" bson:"name"`
	Level int    `json:"level" bson:"level"`
}

// Character is the aggregate root. Every read and write is scoped by
// (ID, UserID); nothing outside the repository looks a character up by ID alone.
type Character struct {
	ID        string `json:"id" bson:"_id"`
	UserID    string `json:"user_id" bson:"user_id"`
	Name      string `json:"name" bson:"name"`
	ClassName string `json:"class_name" bson:"class_name"`
	Level     int    `json:"level" bson:"level"`
	HPCurrent int    `json:"hp_current" bson:"hp_current"`
	HPMax     int    `json:"hp_max" bson:"hp_max"`

	SpellSlots  SpellSlots   `json:"spell_slots" bson:"spell_slots"`
	SpellsKnown []KnownSpell `json:"spells_known" bson:"spells_known"`

	// CharacterData holds race, background, alignment, ability scores and
	// anything else the client wants to keep. It is stored as-is.
	CharacterData map[string]any `json:"character_data,omitempty" bson:"character_data,omitempty"`

	ShareToken     *string    `json:"share_token" bson:"share_token"`
	TokenExpiresAt *time.Time `json:"token_expires_at" bson:"token_expires_at"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// SharedCharacter is the read-only view handed out through a share token.
// It never carries the owner id or the token itself.
type SharedCharacter struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	ClassName     string         `json:"class_name"`
	Level         int            `json:"level"`
	HPCurrent     int            `json:"hp_current"`
	HPMax         int            `json:"hp_max"`
	SpellSlots    SpellSlots     `json:"spell_slots"`
	SpellsKnown   []KnownSpell   `json:"spells_known"`
	CharacterData map[string]any `json:"character_data,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Shared projects c into its public view.
func (c *Character) Shared() *SharedCharacter {
	return &SharedCharacter{
		ID:            c.ID,
		Name:          c.Name,
		ClassName:     c.ClassName,
		Level:         c.Level,
		HPCurrent:     c.HPCurrent,
		HPMax:         c.HPMax,
		SpellSlots:    c.SpellSlots,
		SpellsKnown:   c.SpellsKnown,
		CharacterData: c.CharacterData,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// Normalize replaces nil collections with empty ones so they serialize as
// {} and [] rather than null.
func (c *Character) Normalize() {
	if c.SpellSlots == nil {
		c.SpellSlots = SpellSlots{}
	}
	if c.SpellsKnown == nil {
		c.SpellsKnown = []KnownSpell{}
	}
}
