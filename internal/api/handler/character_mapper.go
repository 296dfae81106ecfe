package handler

import (
	"github.com/dndvault/character-api/internal/core/domain"
	"github.com/dndvault/character-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createCharacterRequest) ports.CreateCharacterInput {
	return ports.CreateCharacterInput{
		Name:          req.Name,
		ClassName:     req.ClassName,
		Level:         req.Level,
		HPCurrent:     req.HPCurrent,
		HPMax:         req.HPMax,
		SpellSlots:    req.SpellSlots,
		SpellsKnown:   req.SpellsKnown,
		CharacterData: req.CharacterData,
	}
}

func toPatch(req updateCharacterRequest) ports.CharacterPatch {
	return ports.CharacterPatch{
		Name:          req.Name,
		ClassName:     req.ClassName,
		Level:         req.Level,
		HPCurrent:     req.HPCurrent,
		HPMax:         req.HPMax,
		SpellSlots:    req.SpellSlots,
		SpellsKnown:   req.SpellsKnown,
		CharacterData: req.CharacterData,
	}
}

// --- Service result → HTTP response ---

func toCharacterResponse(c *domain.Character) characterResponse {
	c.Normalize()
	resp := characterResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		Name:           c.Name,
		ClassName:      c.ClassName,
		Level:          c.Level,
		HPCurrent:      c.HPCurrent,
		HPMax:          c.HPMax,
		SpellSlots:     c.SpellSlots,
		SpellsKnown:    c.SpellsKnown,
		CharacterData:  c.CharacterData,
		ShareToken:     c.ShareToken,
		TokenExpiresAt: c.TokenExpiresAt,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
	if resp.TokenExpiresAt != nil {
		t := resp.TokenExpiresAt.UTC()
		resp.TokenExpiresAt = &t
	}
	return resp
}

func toListResponse(chars []*domain.Character) []characterResponse {
	out := make([]characterResponse, len(chars))
	for i, c := range chars {
		out[i] = toCharacterResponse(c)
	}
	return out
}

func toSharedResponse(s *domain.SharedCharacter) sharedCharacterResponse {
	resp := sharedCharacterResponse{
		ID:            s.ID,
		Name:          s.Name,
		ClassName:     s.ClassName,
		Level:         s.Level,
		HPCurrent:     s.HPCurrent,
		HPMax:         s.HPMax,
		SpellSlots:    s.SpellSlots,
		SpellsKnown:   s.SpellsKnown,
		CharacterData: s.CharacterData,
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
	if resp.SpellSlots == nil {
		resp.SpellSlots = domain.SpellSlots{}
	}
	if resp.SpellsKnown == nil {
		resp.SpellsKnown = []domain.KnownSpell{}
	}
	return resp
}
