package handler

import (
	"math/rand/v2"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dndvault/character-api/internal/core/dice"
)

// DiceHandler rolls starting ability scores.
type DiceHandler struct {
	seed func() uint64
}

func NewDiceHandler() *DiceHandler {
	return &DiceHandler{seed: rand.Uint64}
}

type abilityScoresResponse struct {
	Scores map[string]int `json:"scores"`
	Rolls  []dice.Roll    `json:"rolls"`
}

// AbilityScores handles GET /dice/ability-scores.
//
// @Summary      Roll ability scores
// @Description  Rolls 4d6 per ability and drops the lowest die.
// @Tags         dice
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  abilityScoresResponse
// @Failure      401  {object}  apierror.Response
// @Router       /dice/ability-scores [get]
func (h *DiceHandler) AbilityScores(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	rolls := dice.NewRoller(h.seed()).AbilityScores()
	scores := make(map[string]int, len(rolls))
	for _, r := range rolls {
		scores[r.Ability] = r.Score
	}
	return c.JSON(http.StatusOK, abilityScoresResponse{Scores: scores, Rolls: rolls})
}
