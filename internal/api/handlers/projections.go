package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gridiron-analytics/gridrank/internal/category"
	"github.com/gridiron-analytics/gridrank/internal/export"
	"github.com/gridiron-analytics/gridrank/internal/fantasy"
	"github.com/gridiron-analytics/gridrank/pkg/database"
	"github.com/gridiron-analytics/gridrank/pkg/utils"
)

// ProjectionsHandler derives fantasy point predictions for a player against a
// given opposing team from persisted ratings.
type ProjectionsHandler struct {
	db        *database.DB
	defs      []category.Definition
	projector *fantasy.Projector
	logger    *logrus.Logger
}

func NewProjectionsHandler(db *database.DB, defs []category.Definition, logger *logrus.Logger) *ProjectionsHandler {
	return &ProjectionsHandler{
		db:        db,
		defs:      defs,
		projector: fantasy.NewProjector(defs),
		logger:    logger,
	}
}

// ProjectionResponse is the predicted stat line plus every scoring system's
// point total.
type ProjectionResponse struct {
	Player   string                     `json:"player"`
	Opponent string                     `json:"opponent"`
	Line     fantasy.StatLine           `json:"line"`
	Scores   map[fantasy.System]float64 `json:"scores"`
}

// GetProjection handles GET /projections?player=X&opponent=Y[&run_id=Z].
func (h *ProjectionsHandler) GetProjection(c *gin.Context) {
	playerID := c.Query("player")
	opponent := c.Query("opponent")
	if playerID == "" || opponent == "" {
		utils.SendValidationError(c, "missing parameters", "player and opponent are required")
		return
	}

	runID := c.Query("run_id")

	// Player ratings across all player ledgers, keyed by category.
	var playerRows []export.TrackRow
	if err := h.playerRows(runID, playerID, &playerRows); err != nil {
		h.logger.WithError(err).Error("Failed to query player ratings")
		utils.SendInternalError(c, "failed to query player ratings")
		return
	}
	if len(playerRows) == 0 {
		utils.SendNotFound(c, "player not tracked")
		return
	}

	var teamRows []export.TrackRow
	if err := h.teamRows(runID, opponent, &teamRows); err != nil {
		h.logger.WithError(err).Error("Failed to query team ratings")
		utils.SendInternalError(c, "failed to query team ratings")
		return
	}
	if len(teamRows) == 0 {
		utils.SendNotFound(c, "opponent not tracked")
		return
	}

	ratings := make(map[string]int, len(playerRows))
	for _, row := range playerRows {
		ratings[row.Category] = row.LastRating
	}
	teamByCategory := make(map[string]int, len(teamRows))
	for _, row := range teamRows {
		teamByCategory[row.Category] = row.LastRating
	}

	// Each player category is judged against a specific opposing team track.
	oppRatings := make(map[string]int)
	for _, def := range h.defs {
		if r, ok := teamByCategory[def.OppTrack]; ok {
			oppRatings[def.Key] = r
		}
	}

	line := h.projector.Line(ratings, oppRatings)
	utils.SendSuccess(c, ProjectionResponse{
		Player:   playerID,
		Opponent: opponent,
		Line:     line,
		Scores:   h.projector.Scores(line),
	})
}

func (h *ProjectionsHandler) playerRows(runID, playerID string, dest *[]export.TrackRow) error {
	query := h.db.Where("entity_id = ? AND ledger_name <> ?", playerID, string(category.GroupTeam))
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	return query.Find(dest).Error
}

func (h *ProjectionsHandler) teamRows(runID, team string, dest *[]export.TrackRow) error {
	query := h.db.Where("entity_id = ? AND ledger_name = ?", team, string(category.GroupTeam))
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	return query.Find(dest).Error
}
