package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gridiron-analytics/gridrank/internal/export"
	"github.com/gridiron-analytics/gridrank/pkg/database"
	"github.com/gridiron-analytics/gridrank/pkg/utils"
)

// RatingsHandler serves persisted replay output. Only completed runs reach
// the database, so everything here is immutable reads.
type RatingsHandler struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewRatingsHandler(db *database.DB, logger *logrus.Logger) *RatingsHandler {
	return &RatingsHandler{db: db, logger: logger}
}

// RunSummary describes one persisted replay run.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	League    string    `json:"league"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRuns returns persisted replay runs, newest first.
func (h *RatingsHandler) ListRuns(c *gin.Context) {
	var runs []RunSummary
	err := h.db.Model(&export.TrackRow{}).
		Select("run_id, league, MAX(created_at) as created_at").
		Group("run_id, league").
		Order("created_at DESC").
		Limit(50).
		Scan(&runs).Error
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		utils.SendInternalError(c, "failed to list runs")
		return
	}
	utils.SendSuccess(c, runs)
}

// GetLeaderboard returns the top entities for one ledger/category by final
// rating.
func (h *RatingsHandler) GetLeaderboard(c *gin.Context) {
	ledgerName := c.Param("ledger")
	categoryKey := c.Param("category")

	limit := 25
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			utils.SendValidationError(c, "invalid limit", "limit must be an integer in [1, 500]")
			return
		}
		limit = parsed
	}

	runID, ok := h.resolveRun(c)
	if !ok {
		return
	}

	var rows []export.TrackRow
	err := h.db.
		Where("run_id = ? AND ledger_name = ? AND category = ?", runID, ledgerName, categoryKey).
		Order("last_rating DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		h.logger.WithError(err).Error("Failed to query leaderboard")
		utils.SendInternalError(c, "failed to query leaderboard")
		return
	}
	if len(rows) == 0 {
		utils.SendNotFound(c, "no tracks for that ledger/category")
		return
	}
	utils.SendSuccess(c, rows)
}

// GetTrack returns an entity's full rating history across categories in one
// ledger.
func (h *RatingsHandler) GetTrack(c *gin.Context) {
	ledgerName := c.Param("ledger")
	entityID := c.Param("entity")

	runID, ok := h.resolveRun(c)
	if !ok {
		return
	}

	query := h.db.Where("run_id = ? AND ledger_name = ? AND entity_id = ?", runID, ledgerName, entityID)
	if categoryKey := c.Query("category"); categoryKey != "" {
		query = query.Where("category = ?", categoryKey)
	}

	var rows []export.TrackRow
	if err := query.Find(&rows).Error; err != nil {
		h.logger.WithError(err).Error("Failed to query track")
		utils.SendInternalError(c, "failed to query track")
		return
	}
	if len(rows) == 0 {
		utils.SendNotFound(c, "entity not tracked")
		return
	}
	utils.SendSuccess(c, rows)
}

// GetErrors returns the prediction-error report for a run.
func (h *RatingsHandler) GetErrors(c *gin.Context) {
	runID, ok := h.resolveRun(c)
	if !ok {
		return
	}

	var rows []export.PredictionErrorRow
	if err := h.db.Where("run_id = ?", runID).Order("category").Find(&rows).Error; err != nil {
		h.logger.WithError(err).Error("Failed to query error report")
		utils.SendInternalError(c, "failed to query error report")
		return
	}
	utils.SendSuccess(c, rows)
}

// resolveRun picks the run from the query string or defaults to the latest
// persisted run. Sends the error response itself on failure.
func (h *RatingsHandler) resolveRun(c *gin.Context) (string, bool) {
	if runID := c.Query("run_id"); runID != "" {
		return runID, true
	}

	var row export.TrackRow
	err := h.db.Order("created_at DESC").Limit(1).Find(&row).Error
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve latest run")
		utils.SendInternalError(c, "failed to resolve latest run")
		return "", false
	}
	if row.RunID == "" {
		utils.SendNotFound(c, "no replay runs persisted yet")
		return "", false
	}
	return row.RunID, true
}
