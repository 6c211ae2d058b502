package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gridiron-analytics/gridrank/internal/api/handlers"
	"github.com/gridiron-analytics/gridrank/internal/category"
	"github.com/gridiron-analytics/gridrank/pkg/config"
	"github.com/gridiron-analytics/gridrank/pkg/database"
)

// SetupRoutes configures all API routes on the given router group. The API is
// read-only: it serves only ledgers persisted by completed replay runs.
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cfg *config.Config, logger *logrus.Logger) error {
	defs, err := category.Catalog(cfg.League)
	if err != nil {
		return err
	}

	ratingsHandler := handlers.NewRatingsHandler(db, logger)
	projectionsHandler := handlers.NewProjectionsHandler(db, defs, logger)

	group.GET("/runs", ratingsHandler.ListRuns)
	group.GET("/leaderboard/:ledger/:category", ratingsHandler.GetLeaderboard)
	group.GET("/tracks/:ledger/:entity", ratingsHandler.GetTrack)
	group.GET("/errors", ratingsHandler.GetErrors)
	group.GET("/projections", projectionsHandler.GetProjection)

	return nil
}
