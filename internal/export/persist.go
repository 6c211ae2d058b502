package export

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/gridiron-analytics/gridrank/internal/fantasy"
	"github.com/gridiron-analytics/gridrank/internal/ledger"
)

// Migrate creates or updates the export tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TrackRow{}, &PredictionErrorRow{}); err != nil {
		return fmt.Errorf("failed to migrate export tables: %w", err)
	}
	return nil
}

// PersistRun writes every ledger's final state plus the prediction-error
// report for one completed replay run.
func PersistRun(db *gorm.DB, runID, league string, ledgers map[string]*ledger.Ledger, report []fantasy.CategoryError) error {
	rows, err := buildRows(runID, league, ledgers)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("failed to persist tracks: %w", err)
			}
		}
		for _, line := range report {
			row := PredictionErrorRow{
				RunID:    runID,
				League:   league,
				Category: line.Category,
				RMSE:     line.RMSE,
				Samples:  line.Samples,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to persist error report: %w", err)
			}
		}
		return nil
	})
}

func buildRows(runID, league string, ledgers map[string]*ledger.Ledger) ([]TrackRow, error) {
	var rows []TrackRow
	for name, l := range ledgers {
		for _, entityID := range l.Entities() {
			composite, _ := l.Composite(entityID, nil)
			for categoryKey, track := range l.Tracks(entityID) {
				row, err := buildRow(runID, league, name, categoryKey, entityID, composite, track)
				if err != nil {
					return nil, err
				}
				rows = append(rows, *row)
			}
		}
	}
	return rows, nil
}

func buildRow(runID, league, ledgerName, categoryKey, entityID string, composite float64, track *ledger.Track) (*TrackRow, error) {
	ratings, err := json.Marshal(track.Ratings)
	if err != nil {
		return nil, fmt.Errorf("marshal ratings for %s/%s: %w", entityID, categoryKey, err)
	}
	dates, err := json.Marshal(track.Dates)
	if err != nil {
		return nil, fmt.Errorf("marshal dates for %s/%s: %w", entityID, categoryKey, err)
	}
	opponents, err := json.Marshal(track.Opponents)
	if err != nil {
		return nil, fmt.Errorf("marshal opponents for %s/%s: %w", entityID, categoryKey, err)
	}

	return &TrackRow{
		RunID:       runID,
		League:      league,
		LedgerName:  ledgerName,
		Category:    categoryKey,
		EntityID:    entityID,
		LastRating:  track.Last,
		GamesPlayed: track.GamesPlayed,
		Wins:        track.Wins,
		Losses:      track.Losses,
		Composite:   composite,
		Ratings:     ratings,
		Dates:       dates,
		Opponents:   opponents,
	}, nil
}
