package export

import (
	"time"

	"gorm.io/datatypes"
)

// TrackRow persists one entity's full rating history for one category. Rows
// are written only after a replay completes; no in-progress ledger state ever
// reaches the database.
type TrackRow struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RunID      string `gorm:"index;not null" json:"run_id"`
	League     string `gorm:"not null" json:"league"`
	LedgerName string `gorm:"index;not null" json:"ledger"`
	Category   string `gorm:"index;not null" json:"category"`
	EntityID   string `gorm:"index;not null" json:"entity_id"`

	LastRating  int     `gorm:"not null" json:"last_rating"`
	GamesPlayed int     `gorm:"not null" json:"games_played"`
	Wins        int     `gorm:"not null" json:"wins"`
	Losses      int     `gorm:"not null" json:"losses"`
	Composite   float64 `json:"composite"`

	// Full aligned history as JSON columns.
	Ratings   datatypes.JSON `json:"ratings"`
	Dates     datatypes.JSON `json:"dates"`
	Opponents datatypes.JSON `json:"opponents"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (TrackRow) TableName() string {
	return "rating_tracks"
}

// PredictionErrorRow persists one line of the end-of-replay RMSE report.
type PredictionErrorRow struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	RunID    string  `gorm:"index;not null" json:"run_id"`
	League   string  `gorm:"not null" json:"league"`
	Category string  `gorm:"index;not null" json:"category"`
	RMSE     float64 `json:"rmse"`
	Samples  int     `json:"samples"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (PredictionErrorRow) TableName() string {
	return "prediction_errors"
}
