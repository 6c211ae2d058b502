package export

import (
	"encoding/json"
	"io"

	"github.com/gridiron-analytics/gridrank/internal/ledger"
)

// PlayerMeta is external player metadata joined into the JSON export by a
// cross-reference identifier. Produced by out-of-scope collaborators.
type PlayerMeta struct {
	Name       string `json:"name"`
	Team       string `json:"team"`
	Position   string `json:"position"`
	CrossRefID string `json:"xref_id"`
}

// PositionGroupEntry merges one entity's ratings with its metadata.
type PositionGroupEntry struct {
	EntityID  string         `json:"entity_id"`
	Meta      *PlayerMeta    `json:"meta,omitempty"`
	Composite float64        `json:"composite"`
	Ratings   map[string]int `json:"ratings"`
	Games     int            `json:"games_played"`
}

// WritePositionGroupJSON serializes one ledger's final ratings merged with
// player metadata, one entry per entity, ordered by entity ID.
func WritePositionGroupJSON(w io.Writer, l *ledger.Ledger, meta map[string]PlayerMeta) error {
	entries := make([]PositionGroupEntry, 0, l.Len())
	for _, entityID := range l.Entities() {
		composite, _ := l.Composite(entityID, nil)
		ratings := make(map[string]int)
		games := 0
		for key, track := range l.Tracks(entityID) {
			ratings[key] = track.Last
			if track.GamesPlayed > games {
				games = track.GamesPlayed
			}
		}
		entry := PositionGroupEntry{
			EntityID:  entityID,
			Composite: composite,
			Ratings:   ratings,
			Games:     games,
		}
		if m, ok := meta[entityID]; ok {
			entry.Meta = &m
		}
		entries = append(entries, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// LoadPlayerMeta decodes a metadata file keyed by entity ID.
func LoadPlayerMeta(r io.Reader) (map[string]PlayerMeta, error) {
	var meta map[string]PlayerMeta
	if err := json.NewDecoder(r).Decode(&meta); err != nil {
		return nil, err
	}
	return meta, nil
}
