package store

import (
	"database/sql"
	"fmt"

	"github.com/jmreyes/spotify-history-tools/internal/model"
)

// ReplaceAll rebuilds the table wholesale from the given records, in one
// transaction. Rerunning with the same input leaves identical contents.
func (s *Store) ReplaceAll(records []model.PlayRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM StreamingHistory"); err != nil {
		return fmt.Errorf("clearing table: %w", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO StreamingHistory (
	  ts, platform, ms_played, track_name, artist_name, album_name, track_uri,
	  skipped, shuffle, offline, media_type, conn_country, reason_start, reason_end
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			model.FormatTS(r.TS),
			nullable(r.Platform),
			r.MSPlayed,
			nullable(r.TrackName),
			nullable(r.ArtistName),
			nullable(r.AlbumName),
			nullable(r.TrackURI),
			r.Skipped,
			r.Shuffle,
			r.Offline,
			string(r.MediaType),
			nullable(r.ConnCountry),
			nullable(r.ReasonStart),
			nullable(r.ReasonEnd),
		)
		if err != nil {
			return fmt.Errorf("inserting record at %s: %w", model.FormatTS(r.TS), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
