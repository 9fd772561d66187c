package store

import (
	"database/sql"
	"fmt"
)

// Overview summarizes the whole dataset, for the dashboard and the ingest
// summary print.
type Overview struct {
	TotalRows      int64
	TotalMS        int64
	FirstTS        string
	LastTS         string
	AudioRows      int64
	VideoRows      int64
	PlatformCounts map[string]int64
}

func (s *Store) Overview() (*Overview, error) {
	ov := &Overview{PlatformCounts: map[string]int64{}}

	row := s.db.QueryRow(`
	SELECT COUNT(*), COALESCE(SUM(ms_played), 0), COALESCE(MIN(ts), ''), COALESCE(MAX(ts), '')
	FROM StreamingHistory
	`)
	if err := row.Scan(&ov.TotalRows, &ov.TotalMS, &ov.FirstTS, &ov.LastTS); err != nil {
		return nil, fmt.Errorf("querying overview: %w", err)
	}
	if ov.TotalRows == 0 {
		return nil, ErrEmptyResult
	}

	row = s.db.QueryRow("SELECT COUNT(*) FROM StreamingHistory WHERE media_type = 'audio'")
	if err := row.Scan(&ov.AudioRows); err != nil {
		return nil, err
	}
	ov.VideoRows = ov.TotalRows - ov.AudioRows

	rows, err := s.db.Query(`
	SELECT COALESCE(platform, ''), COUNT(*)
	FROM StreamingHistory
	GROUP BY platform
	ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying platforms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var platform string
		var count int64
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, err
		}
		ov.PlatformCounts[platform] = count
	}
	return ov, rows.Err()
}

// TopTrackURIs returns the most-played track URIs, used as recommendation
// seeds.
func (s *Store) TopTrackURIs(limit int) ([]string, error) {
	rows, err := s.db.Query(`
	SELECT track_uri
	FROM StreamingHistory
	WHERE media_type = 'audio' AND track_uri IS NOT NULL
	GROUP BY track_uri
	ORDER BY COUNT(*) DESC, SUM(ms_played) DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top track URIs: %w", err)
	}
	defer rows.Close()

	var uris []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		uris = append(uris, uri)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(uris) == 0 {
		return nil, ErrEmptyResult
	}
	return uris, nil
}

// PlayedTrackURIs returns the set of every track URI in the history.
func (s *Store) PlayedTrackURIs() (map[string]bool, error) {
	rows, err := s.db.Query(`
	SELECT DISTINCT track_uri
	FROM StreamingHistory
	WHERE track_uri IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("querying played URIs: %w", err)
	}
	defer rows.Close()

	played := make(map[string]bool)
	for rows.Next() {
		var uri sql.NullString
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		if uri.Valid {
			played[uri.String] = true
		}
	}
	return played, rows.Err()
}
