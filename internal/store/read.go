package store

import (
	"database/sql"
	"fmt"

	"github.com/jmreyes/spotify-history-tools/internal/normalize"
)

// SongMetric selects the ranking metric for TopSongs.
type SongMetric string

const (
	ByPlays   SongMetric = "plays"
	ByMinutes SongMetric = "minutes"
)

type ArtistTotal struct {
	Artist  string
	TotalMS int64
	Plays   int64
}

type SongTotal struct {
	Track   string
	Artist  string
	TotalMS int64
	Plays   int64
}

type ShowTotal struct {
	Show     string
	TotalMS  int64
	Episodes int64
}

// ArtistBreakdown is one matching artist from ArtistStats, with the
// per-track ranking for that artist.
type ArtistBreakdown struct {
	Artist  string
	TotalMS int64
	Plays   int64
	Tracks  []SongTotal
}

// yearFilter returns a WHERE fragment restricting rows to the calendar year
// of the stored (UTC) timestamp. nil means all-time.
func yearFilter(year *int) (clause string, args []any) {
	if year == nil {
		return "", nil
	}
	return " AND strftime('%Y', ts) = ?", []any{fmt.Sprintf("%04d", *year)}
}

// TopArtists ranks audio artists by total play time, then play count, then
// name, and returns at most n of them.
func (s *Store) TopArtists(year *int, n int) ([]ArtistTotal, error) {
	clause, args := yearFilter(year)
	query := `
	SELECT artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'audio' AND artist_name IS NOT NULL` + clause + `
	GROUP BY artist_name
	ORDER BY SUM(ms_played) DESC, COUNT(*) DESC, artist_name ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, append(args, n)...)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var results []ArtistTotal
	for rows.Next() {
		var at ArtistTotal
		if err := rows.Scan(&at.Artist, &at.TotalMS, &at.Plays); err != nil {
			return nil, err
		}
		results = append(results, at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return results, nil
}

// TopSongs ranks (artist, track) pairs by the chosen metric.
func (s *Store) TopSongs(year *int, n int, by SongMetric) ([]SongTotal, error) {
	order := "COUNT(*) DESC, SUM(ms_played) DESC"
	if by == ByMinutes {
		order = "SUM(ms_played) DESC, COUNT(*) DESC"
	}
	clause, args := yearFilter(year)
	query := `
	SELECT track_name, artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'audio' AND track_name IS NOT NULL AND track_uri IS NOT NULL` + clause + `
	GROUP BY track_name, artist_name
	ORDER BY ` + order + `, track_name ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, append(args, n)...)
	if err != nil {
		return nil, fmt.Errorf("querying top songs: %w", err)
	}
	defer rows.Close()

	results, err := scanSongTotals(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return results, nil
}

// TopPodcasts ranks shows by total listening time over video/podcast rows.
func (s *Store) TopPodcasts(year *int, n int) ([]ShowTotal, error) {
	clause, args := yearFilter(year)
	query := `
	SELECT artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'video' AND artist_name IS NOT NULL AND track_uri IS NOT NULL` + clause + `
	GROUP BY artist_name
	ORDER BY SUM(ms_played) DESC, COUNT(*) DESC, artist_name ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, append(args, n)...)
	if err != nil {
		return nil, fmt.Errorf("querying top podcasts: %w", err)
	}
	defer rows.Close()

	var results []ShowTotal
	for rows.Next() {
		var st ShowTotal
		if err := rows.Scan(&st.Show, &st.TotalMS, &st.Episodes); err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return results, nil
}

// SongStats finds tracks matching name. exact matches the whole name
// case-insensitively; otherwise any track whose name contains it. A search
// term with multiple matches comes back as multiple entries.
func (s *Store) SongStats(name string, exact bool) ([]SongTotal, error) {
	match := "instr(LOWER(track_name), LOWER(?)) > 0"
	if exact {
		match = "LOWER(track_name) = LOWER(?)"
	}
	query := `
	SELECT track_name, artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'audio' AND track_name IS NOT NULL AND track_uri IS NOT NULL
	AND ` + match + `
	GROUP BY track_name, artist_name
	ORDER BY COUNT(*) DESC, SUM(ms_played) DESC, track_name ASC
	`
	rows, err := s.db.Query(query, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("querying song stats: %w", err)
	}
	defer rows.Close()

	results, err := scanSongTotals(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	return results, nil
}

// ArtistStats finds artists matching name, with the same matching policy as
// SongStats, and ranks each matching artist's tracks by play count.
func (s *Store) ArtistStats(name string, exact bool) ([]ArtistBreakdown, error) {
	match := "instr(LOWER(artist_name), LOWER(?)) > 0"
	if exact {
		match = "LOWER(artist_name) = LOWER(?)"
	}
	query := `
	SELECT artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'audio' AND track_name IS NOT NULL
	AND artist_name IS NOT NULL AND ` + match + `
	GROUP BY artist_name
	ORDER BY SUM(ms_played) DESC, artist_name ASC
	`
	rows, err := s.db.Query(query, normalize.Text(name))
	if err != nil {
		return nil, fmt.Errorf("querying artist stats: %w", err)
	}
	defer rows.Close()

	var results []ArtistBreakdown
	for rows.Next() {
		var ab ArtistBreakdown
		if err := rows.Scan(&ab.Artist, &ab.TotalMS, &ab.Plays); err != nil {
			return nil, err
		}
		results = append(results, ab)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}

	for i := range results {
		tracks, err := s.artistTracks(results[i].Artist)
		if err != nil {
			return nil, err
		}
		results[i].Tracks = tracks
	}
	return results, nil
}

func (s *Store) artistTracks(artist string) ([]SongTotal, error) {
	query := `
	SELECT track_name, artist_name, SUM(ms_played), COUNT(*)
	FROM StreamingHistory
	WHERE media_type = 'audio' AND track_name IS NOT NULL AND artist_name = ?
	GROUP BY track_name
	ORDER BY COUNT(*) DESC, SUM(ms_played) DESC, track_name ASC
	`
	rows, err := s.db.Query(query, artist)
	if err != nil {
		return nil, fmt.Errorf("querying tracks for %q: %w", artist, err)
	}
	defer rows.Close()

	return scanSongTotals(rows)
}

func scanSongTotals(rows *sql.Rows) ([]SongTotal, error) {
	var results []SongTotal
	for rows.Next() {
		var st SongTotal
		var artist sql.NullString
		if err := rows.Scan(&st.Track, &artist, &st.TotalMS, &st.Plays); err != nil {
			return nil, err
		}
		st.Artist = artist.String
		results = append(results, st)
	}
	return results, rows.Err()
}
