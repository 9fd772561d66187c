package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmreyes/spotify-history-tools/internal/model"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "spotify_history.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func ptr(s string) *string {
	return &s
}

func play(ts string, artist, track string, ms int64) model.PlayRecord {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	uri := "spotify:track:" + track
	return model.PlayRecord{
		TS:         parsed,
		MSPlayed:   ms,
		ArtistName: ptr(artist),
		TrackName:  ptr(track),
		TrackURI:   ptr(uri),
		MediaType:  model.MediaAudio,
	}
}

func episode(ts string, show, name string, ms int64) model.PlayRecord {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	uri := "spotify:episode:" + name
	return model.PlayRecord{
		TS:         parsed,
		MSPlayed:   ms,
		ArtistName: ptr(show),
		TrackName:  ptr(name),
		TrackURI:   ptr(uri),
		MediaType:  model.MediaVideo,
	}
}

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := createTestDb(t)

	records := []model.PlayRecord{
		// Artist A: 3 plays, 9000ms total, all in 2024
		play("2024-01-01T10:00:00Z", "Artist A", "Song One", 3000),
		play("2024-02-01T10:00:00Z", "Artist A", "Song One", 3000),
		play("2024-03-01T10:00:00Z", "Artist A", "Song Two", 3000),
		// Artist B: 2 plays, 10000ms total, split across years
		play("2023-06-01T10:00:00Z", "Artist B", "Ballad", 6000),
		play("2024-06-01T10:00:00Z", "Artist B", "Ballad", 4000),
		// Artist C: 1 play, 500ms
		play("2023-01-01T10:00:00Z", "Artist C", "Bloom", 500),
		// Podcasts
		episode("2024-01-05T08:00:00Z", "Morning Show", "Ep 1", 1800000),
		episode("2024-01-06T08:00:00Z", "Morning Show", "Ep 2", 1200000),
		episode("2024-01-07T08:00:00Z", "Night Show", "Ep 1", 600000),
	}

	if err := s.ReplaceAll(records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	return s
}

func TestOpenMissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	_, err := Open(dbPath)
	if !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Open() error = %v, want ErrNoDatabase", err)
	}
}

func TestTopArtistsAllTime(t *testing.T) {
	s := seedStore(t)

	results, err := s.TopArtists(nil, 5)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d artists, want 3", len(results))
	}
	// B has the most total time (10000ms), A second (9000ms), C last.
	want := []string{"Artist B", "Artist A", "Artist C"}
	for i, name := range want {
		if results[i].Artist != name {
			t.Errorf("rank %d = %q, want %q", i+1, results[i].Artist, name)
		}
	}

	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.Artist] {
			t.Errorf("duplicate artist %q in results", r.Artist)
		}
		seen[r.Artist] = true
	}
}

func TestTopArtistsLimit(t *testing.T) {
	s := seedStore(t)

	results, err := s.TopArtists(nil, 2)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d artists, want 2", len(results))
	}
}

func TestTopArtistsYearFilter(t *testing.T) {
	s := seedStore(t)

	year := 2024
	results, err := s.TopArtists(&year, 10)
	if err != nil {
		t.Fatalf("TopArtists(2024): %v", err)
	}

	// In 2024: A has 9000ms, B has 4000ms; C played only in 2023.
	if len(results) != 2 {
		t.Fatalf("got %d artists for 2024, want 2", len(results))
	}
	if results[0].Artist != "Artist A" || results[1].Artist != "Artist B" {
		t.Errorf("2024 ranking = %q, %q; want Artist A, Artist B", results[0].Artist, results[1].Artist)
	}
}

func TestTopArtistsTieBreak(t *testing.T) {
	s := createTestDb(t)
	records := []model.PlayRecord{
		// Same total time; Zeta has more plays; Alpha and Mid tie fully,
		// alphabetical order decides.
		play("2024-01-01T10:00:00Z", "Zeta", "One", 1000),
		play("2024-01-02T10:00:00Z", "Zeta", "Two", 1000),
		play("2024-01-03T10:00:00Z", "Mid", "Solo", 2000),
		play("2024-01-04T10:00:00Z", "Alpha", "Solo", 2000),
	}
	if err := s.ReplaceAll(records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	results, err := s.TopArtists(nil, 10)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	want := []string{"Zeta", "Alpha", "Mid"}
	for i, name := range want {
		if results[i].Artist != name {
			t.Errorf("rank %d = %q, want %q", i+1, results[i].Artist, name)
		}
	}
}

func TestTopSongsByPlaysAndMinutes(t *testing.T) {
	s := seedStore(t)

	byPlays, err := s.TopSongs(nil, 10, ByPlays)
	if err != nil {
		t.Fatalf("TopSongs(plays): %v", err)
	}
	// Song One: 2 plays. Ballad: 2 plays but more ms. Song Two / Bloom: 1.
	if byPlays[0].Track != "Ballad" {
		t.Errorf("top by plays = %q, want Ballad (tie broken by time)", byPlays[0].Track)
	}

	byMinutes, err := s.TopSongs(nil, 10, ByMinutes)
	if err != nil {
		t.Fatalf("TopSongs(minutes): %v", err)
	}
	if byMinutes[0].Track != "Ballad" || byMinutes[0].TotalMS != 10000 {
		t.Errorf("top by minutes = %q (%d ms), want Ballad (10000 ms)",
			byMinutes[0].Track, byMinutes[0].TotalMS)
	}
}

func TestTopPodcasts(t *testing.T) {
	s := seedStore(t)

	results, err := s.TopPodcasts(nil, 10)
	if err != nil {
		t.Fatalf("TopPodcasts: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d shows, want 2", len(results))
	}
	if results[0].Show != "Morning Show" || results[0].Episodes != 2 {
		t.Errorf("top show = %q (%d episodes), want Morning Show (2)",
			results[0].Show, results[0].Episodes)
	}
	// Audio rows must not leak into the podcast ranking.
	for _, r := range results {
		if r.Show == "Artist A" || r.Show == "Artist B" {
			t.Errorf("audio artist %q leaked into podcast results", r.Show)
		}
	}
}

func TestSongStatsSubstring(t *testing.T) {
	s := seedStore(t)

	results, err := s.SongStats("bloom", false)
	if err != nil {
		t.Fatalf("SongStats: %v", err)
	}
	if len(results) != 1 || results[0].Track != "Bloom" {
		t.Fatalf("results = %+v, want one match for Bloom", results)
	}
	if results[0].Plays != 1 || results[0].TotalMS != 500 {
		t.Errorf("Bloom stats = %d plays, %d ms; want 1, 500", results[0].Plays, results[0].TotalMS)
	}
}

func TestSongStatsExact(t *testing.T) {
	s := createTestDb(t)
	records := []model.PlayRecord{
		play("2024-01-01T10:00:00Z", "Artist", "Bloom", 1000),
		play("2024-01-02T10:00:00Z", "Artist", "Bloom Again", 1000),
	}
	if err := s.ReplaceAll(records); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	exact, err := s.SongStats("bloom", true)
	if err != nil {
		t.Fatalf("SongStats(exact): %v", err)
	}
	if len(exact) != 1 || exact[0].Track != "Bloom" {
		t.Errorf("exact match = %+v, want only Bloom", exact)
	}

	loose, err := s.SongStats("bloom", false)
	if err != nil {
		t.Fatalf("SongStats(substring): %v", err)
	}
	if len(loose) != 2 {
		t.Errorf("substring match found %d songs, want 2", len(loose))
	}
}

func TestSongStatsNoMatch(t *testing.T) {
	s := seedStore(t)

	_, err := s.SongStats("does not exist", false)
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("SongStats() error = %v, want ErrEmptyResult", err)
	}
}

func TestArtistStatsBreakdown(t *testing.T) {
	s := seedStore(t)

	results, err := s.ArtistStats("artist a", true)
	if err != nil {
		t.Fatalf("ArtistStats: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d artists, want 1", len(results))
	}

	ab := results[0]
	if ab.Plays != 3 || ab.TotalMS != 9000 {
		t.Errorf("totals = %d plays, %d ms; want 3, 9000", ab.Plays, ab.TotalMS)
	}
	if len(ab.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(ab.Tracks))
	}
	if ab.Tracks[0].Track != "Song One" || ab.Tracks[0].Plays != 2 {
		t.Errorf("top track = %q (%d plays), want Song One (2)",
			ab.Tracks[0].Track, ab.Tracks[0].Plays)
	}
}

func TestArtistStatsMultiMatch(t *testing.T) {
	s := seedStore(t)

	results, err := s.ArtistStats("artist", false)
	if err != nil {
		t.Fatalf("ArtistStats: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("got %d artists for substring 'artist', want 3", len(results))
	}
}

func TestQueriesOnEmptyDataset(t *testing.T) {
	s := createTestDb(t)

	if _, err := s.TopArtists(nil, 5); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("TopArtists error = %v, want ErrEmptyResult", err)
	}
	if _, err := s.TopSongs(nil, 5, ByPlays); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("TopSongs error = %v, want ErrEmptyResult", err)
	}
	if _, err := s.TopPodcasts(nil, 5); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("TopPodcasts error = %v, want ErrEmptyResult", err)
	}
	if _, err := s.SongStats("x", false); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("SongStats error = %v, want ErrEmptyResult", err)
	}
	if _, err := s.ArtistStats("x", false); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("ArtistStats error = %v, want ErrEmptyResult", err)
	}
	if _, err := s.Overview(); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("Overview error = %v, want ErrEmptyResult", err)
	}
}

func TestReplaceAllRebuildsWholesale(t *testing.T) {
	s := createTestDb(t)

	first := []model.PlayRecord{play("2024-01-01T10:00:00Z", "Artist A", "One", 1000)}
	if err := s.ReplaceAll(first); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	second := []model.PlayRecord{play("2024-01-02T10:00:00Z", "Artist B", "Two", 2000)}
	if err := s.ReplaceAll(second); err != nil {
		t.Fatalf("ReplaceAll (second): %v", err)
	}

	results, err := s.TopArtists(nil, 10)
	if err != nil {
		t.Fatalf("TopArtists: %v", err)
	}
	if len(results) != 1 || results[0].Artist != "Artist B" {
		t.Errorf("after rewrite got %+v, want only Artist B", results)
	}
}

func TestOverviewAndSeeds(t *testing.T) {
	s := seedStore(t)

	ov, err := s.Overview()
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.TotalRows != 9 {
		t.Errorf("TotalRows = %d, want 9", ov.TotalRows)
	}
	if ov.AudioRows != 6 || ov.VideoRows != 3 {
		t.Errorf("rows = %d audio / %d video, want 6 / 3", ov.AudioRows, ov.VideoRows)
	}

	uris, err := s.TopTrackURIs(2)
	if err != nil {
		t.Fatalf("TopTrackURIs: %v", err)
	}
	if len(uris) != 2 {
		t.Fatalf("got %d seed URIs, want 2", len(uris))
	}

	played, err := s.PlayedTrackURIs()
	if err != nil {
		t.Fatalf("PlayedTrackURIs: %v", err)
	}
	if !played["spotify:track:Bloom"] {
		t.Error("PlayedTrackURIs missing spotify:track:Bloom")
	}
}
