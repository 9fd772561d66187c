package dedupe

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jmreyes/spotify-history-tools/internal/model"
)

func ptr(s string) *string {
	return &s
}

func record(ts string, uri *string, ms int64) model.PlayRecord {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return model.PlayRecord{
		TS:        parsed,
		TrackURI:  uri,
		MSPlayed:  ms,
		MediaType: model.MediaAudio,
	}
}

func TestDeduplicateRemovesExactDuplicates(t *testing.T) {
	records := []model.PlayRecord{
		record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000),
		record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000),
		record("2024-01-01T11:00:00Z", ptr("spotify:track:a"), 1000),
	}

	unique, removed := Deduplicate(records)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(unique) != 2 {
		t.Errorf("len(unique) = %d, want 2", len(unique))
	}
}

func TestDeduplicateFirstWins(t *testing.T) {
	first := record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000)
	first.Platform = ptr("ios")
	second := record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000)
	second.Platform = ptr("android")

	unique, removed := Deduplicate([]model.PlayRecord{first, second})
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if *unique[0].Platform != "ios" {
		t.Errorf("surviving platform = %q, want ios (first occurrence)", *unique[0].Platform)
	}
}

func TestDeduplicateFallsBackToTextKey(t *testing.T) {
	a := record("2024-01-01T10:00:00Z", nil, 1000)
	a.ArtistName = ptr("Artist")
	a.TrackName = ptr("Track")
	b := record("2024-01-01T10:00:00Z", nil, 1000)
	b.ArtistName = ptr("Artist")
	b.TrackName = ptr("Track")
	c := record("2024-01-01T10:00:00Z", nil, 1000)
	c.ArtistName = ptr("Other Artist")
	c.TrackName = ptr("Track")

	unique, removed := Deduplicate([]model.PlayRecord{a, b, c})
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if len(unique) != 2 {
		t.Errorf("len(unique) = %d, want 2", len(unique))
	}
}

func TestDeduplicateNoIdentifyingFields(t *testing.T) {
	// Records with no URI and no text fields collapse when timestamp and
	// duration match. That false-merge risk is accepted.
	a := record("2024-01-01T10:00:00Z", nil, 1000)
	b := record("2024-01-01T10:00:00Z", nil, 1000)

	unique, removed := Deduplicate([]model.PlayRecord{a, b})
	if removed != 1 || len(unique) != 1 {
		t.Errorf("got %d unique, %d removed, want 1 and 1", len(unique), removed)
	}
}

func TestDeduplicateOrderIndependent(t *testing.T) {
	var records []model.PlayRecord
	for i := 0; i < 20; i++ {
		uri := ptr("spotify:track:a")
		if i%3 == 0 {
			uri = ptr("spotify:track:b")
		}
		records = append(records, record(
			time.Date(2024, 1, 1, 10, i%7, 0, 0, time.UTC).Format(time.RFC3339),
			uri, int64(1000*(i%5))))
	}

	unique, _ := Deduplicate(records)
	baseline := identitySet(unique)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]model.PlayRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := identitySet(mustDedupe(shuffled))
		if len(got) != len(baseline) {
			t.Fatalf("trial %d: %d identities, want %d", trial, len(got), len(baseline))
		}
		for id := range baseline {
			if !got[id] {
				t.Errorf("trial %d: missing identity %+v", trial, id)
			}
		}
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	records := []model.PlayRecord{
		record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000),
		record("2024-01-01T10:00:00Z", ptr("spotify:track:a"), 1000),
		record("2024-01-01T11:00:00Z", ptr("spotify:track:b"), 2000),
	}

	once, _ := Deduplicate(records)
	twice, removed := Deduplicate(once)
	if removed != 0 {
		t.Errorf("second pass removed %d, want 0", removed)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass length %d, want %d", len(twice), len(once))
	}
}

func mustDedupe(records []model.PlayRecord) []model.PlayRecord {
	unique, _ := Deduplicate(records)
	return unique
}

func identitySet(records []model.PlayRecord) map[model.Identity]bool {
	set := make(map[model.Identity]bool, len(records))
	for i := range records {
		set[records[i].Identity()] = true
	}
	return set
}
