package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

const (
	seedPoolSize = 20
	seedsPerRun  = 8
	historyLimit = 50
)

// History is the slice of the persisted dataset the engine reads.
type History interface {
	TopTrackURIs(limit int) ([]string, error)
	PlayedTrackURIs() (map[string]bool, error)
}

// Engine generates recommendations by resolving the listener's most-played
// tracks to artists and collecting those artists' top tracks.
type Engine struct {
	history History
	catalog Catalog
}

func NewEngine(history History, catalog Catalog) *Engine {
	return &Engine{history: history, catalog: catalog}
}

// Recommend returns up to n tracks. A catalog failure for one seed or one
// artist skips that entry and continues; only a total failure to find any
// seed artist is an error. When excludePlayed is set, tracks already in the
// history are dropped.
func (e *Engine) Recommend(ctx context.Context, n int, excludePlayed bool) ([]Track, error) {
	seeds, err := e.history.TopTrackURIs(historyLimit)
	if err != nil {
		return nil, fmt.Errorf("loading seed tracks: %w", err)
	}

	// Sample seeds from a larger pool so repeat runs vary.
	if len(seeds) > seedPoolSize {
		seeds = seeds[:seedPoolSize]
	}
	rand.Shuffle(len(seeds), func(i, j int) {
		seeds[i], seeds[j] = seeds[j], seeds[i]
	})
	if len(seeds) > seedsPerRun {
		seeds = seeds[:seedsPerRun]
	}

	artistIDs := e.seedArtists(ctx, seeds)
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("could not resolve any artists from %d seed tracks", len(seeds))
	}
	fmt.Printf("Found %d artists from your top tracks\n", len(artistIDs))

	rand.Shuffle(len(artistIDs), func(i, j int) {
		artistIDs[i], artistIDs[j] = artistIDs[j], artistIDs[i]
	})

	var pool []Track
	for _, id := range artistIDs {
		tracks, err := e.catalog.ArtistTopTracks(ctx, id)
		if err != nil {
			// Per-artist failures are skipped; the rest of the run continues.
			continue
		}
		rand.Shuffle(len(tracks), func(i, j int) {
			tracks[i], tracks[j] = tracks[j], tracks[i]
		})
		pool = append(pool, tracks...)
	}

	var played map[string]bool
	if excludePlayed {
		played, err = e.history.PlayedTrackURIs()
		if err != nil {
			return nil, fmt.Errorf("loading play history: %w", err)
		}
	}

	seen := make(map[string]bool)
	var results []Track
	for _, t := range pool {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		if excludePlayed && played[t.URI] {
			continue
		}
		results = append(results, t)
		if len(results) == n {
			break
		}
	}
	return results, nil
}

// seedArtists resolves seed track URIs to the set of their artist IDs.
// Unresolvable seeds are skipped.
func (e *Engine) seedArtists(ctx context.Context, seeds []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, uri := range seeds {
		track, err := e.catalog.Track(ctx, trackID(uri))
		if err != nil {
			continue
		}
		for _, id := range track.ArtistIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// trackID strips the "spotify:track:" prefix from an export URI.
func trackID(uri string) string {
	if i := strings.LastIndex(uri, ":"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
