// Package recommend builds a naive recommendation list from the play
// history: top tracks of artists the listener already plays.
//
// Only non-deprecated catalog endpoints are used (track lookup, artist
// lookup, artist-top-tracks, search). The audio-features, recommendations,
// and related-artists endpoints are deprecated for apps created after
// Nov 27, 2024 and must not be called.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/joho/godotenv"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// ErrMissingCredentials is returned when SPOTIFY_ID or SPOTIFY_SECRET is not
// set. Fatal at startup; the other API errors are per-call and skippable.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET environment variable")

// Track is one catalog track, as much of it as the engine needs.
type Track struct {
	ID          string
	URI         string
	Name        string
	Artists     []string
	ArtistIDs   []string
	Album       string
	Popularity  int
	ExternalURL string
}

// Catalog is the slice of the Spotify Web API the engine consumes. It is an
// interface so the engine can run against a fake in tests.
type Catalog interface {
	Track(ctx context.Context, id string) (*Track, error)
	ArtistTopTracks(ctx context.Context, artistID string) ([]Track, error)
}

// Client is the real Catalog, authenticated with the client-credentials
// flow. All calls go through a shared rate limiter; the Web API's rate limit
// is the binding constraint, not local compute.
type Client struct {
	api     *spotify.Client
	limiter *rate.Limiter
}

// NewClient reads SPOTIFY_ID and SPOTIFY_SECRET from the environment (a
// .env file is honored when present) and authenticates.
func NewClient(ctx context.Context) (*Client, error) {
	godotenv.Load()

	clientID := os.Getenv("SPOTIFY_ID")
	clientSecret := os.Getenv("SPOTIFY_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("authenticating with Spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{
		api:     spotify.New(httpClient),
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}, nil
}

func (c *Client) Track(ctx context.Context, id string) (*Track, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var full *spotify.FullTrack
	err := retry.Do(
		func() error {
			var err error
			full, err = c.api.GetTrack(ctx, spotify.ID(id))
			return err
		},
		retry.RetryIf(isTransient),
		retry.Attempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching track %s: %w", id, err)
	}

	t := convertTrack(*full)
	return &t, nil
}

func (c *Client) ArtistTopTracks(ctx context.Context, artistID string) ([]Track, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var fulls []spotify.FullTrack
	err := retry.Do(
		func() error {
			var err error
			fulls, err = c.api.GetArtistsTopTracks(ctx, spotify.ID(artistID), "US")
			return err
		},
		retry.RetryIf(isTransient),
		retry.Attempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks for artist %s: %w", artistID, err)
	}

	tracks := make([]Track, len(fulls))
	for i, f := range fulls {
		tracks[i] = convertTrack(f)
	}
	return tracks, nil
}

// isTransient retries rate-limit and server-side failures only.
func isTransient(err error) bool {
	var serr spotify.Error
	if errors.As(err, &serr) {
		return serr.Status == 429 || serr.Status/100 == 5
	}
	return false
}

func convertTrack(f spotify.FullTrack) Track {
	artists := make([]string, len(f.Artists))
	artistIDs := make([]string, len(f.Artists))
	for i, a := range f.Artists {
		artists[i] = a.Name
		artistIDs[i] = a.ID.String()
	}
	return Track{
		ID:          f.ID.String(),
		URI:         string(f.URI),
		Name:        f.Name,
		Artists:     artists,
		ArtistIDs:   artistIDs,
		Album:       f.Album.Name,
		Popularity:  int(f.Popularity),
		ExternalURL: f.ExternalURLs["spotify"],
	}
}
