// Package web serves a read-only JSON dashboard over the persisted dataset.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmreyes/spotify-history-tools/internal/store"
)

//go:embed static/index.html
var static embed.FS

const defaultTopN = 10

type Server struct {
	store *store.Store
}

func New(st *store.Store) *Server {
	return &Server{store: st}
}

// Router builds the HTTP surface: JSON under /api, the dashboard page at /.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/overview", s.handleOverview)
	r.Get("/api/top-artists", s.handleTopArtists)
	r.Get("/api/top-songs", s.handleTopSongs)
	r.Get("/api/top-podcasts", s.handleTopPodcasts)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.store.Overview()
	if errors.Is(err, store.ErrEmptyResult) {
		writeJSON(w, &store.Overview{PlatformCounts: map[string]int64{}})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, ov)
}

func (s *Server) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	year, n, err := listParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	results, err := s.store.TopArtists(year, n)
	writeList(w, results, err)
}

func (s *Server) handleTopSongs(w http.ResponseWriter, r *http.Request) {
	year, n, err := listParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	by := store.ByPlays
	if r.URL.Query().Get("by") == string(store.ByMinutes) {
		by = store.ByMinutes
	}
	results, err := s.store.TopSongs(year, n, by)
	writeList(w, results, err)
}

func (s *Server) handleTopPodcasts(w http.ResponseWriter, r *http.Request) {
	year, n, err := listParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	results, err := s.store.TopPodcasts(year, n)
	writeList(w, results, err)
}

// listParams parses the shared ?year= and ?n= query parameters.
func listParams(r *http.Request) (year *int, n int, err error) {
	n = defaultTopN
	q := r.URL.Query()

	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, errors.New("year must be an integer")
		}
		year = &y
	}
	if v := q.Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, 0, errors.New("n must be a positive integer")
		}
		n = parsed
	}
	return year, n, nil
}

// writeList renders a query result. An empty result set is an empty JSON
// array with status 200, not an error.
func writeList[T any](w http.ResponseWriter, results []T, err error) {
	if errors.Is(err, store.ErrEmptyResult) {
		writeJSON(w, []T{})
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
