// Package server exposes the song library and the player over HTTP for the
// desktop shell. The on-screen keyboard reports held keys through it too.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/player"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

var ErrBadRequest = errors.New("bad request")

// Loader turns a score path into a compiled song.
type Loader func(scorePath string) (*model.SongData, error)

type Server struct {
	songs  library.Store
	player *player.Player
	load   Loader
	logger *log.Logger

	mu     sync.Mutex
	songID string
}

func New(songs library.Store, p *player.Player, load Loader) *Server {
	return &Server{
		songs:  songs,
		player: p,
		load:   load,
		logger: log.Default().WithPrefix("server"),
	}
}

func (s *Server) Router() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", s.handleListSongs).Methods("GET")
	router.HandleFunc("/songs/{id}/favorite", s.handleFavorite).Methods("PUT")
	router.HandleFunc("/songs/{id}/data", s.handleSongData).Methods("GET")
	router.HandleFunc("/player/load/{id}", s.handleLoad).Methods("POST")
	router.HandleFunc("/player/play", s.handlePlay).Methods("POST")
	router.HandleFunc("/player/pause", s.handlePause).Methods("POST")
	router.HandleFunc("/player/stop", s.handleStop).Methods("POST")
	router.HandleFunc("/player/settings", s.handleSettings).Methods("PUT")
	router.HandleFunc("/player/keys", s.handleKeys).Methods("PUT")
	router.HandleFunc("/player/state", s.handleState).Methods("GET")
	router.HandleFunc("/player/loop", s.handleLoop).Methods("PUT")

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
	}).Handler(router)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, player.ErrNoSong),
		errors.Is(err, player.ErrNoInstrument):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, player.ErrInstrument),
		errors.Is(err, player.ErrPosition),
		errors.Is(err, player.ErrLoop),
		errors.Is(err, player.ErrSpeed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(ErrBadRequest, "could not decode request body: %v", err)
	}
	return nil
}
