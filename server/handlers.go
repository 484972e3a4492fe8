package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/player"
	"github.com/pkg/errors"
)

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songs.List()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	var input model.FavoriteRequestBody
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.songs.SetFavorite(id, input.Favorite); err != nil {
		s.writeError(w, r, err)
		return
	}
	song, err := s.songs.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) compile(id string) (*model.SongData, error) {
	song, err := s.songs.Get(id)
	if err != nil {
		return nil, err
	}
	path, err := library.ScorePath(song)
	if err != nil {
		return nil, err
	}
	return s.load(path)
}

func (s *Server) handleSongData(w http.ResponseWriter, r *http.Request) {
	data, err := s.compile(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	data, err := s.compile(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mu.Lock()
	s.player.Load(data)
	s.songID = id
	s.mu.Unlock()
	s.writeState(w)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.player.Play(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.player.Pause()
	s.writeState(w)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.player.Stop()
	s.writeState(w)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var input model.PlayerSettingsRequestBody
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.applySettings(input); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w)
}

func (s *Server) applySettings(input model.PlayerSettingsRequestBody) error {
	switch role := player.Role(input.Role); role {
	case "":
	case player.RoleComputer, player.RoleHuman:
		s.player.SetRole(role)
	default:
		return errors.Wrapf(ErrBadRequest, "unknown role %q", input.Role)
	}
	switch hands := player.Hands(input.Hands); hands {
	case "":
	case player.HandsBoth, player.HandsLeft, player.HandsRight:
		s.player.SetHands(hands)
	default:
		return errors.Wrapf(ErrBadRequest, "unknown hands %q", input.Hands)
	}
	if input.Instrument != nil {
		if err := s.player.SelectInstrument(*input.Instrument); err != nil {
			return err
		}
	}
	if input.Speed != nil {
		if err := s.player.SetSpeed(*input.Speed); err != nil {
			return err
		}
	}
	if input.Position != nil {
		if err := s.player.SetPosition(*input.Position); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	var input model.KeysRequestBody
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, key := range input.Keys {
		if key < 0 || key > 127 {
			s.writeError(w, r, errors.Wrapf(ErrBadRequest, "key %d out of range", key))
			return
		}
	}
	s.player.SetHeldKeys(input.Keys)
	s.writeState(w)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

func (s *Server) handleLoop(w http.ResponseWriter, r *http.Request) {
	var input model.LoopRequestBody
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.player.SetLoop(input.Start, input.End); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w)
}

func (s *Server) writeState(w http.ResponseWriter) {
	state := s.player.State()
	s.mu.Lock()
	id := s.songID
	s.mu.Unlock()

	res := model.PlayerStateResponse{
		SongID:       id,
		Position:     state.Position,
		GroupID:      state.GroupID,
		Playing:      state.Playing,
		RequiredKeys: state.Required,
		PressedKeys:  state.Pressed,
	}
	if res.RequiredKeys == nil {
		res.RequiredKeys = []int{}
	}
	if res.PressedKeys == nil {
		res.PressedKeys = []int{}
	}
	writeJSON(w, http.StatusOK, res)
}
