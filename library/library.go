// Package library keeps the songs on disk: one folder per song holding the
// score, its info.json and anything the engraver renders.
package library

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/file"
	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrNotFound = errors.New("song not found")

type Store interface {
	List() ([]model.Song, error)
	Get(id string) (model.Song, error)
	Save(song model.Song) error
	SetFavorite(id string, favorite bool) error
}

// SortSongs orders favorites first, then by name.
func SortSongs(songs []model.Song) {
	slices.SortFunc(songs, func(a, b model.Song) int {
		if a.Favorite != b.Favorite {
			if a.Favorite {
				return -1
			}
			return 1
		}
		if a.Name != b.Name {
			return strings.Compare(a.Name, b.Name)
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// ScorePath finds the score inside the song's folder.
func ScorePath(song model.Song) (string, error) {
	return file.FindScore(song.Folder)
}

// FileStore reads and writes info.json files under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) folder(id string) string {
	return filepath.Join(s.Dir, id)
}

func (s *FileStore) read(folder string) (model.Song, error) {
	var song model.Song
	dat, err := os.ReadFile(filepath.Join(folder, constants.InfoFilename))
	if err != nil {
		return song, err
	}
	if err := json.Unmarshal(dat, &song); err != nil {
		return song, errors.Wrapf(err, "could not parse info in %s", folder)
	}
	song.Folder = folder
	return song, nil
}

// List skips folders without an info.json.
func (s *FileStore) List() ([]model.Song, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Song{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", s.Dir)
	}

	res := make([]model.Song, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		song, err := s.read(s.folder(entry.Name()))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		res = append(res, song)
	}
	SortSongs(res)
	return res, nil
}

func (s *FileStore) Get(id string) (model.Song, error) {
	if id == "" || filepath.Base(id) != id {
		return model.Song{}, errors.Wrapf(ErrNotFound, "%q", id)
	}
	song, err := s.read(s.folder(id))
	if errors.Is(err, os.ErrNotExist) {
		return song, errors.Wrap(ErrNotFound, id)
	}
	return song, err
}

func (s *FileStore) Save(song model.Song) error {
	folder := s.folder(song.ID)
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrap(err, "could not create song folder")
	}
	dat, err := json.MarshalIndent(song, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode info")
	}
	return errors.Wrap(os.WriteFile(filepath.Join(folder, constants.InfoFilename), dat, 0644), "could not write info")
}

func (s *FileStore) SetFavorite(id string, favorite bool) error {
	song, err := s.Get(id)
	if err != nil {
		return err
	}
	song.Favorite = favorite
	return s.Save(song)
}
