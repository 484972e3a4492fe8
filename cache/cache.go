// Package cache keeps a compiled copy of each score beside it so reopening an
// unchanged song skips the compiler.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/song"
	"github.com/jsphweid/pianola/util"
	"github.com/jsphweid/pianola/xmldoc"
	"github.com/pkg/errors"
)

// Version changes whenever compiled output changes, so older caches miss.
const Version = 2

type entry struct {
	Version int
	Hash    string
	Data    model.SongData
}

func Path(scorePath string) string {
	return filepath.Join(filepath.Dir(scorePath), constants.CacheFilename)
}

func hash(dat []byte) string {
	sum := sha256.Sum256(dat)
	return hex.EncodeToString(sum[:])
}

// LoadOrCompile returns the cached SongData when the score bytes still hash
// the same under the current Version, and compiles and caches it otherwise.
// A cache that can't be read or written only costs a recompile.
func LoadOrCompile(scorePath string) (*model.SongData, error) {
	dat, err := os.ReadFile(scorePath)
	if err != nil {
		return nil, errors.Wrap(err, "could not read score")
	}
	sum := hash(dat)
	cachePath := Path(scorePath)

	cached, err := util.ReadBinary[entry](cachePath)
	if err == nil && cached.Version == Version && cached.Hash == sum {
		log.Debug("cache hit", "path", cachePath)
		return &cached.Data, nil
	}

	doc, err := xmldoc.Parse(dat)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", scorePath)
	}
	data, err := song.Compile(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not compile %s", scorePath)
	}

	if err := util.CreateBinary(cachePath, entry{Version: Version, Hash: sum, Data: *data}); err != nil {
		log.Warn("could not cache compiled song", "path", cachePath, "err", err)
	}
	return data, nil
}
