package file

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/pianola/constants"
	"github.com/pkg/errors"
)

var ErrNoScore = errors.New("no score in folder")

func isScore(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == constants.ScoreExtension || ext == ".xml"
}

// FindScore returns the first MusicXML file in folder, by name.
func FindScore(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %s", folder)
	}
	for _, entry := range entries {
		if !entry.IsDir() && isScore(entry.Name()) {
			return filepath.Join(folder, entry.Name()), nil
		}
	}
	return "", errors.Wrap(ErrNoScore, folder)
}

func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "could not open source")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "could not create destination")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "could not copy %s", src)
	}
	return out.Close()
}
