package library

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/file"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/xmldoc"
	"github.com/pkg/errors"
)

// Engraver renders page images for a score into its song folder.
type Engraver interface {
	Engrave(ctx context.Context, scorePath string, folder string) error
}

// CommandEngraver runs an external program with the score path appended to
// its arguments, from inside the song folder.
type CommandEngraver struct {
	Command string
}

func (e CommandEngraver) Engrave(ctx context.Context, scorePath string, folder string) error {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return errors.New("empty engraver command")
	}
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], scorePath)...)
	cmd.Dir = folder
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "engraver failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// ReadInfo pulls the title and composer out of a score, if it has them.
func ReadInfo(doc *xmldoc.Document) (name string, author string) {
	if title := xmldoc.Optional(doc.Root, "work/work-title"); title != nil {
		name = strings.TrimSpace(title.Text())
	}
	if name == "" {
		if title := xmldoc.Optional(doc.Root, "movement-title"); title != nil {
			name = strings.TrimSpace(title.Text())
		}
	}
	if creator := xmldoc.Optional(doc.Root, "identification/creator[@type='composer']"); creator != nil {
		author = strings.TrimSpace(creator.Text())
	}
	return name, author
}

// Import copies src into a new folder under dataDir, engraves it when an
// engraver is given and records it in store. A failed import leaves no
// folder behind.
func Import(ctx context.Context, src string, dataDir string, store Store, engraver Engraver) (model.Song, error) {
	doc, err := xmldoc.Open(src)
	if err != nil {
		return model.Song{}, errors.Wrapf(err, "could not import %s", src)
	}

	song := model.Song{ID: uuid.New().String()}
	song.Name, song.Author = ReadInfo(doc)
	if song.Name == "" {
		song.Name = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	song.Folder = filepath.Join(dataDir, song.ID)

	if err := os.MkdirAll(song.Folder, 0755); err != nil {
		return song, errors.Wrap(err, "could not create song folder")
	}
	fail := func(err error) (model.Song, error) {
		os.RemoveAll(song.Folder)
		return song, err
	}

	scorePath := filepath.Join(song.Folder, "score"+constants.ScoreExtension)
	if err := file.Copy(src, scorePath); err != nil {
		return fail(err)
	}
	if engraver != nil {
		log.Info("engraving", "song", song.Name)
		if err := engraver.Engrave(ctx, scorePath, song.Folder); err != nil {
			return fail(err)
		}
	}
	if err := store.Save(song); err != nil {
		return fail(err)
	}
	log.Info("imported", "id", song.ID, "name", song.Name)
	return song, nil
}
