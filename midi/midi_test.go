package midi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/song"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestOutputChannelsAndSustain(t *testing.T) {
	assert := assert.New(t)
	var sent []gomidi.Message
	out := NewOutput(func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return nil
	})

	piano := model.Instrument{ID: "P1", Index: 0}
	bass := model.Instrument{ID: "P2", Index: 17}

	out.Sustain(true)
	out.NoteOn(60, 100, piano)
	out.NoteOn(36, 80, bass)
	out.NoteOff(60, piano)
	out.Sustain(false)

	assert.Equal([]gomidi.Message{
		gomidi.ControlChange(0, holdPedal, pedalDown),
		gomidi.NoteOn(0, 60, 100),
		gomidi.NoteOn(1, 36, 80),
		gomidi.NoteOff(0, 60),
		gomidi.ControlChange(0, holdPedal, pedalUp),
		gomidi.ControlChange(1, holdPedal, pedalUp),
	}, sent)
}

func TestOutputResetAndSendErrors(t *testing.T) {
	var sent []gomidi.Message
	out := NewOutput(func(msg gomidi.Message) error {
		sent = append(sent, msg)
		return errors.New("port closed")
	})

	out.NoteOn(60, 64, model.Instrument{Index: 2})
	out.Reset()

	assert.Equal(t, []gomidi.Message{
		gomidi.NoteOn(2, 60, 64),
		gomidi.ControlChange(2, allNotesOff, 0),
		gomidi.ControlChange(2, resetAll, 0),
	}, sent)
}

type keyLog struct {
	down []int
	up   []int
}

func (k *keyLog) KeyDown(key int, velocity int) {
	k.down = append(k.down, key)
}

func (k *keyLog) KeyUp(key int) {
	k.up = append(k.up, key)
}

func TestDispatch(t *testing.T) {
	assert := assert.New(t)
	keys := &keyLog{}

	assert.True(Dispatch(gomidi.NoteOn(0, 60, 90), keys))
	assert.True(Dispatch(gomidi.NoteOff(0, 60), keys))
	// running status style release
	assert.True(Dispatch(gomidi.NoteOn(0, 62, 0), keys))
	assert.False(Dispatch(gomidi.ControlChange(0, holdPedal, pedalDown), keys))

	assert.Equal([]int{60}, keys.down)
	assert.Equal([]int{60, 62}, keys.up)
}

func TestExportTwoNotes(t *testing.T) {
	assert := assert.New(t)
	data, err := song.Load("../song/testdata/two_notes.musicxml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "two_notes.mid")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Export(data, 64, f))
	require.NoError(t, f.Close())

	s, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, s.Tracks, 2)

	var bpm float64
	assert.True(s.Tracks[0][0].Message.GetMetaTempo(&bpm))
	assert.InDelta(120, bpm, 0.001)

	type note struct {
		tick uint64
		key  uint8
		on   bool
	}
	var notes []note
	var tick uint64
	for _, ev := range s.Tracks[1] {
		tick += uint64(ev.Delta)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			notes = append(notes, note{tick, key, true})
		case ev.Message.GetNoteEnd(&ch, &key):
			notes = append(notes, note{tick, key, false})
		}
	}
	assert.Equal([]note{
		{0, 60, true},
		{960, 60, false},
		{960, 62, true},
		{1920, 62, false},
	}, notes)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}
