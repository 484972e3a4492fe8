package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/player"
	"github.com/jsphweid/pianola/song"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silent struct{}

func (silent) NoteOn(pitch int, velocity int, instrument model.Instrument) {}
func (silent) NoteOff(pitch int, instrument model.Instrument)              {}
func (silent) Sustain(on bool)                                             {}
func (silent) Reset()                                                      {}

// idleClock never fires, so the player only moves on key presses.
type idleClock struct{}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func (idleClock) AfterFunc(d time.Duration, f func()) player.Timer {
	return idleTimer{}
}

func setup(t *testing.T) (http.Handler, model.Song) {
	store := library.NewFileStore(t.TempDir())
	imported, err := library.Import(context.Background(), "../song/testdata/two_notes.musicxml", store.Dir, store, nil)
	require.NoError(t, err)

	p := player.New(silent{}, player.WithClock(idleClock{}))
	return New(store, p, song.Load).Router(), imported
}

func do(t *testing.T, h http.Handler, method, path, body string, out any) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func TestSongs(t *testing.T) {
	assert := assert.New(t)
	h, imported := setup(t)

	var songs []model.Song
	assert.Equal(200, do(t, h, "GET", "/songs", "", &songs))
	require.Len(t, songs, 1)
	assert.Equal("Two Notes", songs[0].Name)
	assert.Empty(songs[0].Folder)

	var song model.Song
	assert.Equal(200, do(t, h, "PUT", "/songs/"+imported.ID+"/favorite", `{"favorite": true}`, &song))
	assert.True(song.Favorite)

	var errRes model.ErrorResponse
	assert.Equal(404, do(t, h, "PUT", "/songs/nope/favorite", `{"favorite": true}`, &errRes))
	assert.Contains(errRes.Error, "not found")

	assert.Equal(400, do(t, h, "PUT", "/songs/"+imported.ID+"/favorite", `{`, &errRes))

	var data model.SongData
	assert.Equal(200, do(t, h, "GET", "/songs/"+imported.ID+"/data", "", &data))
	assert.Equal([]int{0, 1}, data.GroupOrder)
	assert.Equal(60, data.Groups[0].Instruments[0].Staves[0].Notes[0].NoteNumber)

	assert.Equal(404, do(t, h, "GET", "/songs/nope/data", "", &errRes))
}

func TestPlayerSession(t *testing.T) {
	assert := assert.New(t)
	h, imported := setup(t)

	var errRes model.ErrorResponse
	assert.Equal(409, do(t, h, "POST", "/player/play", "", &errRes))
	assert.Equal("no song loaded", errRes.Error)

	var state model.PlayerStateResponse
	assert.Equal(200, do(t, h, "POST", "/player/load/"+imported.ID, "", &state))
	assert.Equal(imported.ID, state.SongID)
	assert.False(state.Playing)
	assert.Equal(0, state.GroupID)

	assert.Equal(200, do(t, h, "PUT", "/player/settings", `{"role": "human"}`, &state))
	assert.Equal(409, do(t, h, "POST", "/player/play", "", &errRes))

	assert.Equal(400, do(t, h, "PUT", "/player/settings", `{"role": "bogus"}`, &errRes))
	assert.Equal(400, do(t, h, "PUT", "/player/settings", `{"hands": "three"}`, &errRes))
	assert.Equal(400, do(t, h, "PUT", "/player/settings", `{"speed": 0}`, &errRes))
	assert.Equal(400, do(t, h, "PUT", "/player/settings", `{"instrument": 4}`, &errRes))
	assert.Equal(200, do(t, h, "PUT", "/player/settings", `{"instrument": 0, "hands": "right", "speed": 1.5}`, &state))

	assert.Equal(200, do(t, h, "POST", "/player/play", "", &state))
	assert.True(state.Playing)
	assert.Equal([]int{60}, state.RequiredKeys)
	assert.Equal([]int{}, state.PressedKeys)

	assert.Equal(400, do(t, h, "PUT", "/player/keys", `{"keys": [200]}`, &errRes))
	assert.Equal(200, do(t, h, "PUT", "/player/keys", `{"keys": [60]}`, &state))
	assert.Equal(1, state.Position)
	assert.Equal(1, state.GroupID)

	assert.Equal(400, do(t, h, "PUT", "/player/loop", `{"start": {"position": 1}, "end": {"position": 0}}`, &errRes))
	assert.Equal(400, do(t, h, "PUT", "/player/loop", `{"end": {"position": 9}}`, &errRes))
	assert.Equal(200, do(t, h, "PUT", "/player/loop", `{"start": {"groupId": 1, "position": 1}}`, &state))

	assert.Equal(200, do(t, h, "POST", "/player/pause", "", &state))
	assert.False(state.Playing)
	assert.Equal(1, state.Position)

	assert.Equal(200, do(t, h, "POST", "/player/stop", "", &state))
	assert.Equal(1, state.Position)

	assert.Equal(200, do(t, h, "GET", "/player/state", "", &state))
	assert.Equal(imported.ID, state.SongID)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := setup(t)
	req := httptest.NewRequest(http.MethodOptions, "/player/keys", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
