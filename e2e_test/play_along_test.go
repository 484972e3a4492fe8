//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsphweid/pianola/cache"
	"github.com/jsphweid/pianola/cmd"
	"github.com/jsphweid/pianola/library"
	"github.com/jsphweid/pianola/midi"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/player"
	"github.com/jsphweid/pianola/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dataDir    string
	configPath string
	songID     string
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pianola-e2e")
	if err != nil {
		panic(err.Error())
	}
	dataDir = filepath.Join(dir, "music")
	configPath = filepath.Join(dir, "settings.yml")
	os.Setenv("PIANOLA_DATA_PATH", dataDir)

	var out bytes.Buffer
	args := []string{"import", "--no-engrave", "../song/testdata/repeats.musicxml", "--config", configPath}
	if err := cmd.Run(args, &out); err != nil {
		panic(err.Error())
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	songID = strings.Fields(lines[len(lines)-1])[0]

	exitVal := m.Run()

	os.RemoveAll(dir)
	os.Exit(exitVal)
}

// events is a thread safe player.Output for the real clock.
type events struct {
	mu  sync.Mutex
	ons []string
}

func (e *events) NoteOn(pitch int, velocity int, instrument model.Instrument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ons = append(e.ons, fmt.Sprintf("%s:%d", instrument.ID, pitch))
}

func (e *events) NoteOff(pitch int, instrument model.Instrument) {}
func (e *events) Sustain(on bool)                                 {}
func (e *events) Reset()                                          {}

func (e *events) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ons)
}

func request(t *testing.T, h http.Handler, method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestComputerPlaysTheWholeScore(t *testing.T) {
	assert := assert.New(t)
	out := &events{}
	p := player.New(out)
	h := server.New(library.NewFileStore(dataDir), p, cache.LoadOrCompile).Router()

	var state model.PlayerStateResponse
	require.Equal(t, 200, request(t, h, "POST", "/player/load/"+songID, nil, &state))
	speed := 0.01
	require.Equal(t, 200, request(t, h, "PUT", "/player/settings", model.PlayerSettingsRequestBody{Speed: &speed}, &state))
	require.Equal(t, 200, request(t, h, "POST", "/player/play", nil, &state))
	assert.True(state.Playing)

	assert.Eventually(func() bool {
		request(t, h, "GET", "/player/state", nil, &state)
		return !state.Playing
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(0, state.Position)
	assert.NotZero(out.count())
}

func TestHumanDrivesTheRightHand(t *testing.T) {
	assert := assert.New(t)
	p := player.New(&events{})
	h := server.New(library.NewFileStore(dataDir), p, cache.LoadOrCompile).Router()

	var data model.SongData
	require.Equal(t, 200, request(t, h, "GET", "/songs/"+songID+"/data", nil, &data))

	var state model.PlayerStateResponse
	require.Equal(t, 200, request(t, h, "POST", "/player/load/"+songID, nil, &state))
	instrument := 0
	speed := 0.01
	require.Equal(t, 200, request(t, h, "PUT", "/player/settings", model.PlayerSettingsRequestBody{
		Instrument: &instrument, Role: "human", Hands: "right", Speed: &speed,
	}, &state))
	require.Equal(t, 200, request(t, h, "POST", "/player/play", nil, &state))

	// strike whatever is required, then let go, until the song ends
	for steps := 0; state.Playing && steps < 4*len(data.GroupOrder); steps++ {
		if len(state.RequiredKeys) > 0 {
			request(t, h, "PUT", "/player/keys", model.KeysRequestBody{Keys: state.RequiredKeys}, &state)
			request(t, h, "PUT", "/player/keys", model.KeysRequestBody{Keys: []int{}}, &state)
		}
		time.Sleep(50 * time.Millisecond)
		request(t, h, "GET", "/player/state", nil, &state)
	}
	assert.False(state.Playing)
}

func TestExportReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repeats.mid")
	score, err := library.ScorePath(model.Song{Folder: filepath.Join(dataDir, songID)})
	require.NoError(t, err)
	require.NoError(t, cmd.Run([]string{"export", score, path, "--config", configPath}, io.Discard))

	s, err := midi.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 2)

}
