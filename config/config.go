package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/constants"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Dynamo struct {
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region"`
}

type Settings struct {
	DataPath          string  `yaml:"data_path"`
	MidiIn            string  `yaml:"midi_in,omitempty"`
	MidiOut           string  `yaml:"midi_out,omitempty"`
	AccompanyVelocity int     `yaml:"accompany_velocity"`
	UseUserVelocity   bool    `yaml:"use_user_velocity"`
	Speed             float64 `yaml:"speed"`
	Hands             string  `yaml:"hands"`
	Role              string  `yaml:"role"`
	Addr              string  `yaml:"addr"`
	Dynamo            *Dynamo `yaml:"dynamo,omitempty"`
	Engraver          string  `yaml:"engraver,omitempty"`
}

func Default() Settings {
	return Settings{
		DataPath:          constants.GetDataDir(),
		AccompanyVelocity: constants.DefaultAccompanyVelocity,
		Speed:             1,
		Hands:             "both",
		Role:              "computer",
		Addr:              ":8080",
	}
}

// Load reads settings from path, falling back to defaults for a missing file
// and for fields the file leaves out. PIANOLA_DATA_PATH wins over the file.
func Load(path string) (Settings, error) {
	res := Default()
	dat, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return res, errors.Wrap(err, "could not read settings")
	}
	if err := yaml.Unmarshal(dat, &res); err != nil {
		return res, errors.Wrapf(err, "could not parse %s", path)
	}
	if env := os.Getenv("PIANOLA_DATA_PATH"); env != "" {
		res.DataPath = env
	}
	if res.Speed <= 0 {
		res.Speed = 1
	}
	return res, nil
}

func Save(path string, s Settings) error {
	dat, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "could not encode settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "could not create settings dir")
	}
	return errors.Wrap(os.WriteFile(path, dat, 0644), "could not write settings")
}

// Saver coalesces bursts of setting changes into one write.
type Saver struct {
	path     string
	debounce func(f func())

	mu     sync.Mutex
	latest *Settings
}

func NewSaver(path string, after time.Duration) *Saver {
	return &Saver{path: path, debounce: debounce.New(after)}
}

func (s *Saver) Save(settings Settings) {
	s.mu.Lock()
	s.latest = &settings
	s.mu.Unlock()
	s.debounce(func() {
		if err := s.Flush(); err != nil {
			log.Error("saving settings", "path", s.path, "err", err)
		}
	})
}

// Flush writes any pending settings now.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil
	}
	err := Save(s.path, *s.latest)
	s.latest = nil
	return err
}
