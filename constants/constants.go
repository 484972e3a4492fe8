package constants

import (
	"os"
	"path/filepath"
)

func GetDataDir() string {
	path := os.Getenv("PIANOLA_DATA_PATH")
	if path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.music"
	}
	return filepath.Join(home, ".music")
}

func GetConfigPath() string {
	path := os.Getenv("PIANOLA_CONFIG")
	if path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./settings.yml"
	}
	return filepath.Join(dir, "pianola", "settings.yml")
}

// rendering target for page images
const DPI = 200

const DefaultTempo = 100

const DefaultAccompanyVelocity = 0x40

const InfoFilename = "info.json"

const CacheFilename = "song.gob"

const ScoreExtension = ".musicxml"
