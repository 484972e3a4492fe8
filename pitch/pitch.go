// Package pitch turns a written pitch into a note number, 0 being C in octave -1.
package pitch

import (
	"strconv"

	"github.com/pkg/errors"
)

var ErrUnknownStep = errors.New("unknown pitch step")

var stepOffsets = map[string]int{
	"C": 0,
	"D": 2,
	"E": 4,
	"F": 5,
	"G": 7,
	"A": 9,
	"B": 11,
}

var accidentals = map[string]int{
	"double-sharp": 2,
	"double_sharp": 2,
	"sharp-sharp":  2,
	"sharp":        1,
	"natural":      0,
	"flat":         -1,
	"flat-flat":    -2,
	"double-flat":  -2,
	"double_flat":  -2,
}

// Overrides holds the accidentals written earlier in the current measure,
// keyed by step and octave ("F4"). Start a new one at every barline.
type Overrides map[string]int

func NewOverrides() Overrides {
	return make(Overrides)
}

// KeyAccidental is the shift the key signature applies to every step. Only
// strongly sharp or strongly flat keys move anything.
func KeyAccidental(fifths int) int {
	switch {
	case fifths > 2:
		return 1
	case fifths < -6:
		return -1
	}
	return 0
}

// Resolve returns the note number for step/octave under the key signature
// fifths. Any written accidental is recorded in the returned Overrides for the
// same step and octave: a recognized one by its own shift, anything else by
// the key's. An empty accidental falls back to an override, then to the key.
func Resolve(step string, octave int, fifths int, accidental string, overrides Overrides) (int, Overrides, error) {
	base, ok := stepOffsets[step]
	if !ok {
		return 0, overrides, errors.Wrapf(ErrUnknownStep, "%q", step)
	}
	if overrides == nil {
		overrides = NewOverrides()
	}

	key := step + strconv.Itoa(octave)
	alter := KeyAccidental(fifths)
	if accidental != "" {
		if written, ok := accidentals[accidental]; ok {
			alter = written
		}
		overrides[key] = alter
	} else if prev, ok := overrides[key]; ok {
		alter = prev
	}

	return base + alter + (octave+1)*12, overrides, nil
}
