package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvesNaturals(t *testing.T) {
	cases := []struct {
		step   string
		octave int
		want   int
	}{
		{"C", 4, 60},
		{"D", 4, 62},
		{"A", 4, 69},
		{"B", 3, 59},
		{"C", -1, 0},
	}
	for _, c := range cases {
		t.Run(c.step, func(t *testing.T) {
			got, _, err := Resolve(c.step, c.octave, 0, "", nil)
			assert.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestKeySignatureSimplification(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, KeyAccidental(2))
	assert.Equal(1, KeyAccidental(3))
	assert.Equal(0, KeyAccidental(-6))
	assert.Equal(-1, KeyAccidental(-7))

	got, _, err := Resolve("F", 4, 4, "", nil)
	assert.NoError(err)
	assert.Equal(66, got)
}

func TestAccidentalCarriesThroughMeasure(t *testing.T) {
	assert := assert.New(t)
	o := NewOverrides()

	got, o, err := Resolve("F", 4, 0, "sharp", o)
	assert.NoError(err)
	assert.Equal(66, got)

	got, o, _ = Resolve("F", 4, 0, "", o)
	assert.Equal(66, got)

	// other octave is untouched
	got, o, _ = Resolve("F", 5, 0, "", o)
	assert.Equal(77, got)

	got, o, _ = Resolve("F", 4, 0, "natural", o)
	assert.Equal(65, got)
	got, _, _ = Resolve("F", 4, 0, "", o)
	assert.Equal(65, got)

	// next measure starts clean
	got, _, _ = Resolve("F", 4, 0, "", NewOverrides())
	assert.Equal(65, got)
}

func TestDoubleAccidentals(t *testing.T) {
	assert := assert.New(t)
	got, _, _ := Resolve("C", 4, 0, "double-sharp", nil)
	assert.Equal(62, got)
	got, _, _ = Resolve("C", 4, 0, "flat-flat", nil)
	assert.Equal(58, got)
}

func TestUnknownAccidentalKeepsKey(t *testing.T) {
	assert := assert.New(t)
	o := NewOverrides()
	got, o, err := Resolve("G", 4, 3, "quarter-sharp", o)
	assert.NoError(err)
	assert.Equal(68, got)
	assert.Equal(Overrides{"G4": 1}, o)
}

func TestUnknownAccidentalResetsCarriedOverride(t *testing.T) {
	assert := assert.New(t)
	_, o, err := Resolve("F", 4, 0, "sharp", NewOverrides())
	assert.NoError(err)

	got, o, err := Resolve("F", 4, 0, "quarter-sharp", o)
	assert.NoError(err)
	assert.Equal(65, got)

	got, _, err = Resolve("F", 4, 0, "", o)
	assert.NoError(err)
	assert.Equal(65, got)
}

func TestResolveIsStable(t *testing.T) {
	assert := assert.New(t)
	o := Overrides{"E4": -1}
	first, _, _ := Resolve("E", 4, 0, "", o)
	second, _, _ := Resolve("E", 4, 0, "", o)
	assert.Equal(first, second)
	assert.Equal(63, first)
}

func TestUnknownStep(t *testing.T) {
	_, _, err := Resolve("H", 4, 0, "", nil)
	assert.ErrorIs(t, err, ErrUnknownStep)
}
