package xmldoc

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part id="P1">
    <measure number="1" width="120.5">
      <note default-x="10">
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>4</duration>
      </note>
      <note>
        <duration>x</duration>
      </note>
    </measure>
  </part>
</score-partwise>`

func TestQueries(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert := assert.New(t)
	measure, err := One(doc.Root, "part/measure")
	require.NoError(t, err)

	width, err := OptionalAttrFloat(measure, "width", 0)
	assert.NoError(err)
	assert.Equal(120.5, width)

	notes := All(measure, "note")
	assert.Len(notes, 2)

	step, err := Text(notes[0], "pitch/step")
	assert.NoError(err)
	assert.Equal("C", step)

	octave, err := Int(notes[0], "pitch/octave")
	assert.NoError(err)
	assert.Equal(4, octave)

	_, ok, err := OptionalInt(notes[0], "staff")
	assert.NoError(err)
	assert.False(ok)

	x, err := OptionalAttrFloat(notes[1], "default-x", -1)
	assert.NoError(err)
	assert.Equal(-1.0, x)
}

func TestErrorsNameThePath(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)
	notes := All(doc.Root, "part/measure/note")

	assert := assert.New(t)
	_, err = Int(notes[1], "pitch/step")
	assert.True(errors.Is(err, ErrMissing))
	assert.Contains(err.Error(), "/score-partwise/part/measure/note/pitch/step")

	_, err = Int(notes[1], "duration")
	assert.True(errors.Is(err, ErrInvalid))

	_, err = Attr(notes[1], "default-y")
	assert.True(errors.Is(err, ErrMissing))
}

func TestRejectsOtherRoots(t *testing.T) {
	_, err := ReadFrom(strings.NewReader(`<score-timewise/>`))
	assert.ErrorIs(t, err, ErrNotPartwise)
}

func TestDecodesLatin1(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><score-partwise><work><work-title>Caf\xe9</work-title></work></score-partwise>")
	doc, err := Parse(data)
	require.NoError(t, err)

	title, err := Text(doc.Root, "work/work-title")
	assert.NoError(t, err)
	assert.Equal(t, "Café", title)
}
