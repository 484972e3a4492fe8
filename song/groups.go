package song

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/btree"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/pitch"
	"github.com/jsphweid/pianola/xmldoc"
	"github.com/pkg/errors"
)

type markerKind int

const (
	markTempo markerKind = iota
	markPedalStart
	markPedalStop
	markRepeatStart
	markRepeatEnd
	markEnding
)

// marker is a direction or barline seen at a tick. Markers are applied once
// every part has been merged, since the group they belong to may not exist
// yet when they are read.
type marker struct {
	kind  markerKind
	time  int
	value float64
}

type timeline struct {
	instruments []model.Instrument
	groups      *btree.BTreeG[*model.NoteGroup]
	markers     []marker
}

func newTimeline(instruments []model.Instrument) *timeline {
	return &timeline{
		instruments: instruments,
		groups: btree.NewG(32, func(a, b *model.NoteGroup) bool {
			return a.Time < b.Time
		}),
	}
}

func (t *timeline) groupAt(time int, measure int) *model.NoteGroup {
	if g, ok := t.groups.Get(&model.NoteGroup{Time: time}); ok {
		return g
	}

	g := &model.NoteGroup{
		Time:        time,
		Measure:     measure,
		Instruments: make([]model.InstrumentStaves, len(t.instruments)),
	}
	for i, instrument := range t.instruments {
		g.Instruments[i].Instrument = instrument.Index
		g.Instruments[i].Staves = make([]model.Staff, instrument.StaffCount)
		for s := range g.Instruments[i].Staves {
			g.Instruments[i].Staves[s].StaffNumber = s
		}
	}
	t.groups.ReplaceOrInsert(g)
	return g
}

func (t *timeline) atOrAfter(time int) *model.NoteGroup {
	var res *model.NoteGroup
	t.groups.AscendGreaterOrEqual(&model.NoteGroup{Time: time}, func(g *model.NoteGroup) bool {
		res = g
		return false
	})
	return res
}

func (t *timeline) before(time int) *model.NoteGroup {
	var res *model.NoteGroup
	t.groups.DescendLessOrEqual(&model.NoteGroup{Time: time - 1}, func(g *model.NoteGroup) bool {
		res = g
		return false
	})
	return res
}

func (t *timeline) mark(kind markerKind, time int, value float64) {
	t.markers = append(t.markers, marker{kind: kind, time: time, value: value})
}

func (t *timeline) applyMarkers() {
	for _, m := range t.markers {
		var g *model.NoteGroup
		switch m.kind {
		case markPedalStop, markRepeatEnd:
			g = t.before(m.time)
			if g == nil {
				g = t.atOrAfter(m.time)
			}
		default:
			g = t.atOrAfter(m.time)
		}
		if g == nil {
			continue
		}

		switch m.kind {
		case markTempo:
			g.Tempo = m.value
		case markPedalStart:
			g.SustainOn = true
		case markPedalStop:
			g.SustainOff = true
		case markRepeatStart:
			g.RepeatStart = true
		case markRepeatEnd:
			g.RepeatEnd = true
		case markEnding:
			g.EndingStart = int(m.value)
		}
	}
}

func (t *timeline) flatten() []model.NoteGroup {
	res := make([]model.NoteGroup, 0, t.groups.Len())
	t.groups.Ascend(func(g *model.NoteGroup) bool {
		res = append(res, *g)
		return true
	})
	return res
}

// cursor walks one part. prev is the onset of the last note read, which is
// where a chord note goes.
type cursor struct {
	prev       int
	curr       int
	fifths     int
	measure    int
	instrument model.Instrument
}

func readGroups(root *etree.Element, instruments []model.Instrument, measures []model.Measure) ([]model.NoteGroup, error) {
	t := newTimeline(instruments)

	for _, instrument := range instruments {
		part, err := partOf(root, instrument.ID)
		if err != nil {
			return nil, err
		}
		elements := xmldoc.All(part, "measure")
		if len(elements) != len(measures) {
			return nil, errors.Wrapf(ErrMeasureCount, "part %s has %d measures, expected %d", instrument.ID, len(elements), len(measures))
		}

		c := &cursor{instrument: instrument}
		for i, element := range elements {
			c.measure = i
			if err := t.readMeasure(element, c); err != nil {
				return nil, err
			}
		}
	}

	t.applyMarkers()
	groups := t.flatten()
	resolve(groups, measures)
	return groups, nil
}

func (t *timeline) readMeasure(element *etree.Element, c *cursor) error {
	fifths, ok, err := xmldoc.OptionalInt(element, "attributes/key/fifths")
	if err != nil {
		return err
	}
	if ok {
		c.fifths = fifths
	}

	start := c.curr
	overrides := pitch.NewOverrides()

	for _, child := range element.ChildElements() {
		switch child.Tag {
		case "note":
			if err := t.readNote(child, c, overrides); err != nil {
				return err
			}

		case "backup":
			duration, err := xmldoc.Int(child, "duration")
			if err != nil {
				return err
			}
			c.curr -= duration
			if c.curr < 0 {
				return errors.Wrapf(xmldoc.ErrInvalid, "%s: backup before the start of the part", xmldoc.Path(child))
			}
			c.prev = c.curr

		case "forward":
			duration, err := xmldoc.Int(child, "duration")
			if err != nil {
				return err
			}
			c.curr += duration
			c.prev = c.curr

		case "direction":
			if err := t.readDirection(child, c); err != nil {
				return err
			}

		case "sound":
			if err := t.readSound(child, c); err != nil {
				return err
			}

		case "barline":
			if err := t.readBarline(child, c, start); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *timeline) readNote(element *etree.Element, c *cursor, overrides pitch.Overrides) error {
	if xmldoc.Has(element, "grace") {
		return nil
	}

	duration, err := xmldoc.Int(element, "duration")
	if err != nil {
		return err
	}

	staff, ok, err := xmldoc.OptionalInt(element, "staff")
	if err != nil {
		return err
	}
	if !ok {
		staff = 1
	}
	if staff < 1 || staff > c.instrument.StaffCount {
		return errors.Wrapf(ErrStaff, "%s: staff %d of %d", xmldoc.Path(element), staff, c.instrument.StaffCount)
	}

	note := model.Note{
		Duration:        duration,
		WrittenDuration: duration,
	}

	if rest := xmldoc.Optional(element, "rest"); rest != nil {
		note.Rest = true
		measure, _ := xmldoc.OptionalAttr(rest, "measure")
		note.RestOnMeasure = measure == "yes"
	} else {
		step, err := xmldoc.Text(element, "pitch/step")
		if err != nil {
			return err
		}
		octave, err := xmldoc.Int(element, "pitch/octave")
		if err != nil {
			return err
		}
		var accidental string
		if a := xmldoc.Optional(element, "accidental"); a != nil {
			accidental = strings.TrimSpace(a.Text())
		}
		number, _, err := pitch.Resolve(step, octave, c.fifths, accidental, overrides)
		if err != nil {
			return errors.Wrap(err, xmldoc.Path(element))
		}
		note.NoteNumber = number
	}

	for _, tie := range xmldoc.All(element, "tie") {
		if kind, _ := xmldoc.OptionalAttr(tie, "type"); kind == "stop" {
			note.TieStop = true
		}
	}

	if note.Pos.X, err = xmldoc.OptionalAttrFloat(element, "default-x", 0); err != nil {
		return err
	}
	if note.Pos.Y, err = xmldoc.OptionalAttrFloat(element, "default-y", 0); err != nil {
		return err
	}

	if xmldoc.Has(element, "chord") {
		c.curr = c.prev
	}

	g := t.groupAt(c.curr, c.measure)
	staves := g.Instruments[c.instrument.Index].Staves
	staves[staff-1].Notes = append(staves[staff-1].Notes, note)

	c.prev = c.curr
	c.curr += duration
	return nil
}

func (t *timeline) readDirection(element *etree.Element, c *cursor) error {
	for _, sound := range xmldoc.All(element, "sound") {
		if err := t.readSound(sound, c); err != nil {
			return err
		}
	}

	for _, pedal := range xmldoc.All(element, "direction-type/pedal") {
		kind, err := xmldoc.Attr(pedal, "type")
		if err != nil {
			return err
		}
		switch kind {
		case "start":
			t.mark(markPedalStart, c.curr, 0)
		case "stop":
			t.mark(markPedalStop, c.curr, 0)
		case "change":
			t.mark(markPedalStop, c.curr, 0)
			t.mark(markPedalStart, c.curr, 0)
		}
	}
	return nil
}

func (t *timeline) readSound(element *etree.Element, c *cursor) error {
	tempo, err := xmldoc.OptionalAttrFloat(element, "tempo", 0)
	if err != nil {
		return err
	}
	if tempo > 0 {
		t.mark(markTempo, c.curr, tempo)
	}
	return nil
}

func (t *timeline) readBarline(element *etree.Element, c *cursor, measureStart int) error {
	if repeat := xmldoc.Optional(element, "repeat"); repeat != nil {
		direction, err := xmldoc.Attr(repeat, "direction")
		if err != nil {
			return err
		}
		switch direction {
		case "forward":
			t.mark(markRepeatStart, measureStart, 0)
		case "backward":
			t.mark(markRepeatEnd, c.curr, 0)
		}
	}

	if ending := xmldoc.Optional(element, "ending"); ending != nil {
		kind, err := xmldoc.Attr(ending, "type")
		if err != nil {
			return err
		}
		if kind != "start" {
			return nil
		}
		numbers, err := xmldoc.Attr(ending, "number")
		if err != nil {
			return err
		}
		number, err := firstEndingNumber(numbers)
		if err != nil {
			return errors.Wrapf(xmldoc.ErrInvalid, "%s/@number: %q", xmldoc.Path(ending), numbers)
		}
		t.mark(markEnding, measureStart, float64(number))
	}
	return nil
}

// firstEndingNumber reads "1", "1, 2" or "1 2" as 1.
func firstEndingNumber(numbers string) (int, error) {
	fields := strings.FieldsFunc(numbers, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return 0, errors.New("empty ending number")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return 0, errors.Errorf("bad ending number %q", fields[0])
	}
	return n, nil
}
