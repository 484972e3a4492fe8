package midi

import (
	"io"
	"sort"

	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const Ticks = smf.MetricTicks(960)

type event struct {
	tick uint64
	off  bool
	msg  gomidi.Message
}

// track collects absolute-time events for one instrument.
type track struct {
	channel  uint8
	events   []event
	sounding map[int]bool
}

func (t *track) on(tick uint64, key, velocity int) {
	if t.sounding[key] {
		t.off(tick, key)
	}
	t.sounding[key] = true
	t.events = append(t.events, event{tick, false, gomidi.NoteOn(t.channel, uint8(key), uint8(velocity))})
}

func (t *track) off(tick uint64, key int) {
	if !t.sounding[key] {
		return
	}
	delete(t.sounding, key)
	t.events = append(t.events, event{tick, true, gomidi.NoteOff(t.channel, uint8(key))})
}

func (t *track) control(tick uint64, msg gomidi.Message) {
	t.events = append(t.events, event{tick, false, msg})
}

func (t *track) smf(end uint64) smf.Track {
	for key := range t.sounding {
		t.off(end, key)
	}
	// offs first so a re-struck key is released before it sounds again
	sort.SliceStable(t.events, func(i, j int) bool {
		if t.events[i].tick != t.events[j].tick {
			return t.events[i].tick < t.events[j].tick
		}
		return t.events[i].off && !t.events[j].off
	})

	var res smf.Track
	var last uint64
	for _, e := range t.events {
		res.Add(uint32(e.tick-last), e.msg)
		last = e.tick
	}
	res.Close(uint32(end - last))
	return res
}

// Export renders the song in playback order, repeats unrolled, as a type 1 SMF
// with a tempo track followed by one track per instrument.
func Export(data *model.SongData, velocity int, w io.Writer) error {
	tracks := make([]*track, len(data.Instruments))
	for i, instrument := range data.Instruments {
		tracks[i] = &track{channel: Channel(instrument), sounding: make(map[int]bool)}
	}

	var tempo smf.Track
	var tempoTick uint64
	var currentTempo float64
	var tick uint64

	for _, id := range data.GroupOrder {
		g := &data.Groups[id]
		if g.Tempo != currentTempo && g.Tempo > 0 {
			tempo.Add(uint32(tick-tempoTick), smf.MetaTempo(g.Tempo))
			tempoTick = tick
			currentTempo = g.Tempo
		}
		if g.SustainOn {
			for _, t := range tracks {
				t.control(tick, gomidi.ControlChange(t.channel, holdPedal, pedalDown))
			}
		}
		for _, instrumentStaves := range g.Instruments {
			t := tracks[instrumentStaves.Instrument]
			for _, staff := range instrumentStaves.Staves {
				for _, key := range staff.NotesOff {
					t.off(tick, key)
				}
				for _, note := range staff.Notes {
					if !note.Rest && !note.TieStop {
						t.on(tick, note.NoteNumber, velocity)
					}
				}
			}
		}

		divisions := data.MeasureOf(g).Divisions
		if divisions <= 0 {
			return errors.Errorf("measure %d has no divisions", g.Measure)
		}
		tick += uint64(g.Duration) * uint64(Ticks) / uint64(divisions)

		if g.SustainOff {
			for _, t := range tracks {
				t.control(tick, gomidi.ControlChange(t.channel, holdPedal, pedalUp))
			}
		}
	}
	tempo.Close(uint32(tick - tempoTick))

	s := smf.NewSMF1()
	s.TimeFormat = Ticks
	if err := s.Add(tempo); err != nil {
		return errors.Wrap(err, "could not add tempo track")
	}
	for i, t := range tracks {
		if err := s.Add(t.smf(tick)); err != nil {
			return errors.Wrapf(err, "could not add track for %s", data.Instruments[i].Name)
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "could not write midi")
	}
	return nil
}
