package song

import (
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/util"
	"golang.org/x/exp/slices"
)

// resolve fills in everything that needs the whole merged timeline.
func resolve(groups []model.NoteGroup, measures []model.Measure) {
	calcGroupTiming(groups)
	calcGroupPositioning(groups, measures)
	calcGroupTempos(groups)
	MergeTies(groups)
	DeriveNotesOff(groups)
	for i := range groups {
		groups[i].ID = i
	}
}

func allNotes(g *model.NoteGroup) []model.Note {
	var res []model.Note
	for _, instrument := range g.Instruments {
		for _, staff := range instrument.Staves {
			res = append(res, staff.Notes...)
		}
	}
	return res
}

func calcGroupTiming(groups []model.NoteGroup) {
	if len(groups) == 0 {
		return
	}
	for i := 0; i < len(groups)-1; i++ {
		groups[i].Duration = groups[i+1].Time - groups[i].Time
	}
	last := &groups[len(groups)-1]
	last.Duration, _ = util.MinBy(allNotes(last), func(n model.Note) int {
		return n.WrittenDuration
	})
}

func calcGroupPositioning(groups []model.NoteGroup, measures []model.Measure) {
	for i := range groups {
		g := &groups[i]
		measure := measures[g.Measure]
		minX, _ := util.MinBy(allNotes(g), func(n model.Note) float64 {
			return n.Pos.X
		})
		g.Pos = model.Point{
			X: minX + measure.Pos.X + 3,
			Y: measure.Pos.Y - 30,
		}
		g.Dimension = model.Dimension{
			Width:  26,
			Height: measure.Dimension.Height + 60,
		}
	}
}

func calcGroupTempos(groups []model.NoteGroup) {
	var lastTempo float64 = constants.DefaultTempo
	for i := range groups {
		if groups[i].Tempo != 0 {
			lastTempo = groups[i].Tempo
		} else {
			groups[i].Tempo = lastTempo
		}
	}
}

// MergeTies gives the first note of every tie chain the sounding length of the
// whole chain. Lengths are rebuilt from WrittenDuration, so merging twice is
// the same as merging once.
func MergeTies(groups []model.NoteGroup) {
	eachNote(groups, func(i, instrument, staff int, n *model.Note) {
		n.Duration = n.WrittenDuration
	})
	eachNote(groups, func(i, instrument, staff int, n *model.Note) {
		if !n.TieStop || n.Rest {
			return
		}
		if head := findTieHead(groups, i, instrument, staff, n.NoteNumber); head != nil {
			head.Duration += n.WrittenDuration
		}
	})
}

// findTieHead walks back from group i to the nearest earlier note of the same
// pitch on the same staff that does not itself continue a tie.
func findTieHead(groups []model.NoteGroup, i, instrument, staff, noteNumber int) *model.Note {
	for j := i - 1; j >= 0; j-- {
		notes := groups[j].Instruments[instrument].Staves[staff].Notes
		idx := slices.IndexFunc(notes, func(n model.Note) bool {
			return !n.Rest && n.NoteNumber == noteNumber
		})
		if idx == -1 {
			continue
		}
		if !notes[idx].TieStop {
			return &notes[idx]
		}
	}
	return nil
}

// DeriveNotesOff records, for every sounding note, its pitch in the notes-off
// set of the group where it ends.
func DeriveNotesOff(groups []model.NoteGroup) {
	byTime := make(map[int]int, len(groups))
	for i, g := range groups {
		byTime[g.Time] = i
		for k := range g.Instruments {
			for s := range g.Instruments[k].Staves {
				groups[i].Instruments[k].Staves[s].NotesOff = nil
			}
		}
	}

	eachNote(groups, func(i, instrument, staff int, n *model.Note) {
		if n.Rest || n.TieStop {
			return
		}
		j, ok := byTime[groups[i].Time+n.Duration]
		if !ok || j <= i {
			return
		}
		target := &groups[j].Instruments[instrument].Staves[staff]
		if !slices.Contains(target.NotesOff, n.NoteNumber) {
			target.NotesOff = append(target.NotesOff, n.NoteNumber)
		}
	})
}

func eachNote(groups []model.NoteGroup, fn func(i, instrument, staff int, n *model.Note)) {
	for i := range groups {
		for k := range groups[i].Instruments {
			staves := groups[i].Instruments[k].Staves
			for s := range staves {
				for n := range staves[s].Notes {
					fn(i, k, s, &staves[s].Notes[n])
				}
			}
		}
	}
}
