package song

import (
	"fmt"
	"io"

	"github.com/jsphweid/pianola/model"
)

func Dump(w io.Writer, data *model.SongData) {
	for i := range data.Groups {
		group := &data.Groups[i]
		measure := data.MeasureOf(group)
		fmt.Fprintf(w, "Group %v, time=%v, duration=%v, measure=%v, tempo=%v, divisions=%v%s\n",
			group.ID, group.Time, group.Duration, measure.Number, group.Tempo, measure.Divisions, flags(group))
		for _, instrumentStaves := range group.Instruments {
			fmt.Fprintf(w, "    Instrument %v:\n", data.Instruments[instrumentStaves.Instrument].ID)
			for _, staff := range instrumentStaves.Staves {
				fmt.Fprintf(w, "        Staff %v:", staff.StaffNumber)
				if len(staff.NotesOff) > 0 {
					fmt.Fprintf(w, " off=%v", staff.NotesOff)
				}
				fmt.Fprintln(w)
				for _, note := range staff.Notes {
					if note.Rest {
						fmt.Fprintf(w, "            Rest, duration=%v\n", note.Duration)
						continue
					}
					tie := ""
					if note.TieStop {
						tie = ", tie stop"
					}
					fmt.Fprintf(w, "            Note %v, duration=%v%s\n", note.NoteNumber, note.Duration, tie)
				}
			}
		}
	}
	fmt.Fprintf(w, "Order: %v\n", data.GroupOrder)
}

func flags(g *model.NoteGroup) string {
	var res string
	if g.RepeatStart {
		res += ", repeat start"
	}
	if g.RepeatEnd {
		res += ", repeat end"
	}
	if g.EndingStart > 0 {
		res += fmt.Sprintf(", ending %v", g.EndingStart)
	}
	if g.SustainOn {
		res += ", pedal down"
	}
	if g.SustainOff {
		res += ", pedal up"
	}
	return res
}
