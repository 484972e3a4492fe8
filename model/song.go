package model

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Dimension struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PageMargins struct {
	Left   float64 `json:"leftMargin"`
	Right  float64 `json:"rightMargin"`
	Top    float64 `json:"topMargin"`
	Bottom float64 `json:"bottomMargin"`
}

type PageData struct {
	// pixels per score tenth at 200 dpi
	Scaling     float64                `json:"scaling"`
	PageCount   int                    `json:"pageCount"`
	PageWidth   float64                `json:"pageWidth"`
	PageHeight  float64                `json:"pageHeight"`
	PageMargins map[string]PageMargins `json:"pageMargins"`
}

type Instrument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Index      int    `json:"index"`
	StaffCount int    `json:"staffCount"`
}

// StaveLayouts maps an instrument id to the staff distance of each of its staves.
type StaveLayouts = map[string][]float64

type Measure struct {
	Index        int          `json:"index"`
	Number       string       `json:"number"`
	Pos          Point        `json:"pos"`
	Dimension    Dimension    `json:"dimension"`
	PageNumber   int          `json:"pageNumber"`
	Divisions    int          `json:"divisions"`
	StaveLayouts StaveLayouts `json:"staveLayouts"`
}

type Note struct {
	// Duration is the sounding length in ticks. For the head of a tie chain it
	// covers the whole chain.
	Duration        int   `json:"duration"`
	WrittenDuration int   `json:"writtenDuration"`
	NoteNumber      int   `json:"noteNumber"`
	Rest            bool  `json:"rest"`
	RestOnMeasure   bool  `json:"restOnWholeMeasure"`
	TieStop         bool  `json:"tieStop"`
	Pos             Point `json:"pos"`
}

type Staff struct {
	StaffNumber int    `json:"staffNumber"`
	Notes       []Note `json:"notes"`
	NotesOff    []int  `json:"notesOff"`
}

type InstrumentStaves struct {
	Instrument int     `json:"instrument"`
	Staves     []Staff `json:"staves"`
}

type NoteGroup struct {
	ID          int                `json:"id"`
	Time        int                `json:"time"`
	Duration    int                `json:"duration"`
	Measure     int                `json:"measure"`
	Tempo       float64            `json:"tempo"`
	SustainOn   bool               `json:"sustainOn"`
	SustainOff  bool               `json:"sustainOff"`
	RepeatStart bool               `json:"repeatStart"`
	RepeatEnd   bool               `json:"repeatEnd"`
	EndingStart int                `json:"endingStart,omitempty"`
	Instruments []InstrumentStaves `json:"instruments"`
	Pos         Point              `json:"pos"`
	Dimension   Dimension          `json:"dimension"`
}

type SongData struct {
	PageData    PageData     `json:"pageData"`
	Instruments []Instrument `json:"instruments"`
	Measures    []Measure    `json:"measures"`
	Groups      []NoteGroup  `json:"groups"`
	GroupOrder  []int        `json:"groupOrder"`
}

// MeasureOf returns the measure a group belongs to.
func (s *SongData) MeasureOf(g *NoteGroup) *Measure {
	return &s.Measures[g.Measure]
}

type LoopBlock struct {
	GroupID  int `json:"groupId"`
	Position int `json:"position"`
}
