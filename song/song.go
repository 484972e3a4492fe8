// Package song compiles a MusicXML score-partwise document into the merged,
// time ordered groups the player walks, plus the order repeats and endings
// produce.
package song

import (
	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/xmldoc"
	"github.com/pkg/errors"
)

var (
	ErrMeasureCount = errors.New("part measure count does not match the first part")
	ErrStaff        = errors.New("staff number out of range")
)

func Load(path string) (*model.SongData, error) {
	doc, err := xmldoc.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := Compile(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not compile %s", path)
	}
	return data, nil
}

func Compile(doc *xmldoc.Document) (*model.SongData, error) {
	root := doc.Root
	pageData, err := readPageData(root)
	if err != nil {
		return nil, err
	}

	instruments, err := readInstruments(root)
	if err != nil {
		return nil, err
	}

	measures, err := readMeasures(root, instruments, pageData)
	if err != nil {
		return nil, err
	}

	groups, err := readGroups(root, instruments, measures)
	if err != nil {
		return nil, err
	}

	order, err := ComputeGroupOrder(groups)
	if err != nil {
		return nil, err
	}

	for _, m := range measures {
		if m.PageNumber+1 > pageData.PageCount {
			pageData.PageCount = m.PageNumber + 1
		}
	}

	log.Debug("compiled score", "instruments", len(instruments), "measures", len(measures), "groups", len(groups), "order", len(order))

	return &model.SongData{
		PageData:    pageData,
		Instruments: instruments,
		Measures:    measures,
		Groups:      groups,
		GroupOrder:  order,
	}, nil
}
