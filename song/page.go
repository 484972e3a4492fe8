package song

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/xmldoc"
)

func readPageData(root *etree.Element) (model.PageData, error) {
	var res model.PageData

	defaults, err := xmldoc.One(root, "defaults")
	if err != nil {
		return res, err
	}
	millimeters, err := xmldoc.Float(defaults, "scaling/millimeters")
	if err != nil {
		return res, err
	}
	tenths, err := xmldoc.Float(defaults, "scaling/tenths")
	if err != nil {
		return res, err
	}
	pageLayout, err := xmldoc.One(defaults, "page-layout")
	if err != nil {
		return res, err
	}
	if res.PageWidth, err = xmldoc.Float(pageLayout, "page-width"); err != nil {
		return res, err
	}
	if res.PageHeight, err = xmldoc.Float(pageLayout, "page-height"); err != nil {
		return res, err
	}
	if res.PageMargins, err = readPageMargins(pageLayout); err != nil {
		return res, err
	}

	if tenths != 0 {
		res.Scaling = (millimeters / tenths) * (constants.DPI / 25.4)
	}
	return res, nil
}

func readPageMargins(pageLayout *etree.Element) (map[string]model.PageMargins, error) {
	res := make(map[string]model.PageMargins)
	for _, margins := range xmldoc.All(pageLayout, "page-margins") {
		kind, ok := xmldoc.OptionalAttr(margins, "type")
		if !ok {
			kind = "both"
		}

		var m model.PageMargins
		var err error
		if m.Left, err = xmldoc.Float(margins, "left-margin"); err != nil {
			return nil, err
		}
		if m.Right, err = xmldoc.Float(margins, "right-margin"); err != nil {
			return nil, err
		}
		if m.Top, err = xmldoc.Float(margins, "top-margin"); err != nil {
			return nil, err
		}
		if m.Bottom, err = xmldoc.Float(margins, "bottom-margin"); err != nil {
			return nil, err
		}
		res[kind] = m
	}
	return res, nil
}

func partOf(root *etree.Element, id string) (*etree.Element, error) {
	return xmldoc.One(root, fmt.Sprintf("part[@id='%s']", id))
}

func readInstruments(root *etree.Element) ([]model.Instrument, error) {
	partList, err := xmldoc.One(root, "part-list")
	if err != nil {
		return nil, err
	}

	var res []model.Instrument
	for i, scorePart := range xmldoc.All(partList, "score-part") {
		id, err := xmldoc.Attr(scorePart, "id")
		if err != nil {
			return nil, err
		}
		name, err := xmldoc.Text(scorePart, "part-name")
		if err != nil {
			return nil, err
		}

		part, err := partOf(root, id)
		if err != nil {
			return nil, err
		}
		firstMeasure, err := xmldoc.One(part, "measure")
		if err != nil {
			return nil, err
		}
		staffCount, ok, err := xmldoc.OptionalInt(firstMeasure, "attributes/staves")
		if err != nil {
			return nil, err
		}
		if !ok || staffCount < 1 {
			staffCount = 1
		}

		res = append(res, model.Instrument{
			ID:         id,
			Name:       name,
			Index:      i,
			StaffCount: staffCount,
		})
	}
	return res, nil
}
