package song

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/xmldoc"
	"github.com/pkg/errors"
)

// staff height in tenths, five lines four spaces apart
const staffHeight = 4 * 10

type measureLayout struct {
	number            string
	width             float64
	newPage           bool
	newSystem         bool
	systemMarginLeft  float64
	systemMarginRight float64
	topSystemDistance float64
	systemDistance    float64
	staveLayouts      model.StaveLayouts
	divisions         int
}

func readMeasures(root *etree.Element, instruments []model.Instrument, pageData model.PageData) ([]model.Measure, error) {
	var layouts []measureLayout

	for i, instrument := range instruments {
		part, err := partOf(root, instrument.ID)
		if err != nil {
			return nil, err
		}
		elements := xmldoc.All(part, "measure")
		if i > 0 && len(elements) != len(layouts) {
			return nil, errors.Wrapf(ErrMeasureCount, "part %s has %d measures, expected %d", instrument.ID, len(elements), len(layouts))
		}

		for j, element := range elements {
			layout, err := readMeasureLayout(element)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				layout.staveLayouts = make(model.StaveLayouts)
				layouts = append(layouts, layout)
			}
			distances, err := readStaffDistances(element, instrument.StaffCount)
			if err != nil {
				return nil, err
			}
			layouts[j].staveLayouts[instrument.ID] = distances
		}
	}

	return convertToMeasures(layouts, pageData), nil
}

func readMeasureLayout(element *etree.Element) (measureLayout, error) {
	var res measureLayout
	var err error

	res.number, _ = xmldoc.OptionalAttr(element, "number")
	if res.width, err = xmldoc.OptionalAttrFloat(element, "width", 0); err != nil {
		return res, err
	}

	if printElement := xmldoc.Optional(element, "print"); printElement != nil {
		newPage, _ := xmldoc.OptionalAttr(printElement, "new-page")
		newSystem, _ := xmldoc.OptionalAttr(printElement, "new-system")
		res.newPage = newPage == "yes"
		res.newSystem = newSystem == "yes"

		if systemLayout := xmldoc.Optional(printElement, "system-layout"); systemLayout != nil {
			if res.topSystemDistance, _, err = xmldoc.OptionalFloat(systemLayout, "top-system-distance"); err != nil {
				return res, err
			}
			if res.systemDistance, _, err = xmldoc.OptionalFloat(systemLayout, "system-distance"); err != nil {
				return res, err
			}
			if res.systemMarginLeft, _, err = xmldoc.OptionalFloat(systemLayout, "system-margins/left-margin"); err != nil {
				return res, err
			}
			if res.systemMarginRight, _, err = xmldoc.OptionalFloat(systemLayout, "system-margins/right-margin"); err != nil {
				return res, err
			}
		}
	}

	if res.divisions, _, err = xmldoc.OptionalInt(element, "attributes/divisions"); err != nil {
		return res, err
	}
	return res, nil
}

func readStaffDistances(element *etree.Element, staffCount int) ([]float64, error) {
	res := make([]float64, staffCount)
	printElement := xmldoc.Optional(element, "print")
	if printElement == nil {
		return res, nil
	}
	for i := range res {
		staffLayout := xmldoc.Optional(printElement, fmt.Sprintf("staff-layout[@number='%d']", i+1))
		if staffLayout == nil {
			continue
		}
		distance, _, err := xmldoc.OptionalFloat(staffLayout, "staff-distance")
		if err != nil {
			return nil, err
		}
		res[i] = distance
	}
	return res, nil
}

// convertToMeasures places every measure on its page. Layout only changes at
// page and system breaks; in between, measures inherit the previous system's
// staff layout and sit side by side.
func convertToMeasures(layouts []measureLayout, pageData model.PageData) []model.Measure {
	var lastStaveLayouts model.StaveLayouts
	var pageNumber, divisions int
	var pos model.Point
	var lastHeight float64

	res := make([]model.Measure, 0, len(layouts))
	for i, layout := range layouts {
		if layout.newPage {
			pageNumber++
		}
		if layout.divisions != 0 {
			divisions = layout.divisions
		}

		if layout.newPage || layout.newSystem || i == 0 {
			lastStaveLayouts = layout.staveLayouts
			margins := pageMarginsFor(pageData, pageNumber)
			pos.X = margins.Left + layout.systemMarginLeft

			if layout.newPage || i == 0 {
				pos.Y = margins.Top + layout.topSystemDistance + float64(pageNumber)*pageData.PageHeight
			} else {
				pos.Y += layout.systemDistance + lastHeight
			}
		}

		var height float64
		for _, distances := range lastStaveLayouts {
			for _, distance := range distances {
				height += distance + staffHeight
			}
		}

		res = append(res, model.Measure{
			Index:        i,
			Number:       layout.number,
			Pos:          pos,
			Dimension:    model.Dimension{Width: layout.width, Height: height},
			PageNumber:   pageNumber,
			Divisions:    divisions,
			StaveLayouts: lastStaveLayouts,
		})

		pos.X += layout.width
		lastHeight = height
	}
	return res
}

func pageMarginsFor(pageData model.PageData, pageNumber int) model.PageMargins {
	kind := "odd"
	if pageNumber%2 == 0 {
		kind = "even"
	}
	if m, ok := pageData.PageMargins[kind]; ok {
		return m
	}
	return pageData.PageMargins["both"]
}
