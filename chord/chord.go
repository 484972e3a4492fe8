// Package chord works with sets of MIDI key numbers held at the same time.
package chord

import (
	"fmt"
	"strings"

	"github.com/jsphweid/pianola/util"
	"golang.org/x/exp/slices"
)

type OnNotes = map[int]bool

func FromKeys(keys []int) OnNotes {
	res := make(OnNotes, len(keys))
	for _, k := range keys {
		res[k] = true
	}
	return res
}

// CreateChordKey renders notes lowest first, "60-64-67".
func CreateChordKey(notes []int) string {
	sorted := slices.Clone(notes)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, note := range sorted {
		parts[i] = fmt.Sprintf("%v", note)
	}
	return strings.Join(parts, "-")
}

// Missing returns the required notes that are not on, lowest first.
func Missing(required []int, on OnNotes) []int {
	var res []int
	for _, note := range required {
		if !on[note] {
			res = append(res, note)
		}
	}
	slices.Sort(res)
	return slices.Compact(res)
}

// Diff reports which notes went down and which came up between two sets.
func Diff(before, after OnNotes) (down, up []int) {
	for note := range after {
		if !before[note] {
			down = append(down, note)
		}
	}
	for note := range before {
		if !after[note] {
			up = append(up, note)
		}
	}
	slices.Sort(down)
	slices.Sort(up)
	return down, up
}

func Keys(on OnNotes) []int {
	return util.GetKeys(on)
}
