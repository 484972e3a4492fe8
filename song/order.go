package song

import (
	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
)

var (
	ErrRepeatStack    = errors.New("repeat end without an open repeat start")
	ErrEndingNotFound = errors.New("no following numbered ending")
	ErrTraversalLimit = errors.New("group order traversal limit exceeded")
)

// a repeat with three endings plays its body three times
const traversalFactor = 8

// ComputeGroupOrder linearizes repeats and numbered endings into the order the
// groups are played in.
//
// Group 0 opens an implicit repeat. Each repeat end is taken once: the first
// time it jumps back to the innermost open repeat start, the second time it
// closes that repeat and the next group opens an implicit one, which is where a
// lone backward repeat further on returns to. An ending start reached a second
// time is skipped in favor of the next ending number.
func ComputeGroupOrder(groups []model.NoteGroup) ([]int, error) {
	order := make([]int, 0, len(groups))
	if len(groups) == 0 {
		return order, nil
	}

	var starts []int
	taken := make(map[int]bool)
	visitedEndings := make(map[int]bool)
	limit := traversalFactor*len(groups) + 16

	for id, steps := 0, 0; id < len(groups); steps++ {
		if steps > limit {
			return nil, errors.Wrapf(ErrTraversalLimit, "after %d steps", steps)
		}
		g := groups[id]

		if g.EndingStart > 0 {
			if visitedEndings[id] {
				next, ok := nextEnding(groups, id, g.EndingStart+1)
				if !ok {
					return nil, errors.Wrapf(ErrEndingNotFound, "ending %d at group %d", g.EndingStart, id)
				}
				if _, more := nextEnding(groups, next, groups[next].EndingStart+1); !more {
					if len(starts) > 0 {
						starts = starts[:len(starts)-1]
					}
					if after := afterMeasure(groups, next); after < len(groups) {
						starts = append(starts, after)
					}
				}
				id = next
				continue
			}
			visitedEndings[id] = true
		}

		if id == 0 || g.RepeatStart {
			if len(starts) == 0 || starts[len(starts)-1] != id {
				starts = append(starts, id)
			}
		}

		order = append(order, id)

		if g.RepeatEnd {
			if len(starts) == 0 {
				return nil, errors.Wrapf(ErrRepeatStack, "group %d", id)
			}
			if !taken[id] {
				taken[id] = true
				id = starts[len(starts)-1]
				continue
			}
			starts = starts[:len(starts)-1]
			if id+1 < len(groups) {
				starts = append(starts, id+1)
			}
		}

		id++
	}

	return order, nil
}

func nextEnding(groups []model.NoteGroup, from int, number int) (int, bool) {
	for i := from + 1; i < len(groups); i++ {
		if groups[i].EndingStart == number {
			return i, true
		}
	}
	return 0, false
}

func afterMeasure(groups []model.NoteGroup, id int) int {
	i := id + 1
	for i < len(groups) && groups[i].Measure == groups[id].Measure {
		i++
	}
	return i
}
