package player

import (
	"github.com/jsphweid/pianola/chord"
	"golang.org/x/exp/slices"
)

type State struct {
	Position int
	GroupID  int
	Playing  bool
	Required []int
	Pressed  []int
}

// KeyDown records a key press and re-runs the current group, which
// dispatches once every required key has been pressed.
func (p *Player) KeyDown(key int, velocity int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.held[key] = true
	p.pressed[key] = true
	if velocity > 0 {
		p.userVelocity = velocity
	}
	p.triggerGroup()
}

func (p *Player) KeyUp(key int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.held, key)
	delete(p.pressed, key)
}

// SetHeldKeys takes the full set of keys currently down. Only keys that went
// down since the last call count as presses, so a key held across groups has
// to be struck again.
func (p *Player) SetHeldKeys(keys []int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	held := chord.FromKeys(keys)
	down, up := chord.Diff(p.held, held)
	p.held = held
	for _, key := range up {
		delete(p.pressed, key)
	}
	for _, key := range down {
		p.pressed[key] = true
	}
	if len(down) > 0 {
		p.triggerGroup()
	}
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := State{
		Position: p.position,
		GroupID:  -1,
		Playing:  p.playing,
		Required: slices.Clone(p.required),
		Pressed:  chord.Keys(p.pressed),
	}
	slices.Sort(res.Required)
	if p.song != nil && p.position < len(p.song.GroupOrder) {
		res.GroupID = p.song.GroupOrder[p.position]
	}
	return res
}
