// Package player walks a compiled song in playback order, waiting for the
// human's keys where their part has notes and playing every other part itself.
package player

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/chord"
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var (
	ErrNoSong       = errors.New("no song loaded")
	ErrNoInstrument = errors.New("no instrument selected")
	ErrInstrument   = errors.New("instrument out of range")
	ErrPosition     = errors.New("position out of range")
	ErrLoop         = errors.New("invalid loop")
	ErrSpeed        = errors.New("speed must be positive")
)

type Role string

const (
	RoleComputer Role = "computer"
	RoleHuman    Role = "human"
)

type Hands string

const (
	HandsBoth  Hands = "both"
	HandsLeft  Hands = "left"
	HandsRight Hands = "right"
)

// Output receives everything the player sounds. Calls must not block.
type Output interface {
	NoteOn(pitch int, velocity int, instrument model.Instrument)
	NoteOff(pitch int, instrument model.Instrument)
	Sustain(on bool)
	Reset()
}

type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Player struct {
	mu       sync.Mutex
	out      Output
	clock    Clock
	velocity VelocityPolicy
	logger   *log.Logger

	song       *model.SongData
	instrument int
	role       Role
	hands      Hands
	speed      float64
	loopStart  *model.LoopBlock
	loopEnd    *model.LoopBlock

	position     int
	playing      bool
	pressed      chord.OnNotes
	held         chord.OnNotes
	required     []int
	userVelocity int

	timer      Timer
	generation uint64
}

type Option func(*Player)

func WithClock(c Clock) Option {
	return func(p *Player) {
		p.clock = c
	}
}

func WithVelocity(v VelocityPolicy) Option {
	return func(p *Player) {
		p.velocity = v
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

func New(out Output, opts ...Option) *Player {
	p := &Player{
		out:        out,
		clock:      realClock{},
		velocity:   FixedVelocity(constants.DefaultAccompanyVelocity),
		logger:     log.Default().WithPrefix("player"),
		instrument: -1,
		role:       RoleComputer,
		hands:      HandsBoth,
		speed:      1,
		pressed:    make(chord.OnNotes),
		held:       make(chord.OnNotes),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Delay is how long group g sounds at the given speed multiplier.
func Delay(g *model.NoteGroup, divisions int, speed float64) time.Duration {
	if g.Tempo <= 0 || divisions <= 0 {
		return 0
	}
	ms := 60000 / g.Tempo * float64(g.Duration) / float64(divisions) * speed
	return time.Duration(ms * float64(time.Millisecond))
}

func (p *Player) Load(song *model.SongData) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		p.pause()
	}
	p.song = song
	p.position = 0
	p.loopStart = nil
	p.loopEnd = nil
	p.required = nil
	if p.instrument >= len(song.Instruments) {
		p.instrument = -1
	}
}

func (p *Player) SelectInstrument(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < -1 || p.song == nil || index >= len(p.song.Instruments) {
		return errors.Wrapf(ErrInstrument, "%d", index)
	}
	p.instrument = index
	return nil
}

func (p *Player) SetRole(role Role) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.role = role
}

func (p *Player) SetHands(hands Hands) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hands = hands
}

func (p *Player) SetSpeed(speed float64) error {
	if speed <= 0 {
		return ErrSpeed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
	return nil
}

// LoopBlockAt describes the given position in the group order.
func (p *Player) LoopBlockAt(position int) (*model.LoopBlock, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.song == nil || position < 0 || position >= len(p.song.GroupOrder) {
		return nil, errors.Wrapf(ErrPosition, "%d", position)
	}
	return &model.LoopBlock{GroupID: p.song.GroupOrder[position], Position: position}, nil
}

// SetLoop bounds playback to start..end. Either may be nil.
func (p *Player) SetLoop(start, end *model.LoopBlock) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.song == nil {
		return ErrNoSong
	}
	for _, b := range []*model.LoopBlock{start, end} {
		if b != nil && (b.Position < 0 || b.Position >= len(p.song.GroupOrder)) {
			return errors.Wrapf(ErrLoop, "position %d", b.Position)
		}
	}
	if start != nil && end != nil && start.Position > end.Position {
		return errors.Wrapf(ErrLoop, "start %d after end %d", start.Position, end.Position)
	}
	p.loopStart = start
	p.loopEnd = end
	return nil
}

func (p *Player) SetPosition(position int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.song == nil || position < 0 || position >= len(p.song.GroupOrder) {
		return errors.Wrapf(ErrPosition, "%d", position)
	}
	p.cancelTimer()
	p.position = position
	p.triggerGroup()
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		return nil
	}
	if p.song == nil || len(p.song.GroupOrder) == 0 {
		return ErrNoSong
	}
	if p.role == RoleHuman && p.instrument < 0 {
		return ErrNoInstrument
	}
	if p.position >= len(p.song.GroupOrder) {
		p.position = p.loopStartPosition()
	}

	p.logger.Debug("play", "position", p.position, "role", p.role)
	p.playing = true
	p.triggerGroup()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pause()
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stop()
}

func (p *Player) TriggerGroup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggerGroup()
}

func (p *Player) AdvancePosition() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advancePosition()
}

func (p *Player) pause() {
	p.playing = false
	p.cancelTimer()
	p.out.Reset()
}

func (p *Player) stop() {
	p.pause()
	p.position = p.loopStartPosition()
}

func (p *Player) loopStartPosition() int {
	if p.loopStart != nil {
		return p.loopStart.Position
	}
	return 0
}

func (p *Player) currentGroup() *model.NoteGroup {
	return &p.song.Groups[p.song.GroupOrder[p.position]]
}

func (p *Player) triggerGroup() {
	if !p.playing {
		return
	}

	group := p.currentGroup()
	staves := p.practiceStaves()
	p.required = p.requiredKeys(group, staves)
	if missing := chord.Missing(p.required, p.pressed); len(missing) > 0 {
		p.logger.Debug("waiting for keys", "group", group.ID, "missing", chord.CreateChordKey(missing))
		return
	}

	p.pressed = make(chord.OnNotes)
	if group.SustainOn {
		p.out.Sustain(true)
	}
	p.releaseKeys(group, staves)
	p.triggerKeys(group, staves)
	p.awaitNextGroup(group)
}

// practiceStaves are the staves of the selected instrument the human plays.
func (p *Player) practiceStaves() []int {
	if p.role == RoleComputer || p.instrument < 0 {
		return nil
	}
	count := p.song.Instruments[p.instrument].StaffCount
	if count == 1 || p.hands == HandsBoth {
		res := make([]int, count)
		for i := range res {
			res[i] = i
		}
		return res
	}
	if p.hands == HandsLeft {
		return []int{1}
	}
	return []int{0}
}

func (p *Player) isPractice(instrument, staff int, staves []int) bool {
	return instrument == p.instrument && slices.Contains(staves, staff)
}

func (p *Player) requiredKeys(group *model.NoteGroup, staves []int) []int {
	var res []int
	for _, instrumentStaves := range group.Instruments {
		for s, staff := range instrumentStaves.Staves {
			if !p.isPractice(instrumentStaves.Instrument, s, staves) {
				continue
			}
			for _, note := range staff.Notes {
				if !note.Rest && !note.TieStop {
					res = append(res, note.NoteNumber)
				}
			}
		}
	}
	return res
}

func (p *Player) releaseKeys(group *model.NoteGroup, staves []int) {
	for _, instrumentStaves := range group.Instruments {
		instrument := p.song.Instruments[instrumentStaves.Instrument]
		for s, staff := range instrumentStaves.Staves {
			if p.isPractice(instrumentStaves.Instrument, s, staves) {
				continue
			}
			for _, key := range staff.NotesOff {
				p.out.NoteOff(key, instrument)
			}
		}
	}
}

func (p *Player) triggerKeys(group *model.NoteGroup, staves []int) {
	velocity := p.velocity.Velocity(p.userVelocity)
	for _, instrumentStaves := range group.Instruments {
		instrument := p.song.Instruments[instrumentStaves.Instrument]
		for s, staff := range instrumentStaves.Staves {
			if p.isPractice(instrumentStaves.Instrument, s, staves) {
				continue
			}
			for _, note := range staff.Notes {
				if !note.Rest && !note.TieStop {
					p.out.NoteOn(note.NoteNumber, velocity, instrument)
				}
			}
		}
	}
}

func (p *Player) awaitNextGroup(group *model.NoteGroup) {
	if p.role != RoleComputer {
		p.advancePosition()
	}
	if !p.playing {
		return
	}
	divisions := p.song.MeasureOf(group).Divisions
	p.arm(Delay(group, divisions, p.speed))
}

func (p *Player) arm(d time.Duration) {
	p.cancelTimer()
	generation := p.generation
	p.timer = p.clock.AfterFunc(d, func() {
		p.expire(generation)
	})
}

func (p *Player) cancelTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.generation++
}

func (p *Player) expire(generation uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if generation != p.generation || !p.playing {
		return
	}
	p.timer = nil
	if p.role == RoleComputer {
		p.advancePosition()
	}
	p.triggerGroup()
}

func (p *Player) advancePosition() {
	if !p.playing {
		return
	}

	if p.currentGroup().SustainOff {
		p.out.Sustain(false)
	}

	if p.loopEnd != nil && p.position == p.loopEnd.Position {
		p.position = p.loopStartPosition()
	} else {
		p.position++
	}

	if p.position >= len(p.song.GroupOrder) {
		p.logger.Debug("end of song")
		p.stop()
	}
}
