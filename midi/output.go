package midi

import (
	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	holdPedal       = 64
	resetAll        = 121
	allNotesOff     = 123
	pedalDown uint8 = 127
	pedalUp   uint8 = 0
)

// Output sends player events to a MIDI port, one channel per instrument.
type Output struct {
	send     func(msg gomidi.Message) error
	logger   *log.Logger
	channels map[uint8]bool
}

func NewOutput(send func(msg gomidi.Message) error) *Output {
	return &Output{
		send:     send,
		logger:   log.Default().WithPrefix("midi"),
		channels: make(map[uint8]bool),
	}
}

// OpenOutput connects to the first output port whose name contains name.
func OpenOutput(name string) (*Output, error) {
	port, err := findOutPort(name)
	if err != nil {
		return nil, err
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", port.String())
	}
	return NewOutput(send), nil
}

func Channel(instrument model.Instrument) uint8 {
	return uint8(instrument.Index % 16)
}

func (o *Output) write(msg gomidi.Message) {
	if err := o.send(msg); err != nil {
		o.logger.Error("send failed", "msg", msg.String(), "err", err)
	}
}

func (o *Output) NoteOn(pitch int, velocity int, instrument model.Instrument) {
	ch := Channel(instrument)
	o.channels[ch] = true
	o.write(gomidi.NoteOn(ch, uint8(pitch), uint8(velocity)))
}

func (o *Output) NoteOff(pitch int, instrument model.Instrument) {
	o.write(gomidi.NoteOff(Channel(instrument), uint8(pitch)))
}

// Sustain applies to every channel that has sounded, or channel 0 before that.
func (o *Output) Sustain(on bool) {
	value := pedalUp
	if on {
		value = pedalDown
	}
	for _, ch := range o.usedChannels() {
		o.write(gomidi.ControlChange(ch, holdPedal, value))
	}
}

func (o *Output) Reset() {
	for _, ch := range o.usedChannels() {
		o.write(gomidi.ControlChange(ch, allNotesOff, 0))
		o.write(gomidi.ControlChange(ch, resetAll, 0))
	}
}

func (o *Output) usedChannels() []uint8 {
	if len(o.channels) == 0 {
		return []uint8{0}
	}
	var res []uint8
	for ch := uint8(0); ch < 16; ch++ {
		if o.channels[ch] {
			res = append(res, ch)
		}
	}
	return res
}
