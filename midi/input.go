package midi

import (
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Keys is told about every key going down or up.
type Keys interface {
	KeyDown(key int, velocity int)
	KeyUp(key int)
}

// Dispatch forwards note messages to keys and reports whether msg was one.
func Dispatch(msg gomidi.Message, keys Keys) bool {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		keys.KeyDown(int(key), int(vel))
	case msg.GetNoteEnd(&ch, &key):
		keys.KeyUp(int(key))
	default:
		return false
	}
	return true
}

// Listen feeds key presses from port into keys until stop is called.
func Listen(port drivers.In, keys Keys) (stop func(), err error) {
	stop, err = gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		Dispatch(msg, keys)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not listen to %s", port.String())
	}
	return stop, nil
}
