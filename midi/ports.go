package midi

import (
	"strings"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var ErrNoPort = errors.New("no matching midi port")

type PortNames struct {
	In  []string
	Out []string
}

func Ports() PortNames {
	var res PortNames
	for _, in := range gomidi.GetInPorts() {
		res.In = append(res.In, in.String())
	}
	for _, out := range gomidi.GetOutPorts() {
		res.Out = append(res.Out, out.String())
	}
	return res
}

// findOutPort returns the first output whose name contains name, or the first
// output at all when name is empty.
func findOutPort(name string) (drivers.Out, error) {
	for _, out := range gomidi.GetOutPorts() {
		if name == "" || strings.Contains(out.String(), name) {
			return out, nil
		}
	}
	return nil, errors.Wrapf(ErrNoPort, "output %q", name)
}

// OpenInput finds an input port the same way. Listen opens it.
func OpenInput(name string) (drivers.In, error) {
	for _, in := range gomidi.GetInPorts() {
		if name == "" || strings.Contains(in.String(), name) {
			return in, nil
		}
	}
	return nil, errors.Wrapf(ErrNoPort, "input %q", name)
}

func CloseDriver() {
	gomidi.CloseDriver()
}
