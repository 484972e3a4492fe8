package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/cache"
	"github.com/jsphweid/pianola/midi"
	"github.com/jsphweid/pianola/model"
	"github.com/jsphweid/pianola/player"
	"github.com/jsphweid/pianola/server"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, defaults to the settings file")
	rootCmd.AddCommand(serveCmd)
}

// mute stands in for a missing MIDI output.
type mute struct{}

func (mute) NoteOn(pitch int, velocity int, instrument model.Instrument) {}
func (mute) NoteOff(pitch int, instrument model.Instrument)              {}
func (mute) Sustain(on bool)                                             {}
func (mute) Reset()                                                      {}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the library and player over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		defer midi.CloseDriver()
		var out player.Output = mute{}
		if midiOut, err := midi.OpenOutput(settings.MidiOut); err != nil {
			log.Warn("serving without sound", "err", err)
		} else {
			out = midiOut
		}
		p, err := newPlayer(out)
		if err != nil {
			return err
		}

		if in, err := midi.OpenInput(settings.MidiIn); err != nil {
			log.Warn("no midi input, keys only come from /player/keys", "err", err)
		} else {
			stop, err := midi.Listen(in, p)
			if err != nil {
				return err
			}
			defer stop()
		}

		addr := settings.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return server.New(store, p, cache.LoadOrCompile).ListenAndServe(addr)
	},
}
