package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/cache"
	"github.com/jsphweid/pianola/midi"
	"github.com/spf13/cobra"
)

var (
	playInstrument int
	playRole       string
	playHands      string
	playSpeed      float64
)

func init() {
	playCmd.Flags().IntVar(&playInstrument, "instrument", -1, "index of the instrument you play")
	playCmd.Flags().StringVar(&playRole, "role", "", "computer or human")
	playCmd.Flags().StringVar(&playHands, "hands", "", "both, left or right")
	playCmd.Flags().Float64Var(&playSpeed, "speed", 1, "delay multiplier, 2 is half speed")
	rootCmd.AddCommand(playCmd)
}

// flags win over the settings file
func applyPlayFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("role") {
		settings.Role = playRole
	}
	if cmd.Flags().Changed("hands") {
		settings.Hands = playHands
	}
	if cmd.Flags().Changed("speed") {
		settings.Speed = playSpeed
	}
}

var playCmd = &cobra.Command{
	Use:   "play <score|song id>",
	Short: "Plays a score over MIDI, waiting for your keys",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyPlayFlags(cmd)
		path, err := resolveScore(args[0])
		if err != nil {
			return err
		}
		data, err := cache.LoadOrCompile(path)
		if err != nil {
			return err
		}

		defer midi.CloseDriver()
		out, err := midi.OpenOutput(settings.MidiOut)
		if err != nil {
			return err
		}
		p, err := newPlayer(out)
		if err != nil {
			return err
		}
		p.Load(data)
		if err := p.SelectInstrument(playInstrument); err != nil {
			return err
		}

		in, err := midi.OpenInput(settings.MidiIn)
		if err != nil {
			log.Warn("playing without input", "err", err)
		} else {
			stop, err := midi.Listen(in, p)
			if err != nil {
				return err
			}
			defer stop()
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		if err := p.Play(); err != nil {
			return err
		}
		log.Info("playing", "score", path, "groups", len(data.GroupOrder))

		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.Stop()
				return nil
			case <-ticker.C:
				if !p.State().Playing {
					return nil
				}
			}
		}
	},
}
