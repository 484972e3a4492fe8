package cmd

import (
	"os"

	"github.com/jsphweid/pianola/midi"
	"github.com/jsphweid/pianola/song"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <score> <out.mid>",
	Short: "Writes a score as a Standard MIDI File with repeats unrolled",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := song.Load(args[0])
		if err != nil {
			return err
		}
		f, err := os.Create(args[1])
		if err != nil {
			return errors.Wrap(err, "could not create midi file")
		}
		if err := midi.Export(data, settings.AccompanyVelocity, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}
