package cmd

import (
	"fmt"

	"github.com/jsphweid/pianola/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Lists MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midi.CloseDriver()
		ports := midi.Ports()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "in:")
		for _, name := range ports.In {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out, "out:")
		for _, name := range ports.Out {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	},
}
