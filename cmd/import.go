package cmd

import (
	"fmt"

	"github.com/jsphweid/pianola/library"
	"github.com/spf13/cobra"
)

var noEngrave bool

func init() {
	importCmd.Flags().BoolVar(&noEngrave, "no-engrave", false, "skip rendering page images")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <score>...",
	Short: "Adds scores to the song library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		var engraver library.Engraver
		if settings.Engraver != "" && !noEngrave {
			engraver = library.CommandEngraver{Command: settings.Engraver}
		}

		for i, src := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "Importing %v of %v scores\n", i+1, len(args))
			song, err := library.Import(cmd.Context(), src, settings.DataPath, store, engraver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", song.ID, song.Name)
		}
		return nil
	},
}
