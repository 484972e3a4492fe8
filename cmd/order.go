package cmd

import (
	"fmt"

	"github.com/jsphweid/pianola/song"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(orderCmd)
}

var orderCmd = &cobra.Command{
	Use:   "order <score>",
	Short: "Prints the order groups are played in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := song.Load(args[0])
		if err != nil {
			return err
		}
		for position, id := range data.GroupOrder {
			g := data.Groups[id]
			fmt.Fprintf(cmd.OutOrStdout(), "%d\tgroup %d\tmeasure %s\ttime %d\n",
				position, id, data.Measures[g.Measure].Number, g.Time)
		}
		return nil
	},
}
