package cmd

import (
	"encoding/json"

	"github.com/jsphweid/pianola/song"
	"github.com/spf13/cobra"
)

var compileJSON bool

func init() {
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "print the compiled song as JSON")
	rootCmd.AddCommand(compileCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <score>",
	Short: "Compiles a score and prints its groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := song.Load(args[0])
		if err != nil {
			return err
		}
		if compileJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(data)
		}
		song.Dump(cmd.OutOrStdout(), data)
		return nil
	},
}
