package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	favorite   string
	unfavorite string
)

func init() {
	songsCmd.Flags().StringVar(&favorite, "favorite", "", "mark a song id as favorite")
	songsCmd.Flags().StringVar(&unfavorite, "unfavorite", "", "clear the favorite mark of a song id")
	rootCmd.AddCommand(songsCmd)
}

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "Lists the song library",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if favorite != "" {
			if err := store.SetFavorite(favorite, true); err != nil {
				return err
			}
		}
		if unfavorite != "" {
			if err := store.SetFavorite(unfavorite, false); err != nil {
				return err
			}
		}

		songs, err := store.List()
		if err != nil {
			return err
		}
		for _, song := range songs {
			mark := " "
			if song.Favorite {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  %s\n", mark, song.ID, song.Name, song.Author)
		}
		return nil
	},
}
