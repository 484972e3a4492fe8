package cmd

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/pianola/config"
	"github.com/jsphweid/pianola/constants"
	"github.com/jsphweid/pianola/db"
	"github.com/jsphweid/pianola/library"
	"github.com/spf13/cobra"
)

var (
	debug      bool
	configPath string
	settings   config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "pianola",
	Short: "Play along with MusicXML scores",
	Long: `pianola compiles MusicXML scores into timed note groups and plays them
back over MIDI, waiting for you wherever your part has notes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			log.SetLevel(log.DebugLevel)
		}
		var err error
		settings, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", constants.GetConfigPath(), "settings file")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// Run executes the command line args, writing output to out.
func Run(args []string, out io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.Execute()
}

func openStore() (library.Store, error) {
	if settings.Dynamo == nil {
		return library.NewFileStore(settings.DataPath), nil
	}
	client, err := db.Connect(settings.Dynamo.Region, settings.Dynamo.Endpoint)
	if err != nil {
		return nil, err
	}
	return db.NewDynamoStore(client, settings.Dynamo.Table, settings.DataPath), nil
}
