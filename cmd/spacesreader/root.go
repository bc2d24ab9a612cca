package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spacesreader/internal/flags"
	"spacesreader/internal/logger"
)

func newRootCmd(app *appContainer) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "spacesreader",
		Short: "Spacesreader loads documents from DigitalOcean Spaces.",
		Long: `A command-line tool that reads files from a DigitalOcean Spaces
bucket and converts them into documents for ingestion pipelines.
Configure your Spaces credentials once and load a single object, a
prefix, or the whole bucket from one place.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDebug(debug)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, flags.Debug, flags.DebugShort, false, "Enable verbose logging")

	rootCmd.AddCommand(newLoadCmd(app))
	rootCmd.AddCommand(newStorageCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))

	return rootCmd
}

func Execute(app *appContainer) {
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
