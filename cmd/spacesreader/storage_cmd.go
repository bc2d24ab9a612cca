package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"spacesreader/internal/flags"
	"spacesreader/pkg/reader/dospaces"
	"spacesreader/pkg/spacesfs"
)

type storageFlags struct {
	bucket  string
	existOk bool
}

func newStorageCmd(app *appContainer) *cobra.Command {
	cmdFlags := storageFlags{}

	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect and manage objects in the Spaces bucket",
		Long:  `The storage command allows you to list, check, create, and read paths in the configured DigitalOcean Spaces bucket.`,
	}

	newConnector := func() (*dospaces.Reader, error) {
		return dospaces.New(app.connectorConfig(cmdFlags.bucket), app.Logger)
	}

	lsCmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the immediate children of a path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			reader, err := newConnector()
			if err != nil {
				return err
			}

			names, err := reader.ListDir(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("error listing '%s': %w", path, err)
			}

			if len(names) == 0 {
				fmt.Println("No entries found.")
				return nil
			}
			fmt.Print(app.DocFormatter.FormatListing(names))
			return nil
		},
	}

	existsCmd := &cobra.Command{
		Use:   "exists [path]",
		Short: "Check whether a path exists in the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newConnector()
			if err != nil {
				return err
			}

			exists, err := reader.Exists(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("error checking '%s': %w", args[0], err)
			}

			fmt.Println(exists)
			return nil
		},
	}

	mkdirCmd := &cobra.Command{
		Use:   "mkdir [path]",
		Short: "Create a directory path under the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newConnector()
			if err != nil {
				return err
			}

			if err := reader.MakeDirs(cmd.Context(), args[0], cmdFlags.existOk); err != nil {
				return fmt.Errorf("error creating '%s': %w", args[0], err)
			}

			fmt.Printf("Directory '%s' created.\n", args[0])
			return nil
		},
	}
	mkdirCmd.Flags().BoolVar(&cmdFlags.existOk, flags.ExistOk, false, "Do not fail if the path already exists.")

	catCmd := &cobra.Command{
		Use:   "cat [path]",
		Short: "Print the raw contents of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, err := newConnector()
			if err != nil {
				return err
			}

			rc, err := reader.Open(cmd.Context(), args[0], spacesfs.OpenOptions{})
			if err != nil {
				return fmt.Errorf("error opening '%s': %w", args[0], err)
			}
			defer rc.Close()

			if _, err := io.Copy(os.Stdout, rc); err != nil {
				return fmt.Errorf("error reading '%s': %w", args[0], err)
			}
			return nil
		},
	}

	storageCmd.PersistentFlags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "The Spaces bucket to target. Defaults to the configured bucket.")
	storageCmd.AddCommand(lsCmd, existsCmd, mkdirCmd, catCmd)
	return storageCmd
}
