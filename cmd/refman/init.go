package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ncukondo/reference-manager-sub005/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a new reference library",
	Long: `Create a new reference library directory.

The library holds references.json (the canonical store), attachments/, and
cache/. With no path, the current directory is used.

Examples:
  refman init
  refman init ~/references`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = config.ExpandPath(args[0])
	}

	if err := config.InitLibrary(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	abs := root
	if a, err := os.Getwd(); err == nil && root == "." {
		abs = a
	}

	if humanOutput {
		outputHuman("Initialized empty reference library in %s\n", abs)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: abs})
	}
	return nil
}
