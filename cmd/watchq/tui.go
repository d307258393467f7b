package main

import (
	"github.com/spf13/cobra"

	"watchq/internal/tui"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive full-screen view",
	Long:  `Runs the same watch pipeline inside an alternate-screen terminal UI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, opts, ok, err := setup()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		defer tr.Close()

		code, err := tui.Run(tr, opts)
		if err != nil {
			return err
		}
		exitCode = code
		return nil
	},
}
