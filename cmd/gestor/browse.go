package main

import (
	"github.com/spf13/cobra"
)

func newBrowseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <table>",
		Short: "Print every row of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			ctrl := d.controller(out)
			if err := ctrl.SelectTable(cmd.Context(), args[0]); err != nil {
				return err
			}
			return renderState(out, ctrl.State())
		},
	}
}
