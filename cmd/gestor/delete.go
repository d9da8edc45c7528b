package main

import (
	"context"

	"github.com/dracory/gestor/shared/viewstate"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete the row with the given id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer d.Close()

			out := cmd.OutOrStdout()
			ctrl := d.controller(out)
			if err := ctrl.SelectTable(cmd.Context(), args[0]); viewstate.IsKind(err, viewstate.KindUnknownTable) {
				return err
			}

			confirmer := viewstate.Always
			if !yes {
				confirmer = terminalConfirmer{}
			}
			if err := ctrl.DeleteRow(cmd.Context(), args[1], confirmer); err != nil {
				return err
			}
			return renderState(out, ctrl.State())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}

// terminalConfirmer asks on the terminal; anything but an explicit yes
// declines.
type terminalConfirmer struct{}

func (terminalConfirmer) Confirm(_ context.Context, prompt string) bool {
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(prompt)
	return err == nil && ok
}
