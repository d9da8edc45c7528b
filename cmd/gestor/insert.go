package main

import (
	"strings"

	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newInsertCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "insert <table> column=value...",
		Short:   "Insert one row; empty values are left out",
		Example: "  gestor insert productos nombre=Silla precio=20",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

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
			for _, f := range fields {
				ctrl.UpdateDraftField(f[0], f[1])
			}
			if err := ctrl.SubmitInsert(cmd.Context()); err != nil {
				return err
			}
			return renderState(out, ctrl.State())
		},
	}
}

// parseAssignments splits column=value arguments, keeping their order.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, arg := range args {
		column, value, ok := strings.Cut(arg, "=")
		column = strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, errors.Errorf("expected column=value, got %q", arg)
		}
		if !dataservice.ValidIdent(column) {
			return nil, errors.Errorf("invalid column name %q", column)
		}
		out = append(out, [2]string{column, value})
	}
	return out, nil
}
