package main

import (
	"fmt"

	"github.com/dracory/gestor/shared/tables"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newTablesCmd(_ *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables that can be browsed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			first := tables.Default.First()
			items := lo.Map(tables.Default.Names(), func(name string, _ int) pterm.BulletListItem {
				return pterm.BulletListItem{Level: 0, Text: lo.Ternary(name == first, name+" (default)", name)}
			})
			list, err := pterm.DefaultBulletList.WithItems(items).Srender()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), list)
			return nil
		},
	}
}
