package main

import (
	"fmt"
	"io"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
)

// printNotifier prints notices with the pterm success and error printers.
func printNotifier(out io.Writer) viewstate.Notifier {
	return viewstate.NotifierFunc(func(n viewstate.Notice) {
		if n.Level == viewstate.LevelSuccess {
			fmt.Fprint(out, pterm.Success.Sprintln(n.Message))
			return
		}
		fmt.Fprint(out, pterm.Error.Sprintln(n.Message))
	})
}

// renderState prints the rows of st as a table, or the placeholder when
// there are none.
func renderState(out io.Writer, st viewstate.State) error {
	if len(st.Rows) == 0 {
		fmt.Fprint(out, pterm.Info.Sprintln(viewstate.MsgNoData))
		return nil
	}

	data := pterm.TableData{st.Columns}
	for _, row := range st.Rows {
		data = append(data, cells(row, st.Columns))
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "%d row(s) in %s\n", len(st.Rows), st.Table)
	return nil
}

func cells(row *ordereddict.Dict, columns []string) []string {
	out := make([]string, len(columns))
	for i, column := range columns {
		if v, ok := row.Get(column); ok && v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// reportError prints err unless a notice already told the user about it.
func reportError(out io.Writer, err error) {
	var verr *viewstate.Error
	if errors.As(err, &verr) && verr.Kind != viewstate.KindUnknownTable {
		return
	}
	fmt.Fprint(out, pterm.Error.Sprintln(viewstate.UserMessage(err)))
}
