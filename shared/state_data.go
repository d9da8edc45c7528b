package shared

import (
	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/samber/lo"
)

// StateData is the JSON shape of a view state shared by the API actions.
func StateData(st viewstate.State) map[string]any {
	rows := lo.Ternary(st.Rows == nil, []*ordereddict.Dict{}, st.Rows)
	columns := lo.Ternary(st.Columns == nil, []string{}, st.Columns)
	formColumns := st.FormColumns()
	if formColumns == nil {
		formColumns = []string{}
	}
	return map[string]any{
		"table":        st.Table,
		"columns":      columns,
		"form_columns": formColumns,
		"rows":         rows,
		"count":        len(rows),
		"draft":        lo.Ternary(st.Draft == nil, map[string]string{}, st.Draft),
	}
}

// NoticesData converts queued notices for an API response.
func NoticesData(notices []viewstate.Notice) []viewstate.Notice {
	if notices == nil {
		return []viewstate.Notice{}
	}
	return notices
}
