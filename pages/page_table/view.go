package page_table

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/constants"
	layout "github.com/dracory/gestor/shared/layout"
	"github.com/dracory/gestor/shared/urls"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/gouniverse/cdn"
	hb "github.com/gouniverse/hb"
)

// Placeholder is shown instead of the grid when there are no rows.
const Placeholder = viewstate.MsgNoData

// Handle renders the table page for st and returns the full HTML.
// csrfField is the hidden CSRF input added to every form and tables fills
// the selector. Notices are shown once, as banners and as a popup.
func Handle(
	basePath string,
	actionParam string,
	safeModeDefault bool,
	csrfField template.HTML,
	tables []string,
	st viewstate.State,
	notices []viewstate.Notice,
) (template.HTML, error) {
	pageCSS, err := css()
	if err != nil {
		return "", err
	}
	pageJS, err := js()
	if err != nil {
		return "", err
	}

	link := urls.New(basePath, actionParam)
	action := link.PageTable()
	form := func(op string, children ...hb.TagInterface) *hb.Tag {
		return hb.NewTag("form").
			Attr("method", "post").
			Attr("action", action).
			Child(hb.Raw(string(csrfField))).
			Child(hiddenInput("op", op)).
			Children(children)
	}

	main := hb.Div().Class("gs-page").Children([]hb.TagInterface{
		hb.Heading2().Text("Table: " + st.Table),
		noticeBanners(notices),
		toolbar(form, tables, st.Table),
		insertForm(form, st),
		grid(form, st, safeModeDefault),
	}).ToHTML()

	sidebar := summary(st, link.RowsBrowse(st.Table)).ToHTML()

	noticesJSON, err := json.Marshal(notices)
	if err != nil {
		return "", err
	}
	if notices == nil {
		noticesJSON = []byte("[]")
	}

	pageTitle := DefaultTitle
	if st.Table != "" {
		pageTitle = st.Table + " - " + pageTitle
	}

	page := layout.RenderWith(layout.Options{
		Title:           pageTitle,
		BasePath:        basePath,
		ActionParam:     actionParam,
		SafeModeDefault: safeModeDefault,
		MainHTML:        main,
		SidebarHTML:     sidebar,
		ExtraHead:       []hb.TagInterface{hb.Style(pageCSS)},
		ExtraBodyEnd: []hb.TagInterface{
			hb.ScriptURL(cdn.Sweetalert2_11()),
			hb.Script(`window.gestorNotices = ` + string(noticesJSON) + `;`),
			hb.Script(pageJS),
		},
	})

	return page, nil
}

func hiddenInput(name, value string) *hb.Tag {
	return hb.NewTag("input").Attr("type", "hidden").Attr("name", name).Attr("value", value)
}

func noticeBanners(notices []viewstate.Notice) *hb.Tag {
	box := hb.Div().Class("gs-notices")
	for _, n := range notices {
		box.Child(hb.Div().
			Class("gs-notice gs-notice-" + string(n.Level)).
			Attr("role", "alert").
			Text(n.Message))
	}
	return box
}

func toolbar(form func(string, ...hb.TagInterface) *hb.Tag, tables []string, current string) *hb.Tag {
	sel := hb.NewTag("select").Attr("name", "table").Attr("id", "gs-table-select")
	for _, name := range tables {
		opt := hb.NewTag("option").Attr("value", name).Text(name)
		if name == current {
			opt.Attr("selected", "selected")
		}
		sel.Child(opt)
	}

	return hb.Div().Class("gs-toolbar").Children([]hb.TagInterface{
		form(constants.OpSelect,
			hb.NewTag("label").Attr("for", "gs-table-select").Text("Table"),
			sel,
			hb.NewTag("button").Attr("type", "submit").Class("gs-btn").Text("Open"),
		).Class("gs-select-form"),
		form(constants.OpRefresh,
			hb.NewTag("button").Attr("type", "submit").Class("gs-btn").Text("Refresh"),
		).Class("gs-refresh-form"),
	})
}

func insertForm(form func(string, ...hb.TagInterface) *hb.Tag, st viewstate.State) hb.TagInterface {
	columns := st.FormColumns()
	if len(columns) == 0 {
		return hb.Div()
	}

	fields := make([]hb.TagInterface, 0, len(columns)+1)
	for _, column := range columns {
		id := "gs-draft-" + column
		fields = append(fields, hb.Div().Class("gs-field").Children([]hb.TagInterface{
			hb.NewTag("label").Attr("for", id).Text(column),
			hb.NewTag("input").
				Attr("type", "text").
				Attr("id", id).
				Attr("name", DraftPrefix+column).
				Attr("placeholder", column).
				Attr("value", st.Draft[column]),
		}))
	}
	fields = append(fields, hb.NewTag("button").Attr("type", "submit").Class("gs-btn gs-btn-primary").Text("Insert"))

	return hb.Div().Class("gs-insert").Children([]hb.TagInterface{
		hb.Heading3().Text("New record"),
		form(constants.OpInsert, fields...).Class("gs-insert-form"),
	})
}

func grid(form func(string, ...hb.TagInterface) *hb.Tag, st viewstate.State, safeMode bool) hb.TagInterface {
	if len(st.Rows) == 0 {
		return hb.Paragraph().Class("gs-placeholder").Text(Placeholder)
	}

	head := hb.NewTag("tr")
	for _, column := range st.Columns {
		head.Child(hb.NewTag("th").Text(column))
	}
	head.Child(hb.NewTag("th").Text("Actions"))

	body := hb.NewTag("tbody")
	for _, row := range st.Rows {
		tr := hb.NewTag("tr")
		for _, column := range st.Columns {
			tr.Child(hb.NewTag("td").Text(cellText(row, column)))
		}
		id := cellText(row, "id")
		deleteForm := form(constants.OpDelete,
			hiddenInput("id", id),
			hiddenInput("confirm", ""),
			hb.NewTag("button").Attr("type", "submit").Class("gs-btn gs-btn-danger").Text("Delete"),
		).Class("gs-delete-form").
			Attr("data-prompt", viewstate.PromptDelete).
			Attr("data-confirm", strconv.FormatBool(safeMode))
		tr.Child(hb.NewTag("td").Child(deleteForm))
		body.Child(tr)
	}

	return hb.NewTag("table").Class("gs-grid").Children([]hb.TagInterface{
		hb.NewTag("thead").Child(head),
		body,
	})
}

func summary(st viewstate.State, jsonURL string) *hb.Tag {
	return hb.Div().Class("gs-summary").Children([]hb.TagInterface{
		hb.Paragraph().Class("gs-summary-label").Text("Selected"),
		hb.Paragraph().Text(st.Table),
		hb.Paragraph().Class("gs-summary-label").Text("Rows"),
		hb.Paragraph().Text(strconv.Itoa(len(st.Rows))),
		hb.Paragraph().Class("gs-summary-label").Text("Columns"),
		hb.Paragraph().Text(strconv.Itoa(len(st.Columns))),
		hb.A().Class("gs-summary-json").Href(jsonURL).Text("As JSON"),
	})
}

// cellText renders a scalar cell; missing and null values render empty.
func cellText(row *ordereddict.Dict, column string) string {
	v, ok := row.Get(column)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
