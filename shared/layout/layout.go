package layout

import (
	"html/template"

	"github.com/dracory/gestor/shared/urls"
	hb "github.com/gouniverse/hb"
)

// AppName is shown in the header and the window title.
const AppName = "Gestor"

// Options bundles parameters for rendering the full HTML layout.
type Options struct {
	Title           string
	BasePath        string
	ActionParam     string
	SafeModeDefault bool
	MainHTML        string
	// SidebarHTML, when provided, renders on the left
	SidebarHTML  string
	ExtraHead    []hb.TagInterface
	ExtraBodyEnd []hb.TagInterface
}

// RenderWith builds the full HTML page and returns it as a safe HTML string.
func RenderWith(o Options) template.HTML {
	link := urls.New(o.BasePath, o.ActionParam)

	title := AppName
	if o.Title != "" {
		title = o.Title + " · " + AppName
	}

	headChildren := []hb.TagInterface{
		hb.Meta().Attr("charset", "utf-8"),
		hb.Meta().Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		hb.NewTag("title").Text(title),
		hb.StyleURL(link.AssetCSS()),
	}
	headChildren = append(headChildren, o.ExtraHead...)

	nav := hb.Nav().Class("gs-nav").Children([]hb.TagInterface{
		hb.A().Href(link.PageTable()).Text("Tables"),
		hb.A().Href(link.TablesList()).Text("API"),
		hb.A().Href(link.Healthz()).Text("Health"),
		hb.A().Href(link.Readyz()).Text("Ready"),
	})

	header := hb.Header().
		Class("gs-header").
		Child(
			hb.Div().
				Class("gs-container").
				Children([]hb.TagInterface{
					hb.Heading1().
						Class("gs-title").
						Child(hb.A().Href(link.PageTable()).Text(AppName)),
					nav,
				}),
		)

	main := hb.Main().Class("gs-main").
		Child(hb.Div().Class("gs-container").
			Child(hb.Raw(o.MainHTML)))

	footer := hb.Footer().Class("gs-footer gs-container").Child(
		hb.NewTag("small").Child(hb.Text("Delete confirmation: ")).
			ChildIf(o.SafeModeDefault, hb.Text("ON")).
			ChildIf(!o.SafeModeDefault, hb.Text("OFF")),
	)

	shell := hb.Div().Class("gs-shell").
		ChildIf(o.SidebarHTML != "", hb.Aside().Class("gs-sidebar").Child(hb.Raw(o.SidebarHTML))).
		Child(main)

	bodyChildren := []hb.TagInterface{
		header,
		shell,
		footer,
		hb.ScriptURL(link.AssetJS()),
	}
	bodyChildren = append(bodyChildren, o.ExtraBodyEnd...)

	html := hb.NewTag("html").
		Attr("lang", "en").
		Children([]hb.TagInterface{
			hb.NewTag("head").Children(headChildren),
			hb.NewTag("body").Children(bodyChildren),
		})

	return template.HTML("<!doctype html>" + html.ToHTML())
}
