package urls

import (
	neturl "net/url"
	"sort"

	"github.com/dracory/gestor/shared/constants"
	"github.com/samber/lo"
)

// DefaultActionParam is the query key that selects the action.
const DefaultActionParam = "action"

// Builder builds the URLs of one mounted handler.
type Builder struct {
	basePath    string
	actionParam string
}

// New returns a Builder for the handler mounted at basePath that reads the
// action from actionParam.
func New(basePath, actionParam string) Builder {
	return Builder{basePath: basePath, actionParam: actionParam}
}

// PageTable builds the URL of the table page.
func (b Builder) PageTable() string {
	return Build(b.basePath, b.actionParam, constants.ActionPageTable)
}

// TablesList builds the URL that lists the registered tables.
func (b Builder) TablesList() string {
	return Build(b.basePath, b.actionParam, constants.ActionApiTablesList)
}

// RowsBrowse builds the URL that returns the rows of a table. An empty
// table refreshes the current selection.
func (b Builder) RowsBrowse(table string) string {
	p := map[string]string{}
	if table != "" {
		p["table"] = table
	}
	return Build(b.basePath, b.actionParam, constants.ActionApiRowsBrowse, p)
}

// AssetCSS builds the URL of the shared stylesheet.
func (b Builder) AssetCSS() string {
	return Build(b.basePath, b.actionParam, constants.ActionAssetCSS)
}

// AssetJS builds the URL of the shared script.
func (b Builder) AssetJS() string {
	return Build(b.basePath, b.actionParam, constants.ActionAssetJS)
}

// Healthz builds the liveness URL.
func (b Builder) Healthz() string {
	return Build(b.basePath, b.actionParam, constants.ActionHealthz)
}

// Readyz builds the readiness URL.
func (b Builder) Readyz() string {
	return Build(b.basePath, b.actionParam, constants.ActionReadyz)
}

// Build constructs a URL like: basePath?actionParam=action&k=v...
// - basePath: mount path, e.g. "/db"
// - actionParam: query key that selects behavior, e.g. "action"
// - action: the action value, e.g. "page_table"
// - params: optional extra query parameters; nil allowed
// Keys are sorted for stable output. Values are URL-escaped.
func Build(basePath, actionParam, action string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	if actionParam == "" {
		actionParam = DefaultActionParam
	}

	// Ensure basePath starts with '/'
	if basePath == "" || basePath[0] != '/' {
		basePath = "/" + basePath
	}
	q := neturl.Values{}
	q.Set(actionParam, action)
	keys := lo.Filter(lo.Keys(p), func(k string, _ int) bool { return k != "" && k != actionParam })
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, p[k])
	}
	return basePath + "?" + q.Encode()
}
