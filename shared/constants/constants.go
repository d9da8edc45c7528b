package constants

// Action names for the single-endpoint router.
const (
	ActionPageTable = "page_table"

	ActionApiTablesList  = "api_tables_list"
	ActionApiRowsBrowse  = "api_rows_browse"
	ActionApiDraftUpdate = "api_draft_update"
	ActionApiRowInsert   = "api_row_insert"
	ActionApiRowDelete   = "api_row_delete"

	ActionAssetCSS = "asset_css"
	ActionAssetJS  = "asset_js"
	ActionHealthz  = "healthz"
	ActionReadyz   = "readyz"
)

// Operations posted by the table page form.
const (
	OpSelect  = "select"
	OpRefresh = "refresh"
	OpInsert  = "insert"
	OpDelete  = "delete"
)

// ConfirmYes is the only form value accepted as a delete confirmation.
const ConfirmYes = "yes"

// Content types used by the embedded server.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeCSS  = "text/css; charset=utf-8"
	ContentTypeJS   = "application/javascript; charset=utf-8"
)
