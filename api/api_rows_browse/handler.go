package api_rows_browse

import (
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
)

// rowsBrowseController selects a table (optionally) and returns its rows.
type rowsBrowseController struct {
	config   types.Config
	sessions ports.Sessions
}

// New creates a new rows browse handler
func New(cfg types.Config, sessions ports.Sessions) *rowsBrowseController {
	return &rowsBrowseController{config: cfg, sessions: sessions}
}

// Handle selects ?table= when given, otherwise refreshes the current table.
func (h *rowsBrowseController) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	sess, ctrl := h.sessions.Attach(w, r)

	var err error
	if table := strings.TrimSpace(r.URL.Query().Get("table")); table != "" {
		err = ctrl.SelectTable(r.Context(), table)
	} else {
		err = ctrl.Refresh(r.Context())
	}
	notices := sess.TakeNotices()
	if err != nil {
		api.Respond(w, r, api.Error(viewstate.UserMessage(err)))
		return
	}

	data := shared.StateData(ctrl.State())
	data["notices"] = shared.NoticesData(notices)
	api.Respond(w, r, api.SuccessWithData("rows_browsed", data))
}
