package api_tables_list

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared/types"
)

// tablesListController lists the tables the UI can open.
type tablesListController struct {
	config   types.Config
	sessions ports.Sessions
}

// New creates a new tables list handler
func New(cfg types.Config, sessions ports.Sessions) *tablesListController {
	return &tablesListController{config: cfg, sessions: sessions}
}

// Handle answers with the registered table names and the current selection.
func (h *tablesListController) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	_, ctrl := h.sessions.Attach(w, r)
	names := ctrl.Registry().Names()

	api.Respond(w, r, api.SuccessWithData("tables_listed", map[string]any{
		"tables":  names,
		"count":   len(names),
		"current": ctrl.State().Table,
	}))
}
