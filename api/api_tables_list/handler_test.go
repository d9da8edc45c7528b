package api_tables_list_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dracory/gestor/api/api_tables_list"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/session"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newStore() *session.Store {
	mem := dataservice.NewMemory()
	return session.NewStore(func(n viewstate.Notifier) *viewstate.Controller {
		return viewstate.New(mem, viewstate.WithNotifier(n))
	}, false)
}

func TestTablesList_Handle(t *testing.T) {
	t.Run("lists the registry", func(t *testing.T) {
		handler := api_tables_list.New(types.Config{}, newStore())

		w := httptest.NewRecorder()
		handler.Handle(w, httptest.NewRequest(http.MethodGet, "/?action=api_tables_list", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, []any{"clientes", "productos", "pedidos", "detalles"}, resp.Data["tables"])
		assert.Equal(t, float64(4), resp.Data["count"])
		assert.Equal(t, "clientes", resp.Data["current"])
	})

	t.Run("unsupported HTTP method", func(t *testing.T) {
		handler := api_tables_list.New(types.Config{}, newStore())

		w := httptest.NewRecorder()
		handler.Handle(w, httptest.NewRequest(http.MethodPost, "/", nil))

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "method not allowed", resp.Message)
	})
}
