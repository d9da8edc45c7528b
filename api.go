package gestor

import (
	"net/http"

	api "github.com/dracory/api"
)

// WriteSuccess writes a success envelope with a message and status code.
func WriteSuccess(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status == http.StatusOK {
		api.Respond(w, r, api.Success(msg))
		return
	}
	api.RespondWithStatusCode(w, r, api.Success(msg), status)
}

// WriteNotFound writes an error envelope with status 404.
func WriteNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	api.RespondWithStatusCode(w, r, api.Error(msg), http.StatusNotFound)
}

// WriteUnavailable writes an error envelope with status 503.
func WriteUnavailable(w http.ResponseWriter, r *http.Request, msg string) {
	api.RespondWithStatusCode(w, r, api.Error(msg), http.StatusServiceUnavailable)
}

// WriteForbidden writes an error envelope with status 403.
func WriteForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	api.RespondWithStatusCode(w, r, api.Error(msg), http.StatusForbidden)
}
