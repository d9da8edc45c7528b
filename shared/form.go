package shared

import (
	"net/url"
	"strings"

	"github.com/dracory/gestor/shared/dataservice"
	"github.com/gorilla/schema"
)

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeForm fills dst from the fixed fields of a posted form. Keys dst does
// not declare are ignored.
func DecodeForm(dst any, form url.Values) error {
	return formDecoder.Decode(dst, form)
}

// FormDraft collects the draft fields of a posted form: every key starting
// with prefix whose remainder is a valid column name.
func FormDraft(form url.Values, prefix string) map[string]string {
	draft := map[string]string{}
	for key := range form {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		column := strings.TrimPrefix(key, prefix)
		if !dataservice.ValidIdent(column) {
			continue
		}
		draft[column] = form.Get(key)
	}
	return draft
}
