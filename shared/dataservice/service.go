// Package dataservice talks to the remote store holding the tables.
//
// Every backend exposes the same three calls per table: fetch all rows,
// insert one record, and delete one row by its "id" column.
package dataservice

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// KeyColumn is the identifier column every table carries.
const KeyColumn = "id"

// Service is the per-table API of the remote data store.
type Service interface {
	FetchAll(ctx context.Context, table string) ([]*ordereddict.Dict, error)
	InsertOne(ctx context.Context, table string, record *ordereddict.Dict) error
	DeleteByKey(ctx context.Context, table string, id string) error
}

// Pinger is implemented by services that can report their health cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Row builds a record from alternating column names and values.
func Row(kv ...interface{}) *ordereddict.Dict {
	d := ordereddict.NewDict()
	for i := 0; i+1 < len(kv); i += 2 {
		d.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return d
}

// Error is an error reported by the data store itself.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// Message returns the store's own message for err, or err's text when the
// failure did not come from the store.
func Message(err error) string {
	var serr *Error
	if errors.As(err, &serr) && serr.Message != "" {
		return serr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsNotFound reports whether err says the table does not exist.
func IsNotFound(err error) bool {
	var serr *Error
	if !errors.As(err, &serr) {
		return false
	}
	// 42P01 is undefined_table in Postgres; PostgREST answers 404 or PGRST205.
	return serr.Status == http.StatusNotFound || serr.Code == "42P01" || serr.Code == "PGRST205"
}

// ValidIdent allows only letters, digits and underscore, not starting with a digit.
func ValidIdent(ident string) bool {
	if len(ident) == 0 || (ident[0] >= '0' && ident[0] <= '9') {
		return false
	}
	for _, c := range ident {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}

func checkTable(table string) error {
	if !ValidIdent(table) {
		return errors.Errorf("invalid table identifier: %q", table)
	}
	return nil
}

func checkRecord(record *ordereddict.Dict) error {
	if record == nil || record.Len() == 0 {
		return errors.New("record is empty")
	}
	for _, k := range record.Keys() {
		if !ValidIdent(k) {
			return errors.Errorf("invalid column identifier: %q", k)
		}
	}
	return nil
}

// Open builds the service selected by cfg.Backend.
func Open(cfg types.Config, log logrus.FieldLogger) (Service, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", types.BackendPostgREST:
		return NewPostgREST(PostgRESTOptions{
			BaseURL:  cfg.SupabaseURL,
			APIKey:   cfg.SupabaseKey,
			Timeout:  cfg.RequestTimeout,
			RetryMax: cfg.HTTPRetryMax,
			Logger:   log,
		})
	case types.BackendSQL:
		return OpenSQL(cfg.DBDriver, cfg.DBDSN)
	case types.BackendMemory:
		if cfg.MemoryDemo {
			return NewDemoMemory(), nil
		}
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unsupported data backend: %s", cfg.Backend)
	}
}
