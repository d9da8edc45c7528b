package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	restPrefix     = "/rest/v1/"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

// PostgRESTOptions configures the hosted REST client.
type PostgRESTOptions struct {
	// BaseURL is the project URL, e.g. "https://xyz.supabase.co"
	BaseURL string
	// APIKey is sent both as apikey header and bearer token
	APIKey string
	// Timeout bounds a single HTTP attempt (default 10s)
	Timeout time.Duration
	// RetryMax is the number of retries after a failed attempt
	RetryMax int
	Logger   logrus.FieldLogger
}

// PostgREST implements Service over the Supabase REST interface.
type PostgREST struct {
	baseURL string
	apiKey  string
	client  *retryablehttp.Client
}

// NewPostgREST creates a client for the given project.
func NewPostgREST(opts PostgRESTOptions) (*PostgREST, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("supabase url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, errors.Wrap(err, "supabase url")
	}
	if opts.APIKey == "" {
		return nil, errors.New("supabase key is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := retryablehttp.NewClient()
	client.RetryMax = max(opts.RetryMax, 0)
	client.HTTPClient.Timeout = timeout
	// Hand non-2xx responses back to us so the store's error body can be read.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Logger != nil {
		client.Logger = leveledLogger{opts.Logger}
	} else {
		client.Logger = nil
	}

	return &PostgREST{baseURL: base, apiKey: opts.APIKey, client: client}, nil
}

// FetchAll runs GET /rest/v1/{table}?select=*.
func (p *PostgREST) FetchAll(ctx context.Context, table string) ([]*ordereddict.Dict, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("select", "*")
	body, err := p.do(ctx, http.MethodGet, table, q, nil)
	if err != nil {
		return nil, err
	}

	return decodeRows(body)
}

// InsertOne runs POST /rest/v1/{table} with a single-element array.
func (p *PostgREST) InsertOne(ctx context.Context, table string, record *ordereddict.Dict) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if err := checkRecord(record); err != nil {
		return err
	}

	payload, err := json.Marshal([]*ordereddict.Dict{record})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = p.do(ctx, http.MethodPost, table, nil, payload)
	return err
}

// DeleteByKey runs DELETE /rest/v1/{table}?id=eq.{id}.
func (p *PostgREST) DeleteByKey(ctx context.Context, table string, id string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("id is required")
	}

	q := url.Values{}
	q.Set(KeyColumn, "eq."+id)
	_, err := p.do(ctx, http.MethodDelete, table, q, nil)
	return err
}

func (p *PostgREST) do(ctx context.Context, method, table string, q url.Values, payload []byte) ([]byte, error) {
	endpoint := p.baseURL + restPrefix + url.PathEscape(table)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var body interface{}
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, table)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

func decodeRows(data []byte) ([]*ordereddict.Dict, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []*ordereddict.Dict{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode rows")
	}

	rows := make([]*ordereddict.Dict, 0, len(raw))
	for i, item := range raw {
		row := ordereddict.NewDict()
		if err := row.UnmarshalJSON(item); err != nil {
			return nil, errors.Wrapf(err, "decode row %d", i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeError(status int, data []byte) error {
	serr := &Error{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, serr)
	}
	serr.Status = status
	if serr.Message == "" {
		text := strings.TrimSpace(string(data))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		if text == "" {
			text = http.StatusText(status)
		}
		serr.Message = text
	}
	return serr
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) fields(keysAndValues []interface{}) logrus.FieldLogger {
	f := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			f[k] = keysAndValues[i+1]
		}
	}
	return l.log.WithFields(f)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
