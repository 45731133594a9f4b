package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"delivery-tracker/internal/apperr"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type fakeSheetsAPI struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	values   [][]any
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"caller does not have permission"}}`)
		return
	}
	switch {
	case r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": "Hoja1!A2:AD", "values": f.values})
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeSheetsAPI) Requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func newTestGateway(t *testing.T, api *fakeSheetsAPI) (*Gateway, *int) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	inits := 0
	g := NewGateway(Config{SpreadsheetID: "sheet-123"})
	g.newService = func(ctx context.Context, _ ...option.ClientOption) (*sheetsapi.Service, error) {
		inits++
		return sheetsapi.NewService(ctx,
			option.WithEndpoint(srv.URL+"/"),
			option.WithoutAuthentication(),
			option.WithHTTPClient(srv.Client()),
		)
	}
	return g, &inits
}

func TestGateway_Get_ConvertsCellsToStrings(t *testing.T) {
	t.Parallel()

	api := &fakeSheetsAPI{values: [][]any{{"a", "ORD-1", 3}, {}, {"", "ORD-2"}}}
	g, inits := newTestGateway(t, api)

	rows, err := g.Get(context.Background(), Columns("Hoja1", 0, 29, 2))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"a", "ORD-1", "3"}, {}, {"", "ORD-2"}}, rows)

	_, err = g.Get(context.Background(), Columns("Hoja1", 1, 1, 2))
	require.NoError(t, err)
	require.Equal(t, 1, *inits, "client must be built once")

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	require.Equal(t, http.MethodGet, reqs[0].Method)
	require.True(t, strings.HasSuffix(reqs[0].Path, "/v4/spreadsheets/sheet-123/values/Hoja1!A2:AD"), reqs[0].Path)
}

func TestGateway_BatchUpdate_SingleRequest(t *testing.T) {
	t.Parallel()

	api := &fakeSheetsAPI{}
	g, _ := newTestGateway(t, api)

	err := g.BatchUpdate(context.Background(), []CellUpdate{
		{Range: Row("Hoja1", 6, 8, 5), Values: [][]string{{"delivered", "", "2025-01-01T00:00:00Z"}}},
		{Range: Cell("Hoja1", 28, 5), Values: [][]string{{"left with neighbour"}}},
	})
	require.NoError(t, err)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, http.MethodPost, reqs[0].Method)
	require.True(t, strings.HasSuffix(reqs[0].Path, "/values:batchUpdate"), reqs[0].Path)
	require.Equal(t, "RAW", reqs[0].Body["valueInputOption"])

	data, ok := reqs[0].Body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	require.Equal(t, "Hoja1!G5:I5", data[0].(map[string]any)["range"])
	require.Equal(t, "Hoja1!AC5", data[1].(map[string]any)["range"])
}

func TestGateway_BatchUpdate_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	api := &fakeSheetsAPI{}
	g, inits := newTestGateway(t, api)

	require.NoError(t, g.BatchUpdate(context.Background(), nil))
	require.Empty(t, api.Requests())
	require.Zero(t, *inits)
}

func TestGateway_Append_UsesRawInsertRows(t *testing.T) {
	t.Parallel()

	api := &fakeSheetsAPI{}
	g, _ := newTestGateway(t, api)

	err := g.Append(context.Background(), Columns("Hoja1", 0, 29, 1), [][]string{{"pending", "ORD-1"}})
	require.NoError(t, err)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	require.True(t, strings.HasSuffix(reqs[0].Path, "/values/Hoja1!A1:AD:append"), reqs[0].Path)
	require.Contains(t, reqs[0].Query, "valueInputOption=RAW")
	require.Contains(t, reqs[0].Query, "insertDataOption=INSERT_ROWS")
}

func TestGateway_RemoteErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	api := &fakeSheetsAPI{status: http.StatusForbidden}
	g, _ := newTestGateway(t, api)

	_, err := g.Get(context.Background(), Columns("Hoja1", 0, 29, 2))
	require.ErrorIs(t, err, apperr.ErrUnavailable)

	var gerr *googleapi.Error
	require.True(t, errors.As(err, &gerr))
	require.Equal(t, http.StatusForbidden, gerr.Code)

	err = g.Append(context.Background(), Columns("Hoja1", 0, 29, 1), [][]string{{"x"}})
	require.ErrorIs(t, err, apperr.ErrUnavailable)
	require.Len(t, api.Requests(), 2, "no retries")
}

func TestGateway_InitErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("no credentials")
	g := NewGateway(Config{SpreadsheetID: "x"})
	g.newService = func(context.Context, ...option.ClientOption) (*sheetsapi.Service, error) {
		return nil, wantErr
	}

	_, err := g.Get(context.Background(), Columns("Hoja1", 0, 1, 2))
	require.ErrorIs(t, err, apperr.ErrUnavailable)
	require.ErrorIs(t, err, wantErr)
}
