package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/fleetcheck/internal/config"
)

type recordedCall struct {
	method string
	path   string
	body   map[string]any
}

func newTestRepository(t *testing.T) (*GoogleSheetRepository, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{method: r.Method, path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&call.body)
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	repo, err := NewGoogleSheetRepository(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"}, nil,
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return repo, &calls
}

func TestReplaceRangeClearsThenUpdates(t *testing.T) {
	repo, calls := newTestRepository(t)

	err := repo.ReplaceRange(context.Background(), "VOM_Consolidado!A1", [][]interface{}{{"Móvil", "Placa"}, {"Móvil 1", "ABC-1"}})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	clearCall, updateCall := (*calls)[0], (*calls)[1]
	assert.Equal(t, http.MethodPost, clearCall.method)
	assert.True(t, strings.HasSuffix(clearCall.path, "/spreadsheets/sheet-123/values/VOM_Consolidado:clear"), clearCall.path)
	assert.Equal(t, http.MethodPut, updateCall.method)
	assert.Contains(t, updateCall.path, "/values/VOM_Consolidado!A1")
	assert.Len(t, updateCall.body["values"], 2)
}

func TestWriteRowAppends(t *testing.T) {
	repo, calls := newTestRepository(t)

	require.NoError(t, repo.WriteRow(context.Background(), "Cumplimiento!A:E", []interface{}{"2026-05-01", 1, 10, 12}))

	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.True(t, strings.HasSuffix((*calls)[0].path, ":append"), (*calls)[0].path)
}

func TestEmptyRangeRejected(t *testing.T) {
	repo, calls := newTestRepository(t)

	assert.Error(t, repo.WriteRow(context.Background(), "", nil))
	assert.Error(t, repo.ReplaceRange(context.Background(), "", nil))
	assert.Empty(t, *calls)
}

func TestSheetOf(t *testing.T) {
	assert.Equal(t, "Data", sheetOf("Data!A1:C9"))
	assert.Equal(t, "Data", sheetOf("Data"))
}
