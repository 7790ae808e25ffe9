package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-parser/internal/config"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := (&config.Config{
		Items:            []string{"cucumbers", "spaghetti", "cherry tomatoes"},
		Aliases:          map[string]string{"spaghetti noodles": "spaghetti"},
		Locations:        []string{"L", "C"},
		TransactionTypes: []string{"warehouse_to_branch", "eaten"},
		ActionVerbs: map[string][]string{
			"warehouse_to_branch": {"passed"},
			"eaten":               {"eaten"},
		},
	}).Normalized()
	srv := New(cfg, "", t.TempDir())
	return srv, srv.Router()
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "POST %s: %s", path, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleConfig(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "warehouse", resp["default_source"])
	assert.Len(t, resp["items"], 3)
	options := resp["closed_set_options"].(map[string]interface{})
	assert.Contains(t, options["location"], "warehouse")
}

func TestHandleParseAndEdit(t *testing.T) {
	_, h := newTestServer(t)

	resp := postJSON(t, h, "/api/parse", map[string]string{
		"text": "passed 2x17 spaghetti noodles to L",
	})
	rows := resp["rows"].([]interface{})
	require.Len(t, rows, 2)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(-34), first["qty"])
	assert.Equal(t, "spaghetti", first["item"])
	assert.Equal(t, "warehouse", first["location"])

	// Editing the quantity mirrors the partner with the opposite sign.
	resp = postJSON(t, h, "/api/edit", map[string]interface{}{
		"row_idx": 0, "field": "qty", "value": "-40",
	})
	rows = resp["rows"].([]interface{})
	assert.Equal(t, float64(-40), rows[0].(map[string]interface{})["qty"])
	assert.Equal(t, float64(40), rows[1].(map[string]interface{})["qty"])
}

func TestHandleEditRejectsBadValues(t *testing.T) {
	_, h := newTestServer(t)
	postJSON(t, h, "/api/parse", map[string]string{"text": "4 cucumbers to L"})

	resp := postJSON(t, h, "/api/edit", map[string]interface{}{
		"row_idx": 0, "field": "qty", "value": "banana",
	})
	assert.Equal(t, "invalid quantity", resp["error"])

	resp = postJSON(t, h, "/api/edit", map[string]interface{}{
		"row_idx": 9, "field": "qty", "value": "4",
	})
	assert.Equal(t, "invalid row", resp["error"])
}

func TestHandleDeleteWarnsAboutPartner(t *testing.T) {
	_, h := newTestServer(t)
	postJSON(t, h, "/api/parse", map[string]string{"text": "4 cucumbers to L"})

	resp := postJSON(t, h, "/api/delete", map[string]interface{}{"row_idx": 0})
	rows := resp["rows"].([]interface{})
	assert.Len(t, rows, 1)
	assert.Contains(t, resp["warning"], "partner")
}

func TestHandlePartner(t *testing.T) {
	_, h := newTestServer(t)
	postJSON(t, h, "/api/parse", map[string]string{"text": "4 cucumbers to L"})

	resp := postJSON(t, h, "/api/partner", map[string]interface{}{"row_idx": 0})
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(1), resp["partner_idx"])
}

func TestHandleResolve(t *testing.T) {
	_, h := newTestServer(t)

	resp := postJSON(t, h, "/api/resolve", map[string]string{
		"text": "cucumbres", "candidates_type": "items",
	})
	assert.Equal(t, "cucumbers", resp["resolved"])
	assert.Equal(t, "fuzzy", resp["match_type"])
}

func TestHandleAliasLearning(t *testing.T) {
	srv, h := newTestServer(t)

	resp := postJSON(t, h, "/api/alias", map[string]string{
		"alias": "sketti", "target": "spaghetti",
	})
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "spaghetti", srv.cfg.Aliases["sketti"])

	// New alias takes effect on the next parse.
	parsed := postJSON(t, h, "/api/parse", map[string]string{"text": "3 sketti to L"})
	rows := parsed["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "spaghetti", rows[0].(map[string]interface{})["item"])
}

func TestHandleConversionResolvesPendingRows(t *testing.T) {
	srv, h := newTestServer(t)
	srv.cfg.UnitConversions = map[string]config.ConversionTable{
		"cherry tomatoes": {Factors: map[string]float64{"box": 500}},
	}

	// "box" is a known container but cucumbers has no factor yet.
	parsed := postJSON(t, h, "/api/parse", map[string]string{"text": "2 boxes cucumbers to L"})
	rows := parsed["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "box", rows[0].(map[string]interface{})["pending_container"])

	resp := postJSON(t, h, "/api/conversion", map[string]interface{}{
		"item": "cucumbers", "container": "box", "factor": 10,
	})
	assert.Equal(t, true, resp["ok"])
	rows = resp["rows"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(-20), first["qty"])
	assert.Nil(t, first["pending_container"])
}

func TestHandleExport(t *testing.T) {
	_, h := newTestServer(t)
	postJSON(t, h, "/api/parse", map[string]string{"text": "4 cucumbers to L"})

	resp := postJSON(t, h, "/api/export", map[string]interface{}{"workbook": false})
	clip := resp["clip"].(string)
	assert.Contains(t, clip, "cucumbers")
	assert.Contains(t, clip, "\t")
}

func TestHandleParseInvalidBody(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
