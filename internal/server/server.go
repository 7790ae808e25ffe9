// =============================================================================
// Inventory Message Parser - HTTP API
// =============================================================================
//
// Browser-facing review server. The session is a single shared working set
// (the last parse result plus the raw tokens behind item matches) guarded by
// a mutex; this mirrors the one-operator workflow the tool is built for.
//
// Endpoints:
//   GET  /api/config     - vocabulary and UI settings for the review page
//   POST /api/parse      - parse a message, replace the session rows
//   POST /api/edit       - edit one field, mirroring the double-entry partner
//   POST /api/delete     - delete a row, warning about its orphaned partner
//   POST /api/partner    - look up a row's double-entry partner
//   POST /api/resolve    - standalone vocabulary resolution (alias-learning UX)
//   POST /api/alias      - persist a learned alias
//   POST /api/conversion - persist a learned container conversion factor
//   POST /api/export     - render the session rows as TSV and a ledger workbook
//
// =============================================================================

package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"inventory-parser/internal/config"
	"inventory-parser/internal/export"
	"inventory-parser/internal/parser"
	"inventory-parser/internal/review"
)

// Server holds the review session state behind a mutex.
type Server struct {
	mu             sync.Mutex
	cfg            *config.Config
	configPath     string
	rows           []parser.Row
	notes          []string
	unparseable    []string
	originalTokens map[int]string
	exportDir      string
}

// New creates a review server. configPath may be empty, in which case
// learned vocabulary is kept in memory only.
func New(cfg *config.Config, configPath, exportDir string) *Server {
	return &Server{
		cfg:            cfg,
		configPath:     configPath,
		originalTokens: map[int]string{},
		exportDir:      exportDir,
	}
}

// Router assembles the chi router with the standard middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/config", s.handleConfig)
	r.Post("/api/parse", s.handleParse)
	r.Post("/api/edit", s.handleEdit)
	r.Post("/api/delete", s.handleDelete)
	r.Post("/api/partner", s.handlePartner)
	r.Post("/api/resolve", s.handleResolve)
	r.Post("/api/alias", s.handleAlias)
	r.Post("/api/conversion", s.handleConversion)
	r.Post("/api/export", s.handleExport)

	return r
}

// =============================================================================
// ROW SERIALIZATION
// =============================================================================

type rowJSON struct {
	Date             string  `json:"date"`
	Item             string  `json:"item"`
	Qty              float64 `json:"qty"`
	TransType        string  `json:"trans_type,omitempty"`
	Location         string  `json:"location,omitempty"`
	Batch            int     `json:"batch"`
	Notes            string  `json:"notes,omitempty"`
	PendingContainer string  `json:"pending_container,omitempty"`
	RawQty           float64 `json:"raw_qty,omitempty"`
	Warning          bool    `json:"warning"`
}

func (s *Server) serializeRows(rows []parser.Row) []rowJSON {
	out := make([]rowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowJSON{
			Date:             export.FormatDate(row.Date),
			Item:             row.Item,
			Qty:              row.Qty,
			TransType:        row.TransType,
			Location:         row.Location,
			Batch:            row.Batch,
			Notes:            row.Notes,
			PendingContainer: row.PendingContainer,
			RawQty:           row.RawQty,
			Warning:          export.RowHasWarning(row, s.cfg),
		})
	}
	return out
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	closedSet := map[string][]string{}
	for _, field := range []string{"item", "trans_type", "location"} {
		closedSet[field] = cfg.ClosedSetOptions(field)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":              cfg.Items,
		"locations":          cfg.Locations,
		"default_source":     cfg.DefaultSource,
		"transaction_types":  cfg.TransactionTypes,
		"aliases":            cfg.Aliases,
		"closed_set_options": closedSet,
		"required_fields":    cfg.RequiredFields,
		"field_order":        cfg.UI.FieldOrder,
		"table_headers":      cfg.UI.TableHeaders,
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	result := parser.Parse(req.Text, s.cfg, time.Time{})
	s.rows = result.Rows
	s.notes = result.Notes
	s.unparseable = result.Unparseable
	s.originalTokens = map[int]string{}
	resp := map[string]interface{}{
		"rows":        s.serializeRows(s.rows),
		"notes":       s.notes,
		"unparseable": s.unparseable,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowIdx int    `json:"row_idx"`
		Field  string `json:"field"`
		Value  string `json:"value"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.RowIdx < 0 || req.RowIdx >= len(s.rows) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error": "invalid row", "rows": s.serializeRows(s.rows),
		})
		return
	}

	row := &s.rows[req.RowIdx]
	switch req.Field {
	case "qty":
		qty, ok := review.EvalQty(req.Value)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"error": "invalid quantity", "rows": s.serializeRows(s.rows),
			})
			return
		}
		review.UpdatePartner(s.rows, req.RowIdx, "qty", qty)
		row.Qty = qty
	case "date":
		d, ok := review.ParseDate(req.Value)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"error": "invalid date", "rows": s.serializeRows(s.rows),
			})
			return
		}
		review.UpdatePartner(s.rows, req.RowIdx, "date", d)
		row.Date = d
	case "item":
		// Remember the replaced token so confirm can offer an alias.
		if row.Item != "" && row.Item != req.Value {
			s.originalTokens[req.RowIdx] = row.Item
		}
		review.UpdatePartner(s.rows, req.RowIdx, "item", req.Value)
		row.Item = req.Value
	case "trans_type":
		review.UpdatePartner(s.rows, req.RowIdx, "trans_type", req.Value)
		row.TransType = req.Value
	case "location":
		row.Location = req.Value
	case "batch":
		batch, err := strconv.Atoi(strings.TrimSpace(req.Value))
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"error": "invalid batch", "rows": s.serializeRows(s.rows),
			})
			return
		}
		review.UpdatePartner(s.rows, req.RowIdx, "batch", batch)
		row.Batch = batch
	case "notes":
		row.Notes = req.Value
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error": "unknown field", "rows": s.serializeRows(s.rows),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": s.serializeRows(s.rows)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowIdx int `json:"row_idx"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var warning string
	if req.RowIdx >= 0 && req.RowIdx < len(s.rows) {
		if pi, ok := review.FindPartner(s.rows, req.RowIdx); ok {
			if pi > req.RowIdx {
				pi--
			}
			warning = "row " + strconv.Itoa(pi+1) + " lost its double-entry partner"
		}
		s.rows = append(s.rows[:req.RowIdx], s.rows[req.RowIdx+1:]...)
	}

	resp := map[string]interface{}{"rows": s.serializeRows(s.rows)}
	if warning != "" {
		resp["warning"] = warning
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePartner(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowIdx int `json:"row_idx"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	pi, ok := review.FindPartner(s.rows, req.RowIdx)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": ok, "partner_idx": pi})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text       string `json:"text"`
		Candidates string `json:"candidates_type"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	var candidates []string
	switch req.Candidates {
	case "locations":
		candidates = cfg.LocationsWithSource()
	case "transaction_types":
		candidates = cfg.TransactionTypes
	default:
		candidates = cfg.Items
	}

	resolved, kind := parser.Resolve(req.Text, candidates, cfg.Aliases, parser.ResolveOptions{
		NormalizeSeparators: true,
		TryPlural:           true,
		TryPrefix:           true,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resolved":   resolved,
		"match_type": string(kind),
	})
}

func (s *Server) handleAlias(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alias  string `json:"alias"`
		Target string `json:"target"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	alias := strings.TrimSpace(req.Alias)
	target := strings.TrimSpace(req.Target)
	if alias == "" || target == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The alias target may itself be shorthand; resolve it against the whole
	// vocabulary first.
	entities := append([]string{}, s.cfg.Items...)
	entities = append(entities, s.cfg.LocationsWithSource()...)
	entities = append(entities, s.cfg.TransactionTypes...)
	resolved, kind := parser.Resolve(target, entities, s.cfg.Aliases, parser.ResolveOptions{
		NormalizeSeparators: true,
		TryPlural:           true,
		TryPrefix:           true,
	})
	if resolved != "" {
		target = resolved
	}

	s.cfg.AddAlias(alias, target)
	if err := s.persistConfig(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"resolved":   target,
		"match_type": string(kind),
	})
}

func (s *Server) handleConversion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item      string   `json:"item"`
		Container string   `json:"container"`
		Factor    *float64 `json:"factor"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	item := strings.TrimSpace(req.Item)
	container := strings.TrimSpace(req.Container)
	if item == "" || container == "" || req.Factor == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if resolved, _ := parser.Resolve(item, s.cfg.Items, s.cfg.Aliases, parser.ResolveOptions{
		TryPlural: true,
		TryPrefix: true,
	}); resolved != "" {
		item = resolved
	}

	s.cfg.AddConversion(item, container, *req.Factor)

	// Resolve the session rows that were waiting on this factor.
	for i, row := range s.rows {
		if row.Item == item && row.PendingContainer == container {
			s.rows[i] = review.ApplyConversion(row, *req.Factor)
		}
	}

	if err := s.persistConfig(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":        true,
		"item":      item,
		"container": container,
		"rows":      s.serializeRows(s.rows),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Workbook bool `json:"workbook"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := map[string]interface{}{
		"clip": export.TSV(s.rows, s.cfg),
		"alias_prompts": review.AliasOpportunities(
			s.rows, s.originalTokens, s.cfg),
		"conversion_prompts": review.ConversionOpportunities(s.rows, s.cfg),
	}

	if req.Workbook && len(s.rows) > 0 {
		path := filepath.Join(s.exportDir, export.OutputFilename(s.cfg, time.Now()))
		if err := export.WriteXLSX(s.rows, s.cfg, path); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error()})
			return
		}
		resp["workbook"] = path
	}

	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) persistConfig() error {
	if s.configPath == "" {
		return nil
	}
	return config.Save(s.cfg, s.configPath)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

