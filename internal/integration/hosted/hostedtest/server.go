// Package hostedtest provides an in-memory PostgREST server for tests.
package hostedtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
)

// ServiceKey is the key the fake server accepts.
const ServiceKey = "test-service-key"

type row = map[string]any

// uniqueKeys lists, per table, the column sets that must be unique.
var uniqueKeys = map[string][][]string{
	"users":         {{"id"}, {"email"}},
	"daily_entries": {{"id"}, {"user_id", "date"}},
	"meals":         {{"id"}},
	"habits":        {{"id"}},
	"goals":         {{"user_id"}},
}

// Server is a minimal PostgREST look-alike covering the features the hosted store uses:
// eq/in filters, select with embedded meals and habits, limit, order, on_conflict upserts
// and Prefer: return=representation.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tables   map[string][]row
	failWith int
	requests int
}

// NewServer starts a fake server. Close it when done.
func NewServer() *Server {
	s := &Server{tables: make(map[string][]row)}
	for table := range uniqueKeys {
		s.tables[table] = nil
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// FailWith makes every following request answer with status. Zero restores normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Count returns how many rows a table holds.
func (s *Server) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

// Requests returns how many requests were served.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if s.failWith != 0 {
		writeError(w, s.failWith, "", "injected failure")
		return
	}
	if r.Header.Get("apikey") != ServiceKey || r.Header.Get("Authorization") != "Bearer "+ServiceKey {
		writeError(w, http.StatusUnauthorized, "PGRST301", "invalid API key")
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	if _, ok := s.tables[table]; !ok {
		writeError(w, http.StatusNotFound, "42P01", fmt.Sprintf("relation %q does not exist", table))
		return
	}

	query := r.URL.Query()
	switch r.Method {
	case http.MethodGet:
		s.get(w, table, query)
	case http.MethodPost:
		s.post(w, r, table, query)
	case http.MethodPatch:
		s.patch(w, r, table, query)
	case http.MethodDelete:
		s.remove(w, table, query)
	default:
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	}
}

func (s *Server) get(w http.ResponseWriter, table string, query map[string][]string) {
	matched := s.filter(table, query)

	if order := first(query, "order"); order != "" {
		parts := strings.SplitN(order, ".", 2)
		col := parts[0]
		desc := len(parts) == 2 && parts[1] == "desc"
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := fmt.Sprint(matched[i][col]), fmt.Sprint(matched[j][col])
			if desc {
				return a > b
			}
			return a < b
		})
	}

	if limit := first(query, "limit"); limit != "" {
		var n int
		fmt.Sscanf(limit, "%d", &n)
		if n < len(matched) {
			matched = matched[:n]
		}
	}

	out := make([]row, 0, len(matched))
	for _, rec := range matched {
		out = append(out, s.project(table, rec, first(query, "select")))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) post(w http.ResponseWriter, r *http.Request, table string, query map[string][]string) {
	records, err := readRows(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "PGRST102", err.Error())
		return
	}

	merge := strings.Contains(r.Header.Get("Prefer"), "resolution=merge-duplicates")
	conflictCols := strings.Split(first(query, "on_conflict"), ",")

	stored := make([]row, 0, len(records))
	for _, rec := range records {
		if merge && conflictCols[0] != "" {
			if idx := s.indexOf(table, rec, conflictCols); idx >= 0 {
				for k, v := range rec {
					s.tables[table][idx][k] = v
				}
				stored = append(stored, s.tables[table][idx])
				continue
			}
		}
		if cols := s.violates(table, rec, -1); cols != nil {
			writeError(w, http.StatusConflict, "23505",
				fmt.Sprintf("duplicate key value violates unique constraint \"%s_%s_key\"", table, strings.Join(cols, "_")))
			return
		}
		s.tables[table] = append(s.tables[table], rec)
		stored = append(stored, rec)
	}

	s.respond(w, r, http.StatusCreated, stored)
}

func (s *Server) patch(w http.ResponseWriter, r *http.Request, table string, query map[string][]string) {
	records, err := readRows(r.Body)
	if err != nil || len(records) != 1 {
		writeError(w, http.StatusBadRequest, "PGRST102", "expected a single object")
		return
	}
	changes := records[0]

	updated := make([]row, 0)
	for i, rec := range s.tables[table] {
		if !matches(rec, query) {
			continue
		}
		candidate := copyRow(rec)
		for k, v := range changes {
			candidate[k] = v
		}
		if cols := s.violates(table, candidate, i); cols != nil {
			writeError(w, http.StatusConflict, "23505", "duplicate key value violates unique constraint")
			return
		}
		s.tables[table][i] = candidate
		updated = append(updated, candidate)
	}

	s.respond(w, r, http.StatusOK, updated)
}

func (s *Server) remove(w http.ResponseWriter, table string, query map[string][]string) {
	kept := s.tables[table][:0]
	for _, rec := range s.tables[table] {
		if !matches(rec, query) {
			kept = append(kept, rec)
		}
	}
	s.tables[table] = kept
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, rows []row) {
	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		writeJSON(w, status, rows)
		return
	}
	w.WriteHeader(status)
}

func (s *Server) filter(table string, query map[string][]string) []row {
	out := make([]row, 0)
	for _, rec := range s.tables[table] {
		if matches(rec, query) {
			out = append(out, rec)
		}
	}
	return out
}

// project applies a select list such as "id" or "*,meals(*),habits(*)".
func (s *Server) project(table string, rec row, sel string) row {
	out := make(row)
	if sel == "" {
		sel = "*"
	}
	for _, item := range strings.Split(sel, ",") {
		switch {
		case item == "*":
			for k, v := range rec {
				out[k] = v
			}
		case strings.HasSuffix(item, "(*)"):
			child := strings.TrimSuffix(item, "(*)")
			children := make([]row, 0)
			for _, c := range s.tables[child] {
				if fmt.Sprint(c["entry_id"]) == fmt.Sprint(rec["id"]) {
					children = append(children, c)
				}
			}
			out[child] = children
		default:
			out[item] = rec[item]
		}
	}
	return out
}

func (s *Server) indexOf(table string, rec row, cols []string) int {
	for i, existing := range s.tables[table] {
		if sameKey(existing, rec, cols) {
			return i
		}
	}
	return -1
}

// violates returns the unique column set rec collides with, ignoring the row at skip.
func (s *Server) violates(table string, rec row, skip int) []string {
	for _, cols := range uniqueKeys[table] {
		for i, existing := range s.tables[table] {
			if i != skip && sameKey(existing, rec, cols) {
				return cols
			}
		}
	}
	return nil
}

var reserved = map[string]bool{"select": true, "limit": true, "order": true, "on_conflict": true}

func matches(rec row, query map[string][]string) bool {
	for col, values := range query {
		if reserved[col] {
			continue
		}
		for _, cond := range values {
			if !matchCond(rec[col], cond) {
				return false
			}
		}
	}
	return true
}

func matchCond(value any, cond string) bool {
	got := fmt.Sprint(value)
	switch {
	case strings.HasPrefix(cond, "eq."):
		return got == strings.TrimPrefix(cond, "eq.")
	case strings.HasPrefix(cond, "in.(") && strings.HasSuffix(cond, ")"):
		for _, v := range strings.Split(cond[4:len(cond)-1], ",") {
			if got == v {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sameKey(a, b row, cols []string) bool {
	for _, c := range cols {
		av, aok := a[c]
		bv, bok := b[c]
		if !aok || !bok || fmt.Sprint(av) != fmt.Sprint(bv) {
			return false
		}
	}
	return true
}

func readRows(body io.Reader) ([]row, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	raw = []byte(strings.TrimSpace(string(raw)))
	if len(raw) > 0 && raw[0] == '[' {
		var rows []row
		err := json.Unmarshal(raw, &rows)
		return rows, err
	}
	var single row
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []row{single}, nil
}

func copyRow(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func first(query map[string][]string, key string) string {
	if v := query[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}
