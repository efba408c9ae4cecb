// Package web serves a read-only HTTP view of the index for browsers
// and scripts that cannot speak MCP. It is optional and off by default.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"docnav/internal/document"
	"docnav/internal/history"
	"docnav/internal/index"
	"docnav/internal/query"
)

// portProbeRange is how many consecutive ports are tried from the base
// before giving up.
const portProbeRange = 20

// Server exposes the query surface over HTTP.
type Server struct {
	svc  *query.Service
	ix   *index.Index
	hist *history.Store

	httpSrv *http.Server
}

// NewServer creates a web server. hist may be nil; the history endpoint
// then reports an empty list.
func NewServer(svc *query.Service, ix *index.Index, hist *history.Store) *Server {
	return &Server{svc: svc, ix: ix, hist: hist}
}

// Router builds the endpoint table.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/structure", s.handleStructure)
	mux.HandleFunc("/api/section/", s.handleSection)
	mux.HandleFunc("/api/metadata", s.handleMetadata)
	mux.HandleFunc("/api/dependencies", s.handleDependencies)
	mux.HandleFunc("/api/validate", s.handleValidate)
	mux.HandleFunc("/api/history", s.handleHistory)
	return mux
}

// Start probes ports portBase..portBase+19, binds the first free one
// and serves in a background goroutine. It returns the bound port.
func (s *Server) Start(portBase int) (int, error) {
	var ln net.Listener
	var port int
	var err error
	for p := portBase; p < portBase+portProbeRange; p++ {
		ln, err = net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p))
		if err == nil {
			port = p
			break
		}
	}
	if ln == nil {
		return 0, fmt.Errorf("no free port in %d..%d: %w", portBase, portBase+portProbeRange-1, err)
	}

	s.httpSrv = &http.Server{Handler: s.Router()}
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WARNING: web server stopped: %v", err)
		}
	}()
	log.Printf("web server listening on 127.0.0.1:%d", port)
	return port, nil
}

// Stop closes the listener and drops in-flight connections.
func (s *Server) Stop() {
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an operation error onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch document.KindOf(err) {
	case document.KindNotFound:
		status = http.StatusNotFound
	case document.KindInvalidArgument:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"kind":    string(document.KindOf(err)),
		"error":   err.Error(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.ix.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sections": len(snap.Sections),
		"roots":    len(snap.RootFiles),
	})
}

// handleStructure serves the per-root-file section trees, the same
// payload as the get_root_files_structure tool.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"root_files": s.svc.GetRootFilesStructure(),
	})
}

// handleSection serves /api/section/{path}. With ?context=full the
// section object additionally carries the complete source file text and
// the section's position inside it; the flat section fields stay in
// place.
func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, "/api/section/")
	if p == "" {
		writeError(w, document.NewError(document.KindInvalidArgument, "section path missing"))
		return
	}

	sec, err := s.svc.GetSection(p)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("context") != "full" {
		writeJSON(w, http.StatusOK, sec)
		return
	}

	snap := s.ix.Snapshot()
	full := ""
	abs := filepath.Join(snap.Root, filepath.FromSlash(sec.SourceFile))
	if data, err := os.ReadFile(abs); err == nil {
		full = string(data)
	}

	payload := map[string]any{}
	if data, err := json.Marshal(sec); err == nil {
		_ = json.Unmarshal(data, &payload)
	}
	payload["full_content"] = full
	payload["section_position"] = map[string]int{
		"line_start": sec.LineStart,
		"line_end":   sec.LineEnd,
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Query().Get("path"); p != "" {
		meta, err := s.svc.GetSectionMetadata(p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, meta)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.GetProjectMetadata())
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.GetDependencies())
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ValidateStructure())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		writeJSON(w, http.StatusOK, map[string]any{"edits": []history.Entry{}, "count": 0})
		return
	}
	entries, err := s.hist.Recent(intParam(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"edits": entries, "count": len(entries)})
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
