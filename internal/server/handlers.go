package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mhertel/cardgrid/pkg/card"
	cgerrors "github.com/mhertel/cardgrid/pkg/errors"
	"github.com/mhertel/cardgrid/pkg/pipeline"
	"github.com/mhertel/cardgrid/pkg/store"
)

// createRequest is the POST /v1/grids body.
type createRequest struct {
	Deck    card.Deck        `json:"deck"`
	Options pipeline.Options `json:"options"`
}

// createResponse is the POST /v1/grids response.
type createResponse struct {
	ID        string             `json:"id"`
	Grid      card.Grid          `json:"grid"`
	Stats     statsResponse      `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

type statsResponse struct {
	CardCount    int    `json:"card_count"`
	RowCount     int    `json:"row_count"`
	MeasureTime  string `json:"measure_time"`
	AllocateTime string `json:"allocate_time"`
	RenderTime   string `json:"render_time"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateGrid(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	// Artifacts are rendered on demand via the artifact endpoint; the
	// create path only computes the grid.
	req.Options.Formats = []string{pipeline.FormatJSON}

	result, err := s.cfg.Runner.Execute(r.Context(), req.Deck, req.Options)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rec := &store.Record{
		ID:          uuid.NewString(),
		Title:       req.Deck.Title,
		Deck:        req.Deck,
		Grid:        result.Grid,
		MeasureHash: result.MeasureHash,
		GridHash:    result.GridHash,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.cfg.Store.Save(r.Context(), rec); err != nil {
		s.cfg.Logger.Error("save grid failed", "id", RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist grid", "")
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{
		ID:   rec.ID,
		Grid: result.Grid,
		Stats: statsResponse{
			CardCount:    result.Stats.CardCount,
			RowCount:     result.Stats.RowCount,
			MeasureTime:  result.Stats.MeasureTime.String(),
			AllocateTime: result.Stats.AllocateTime.String(),
			RenderTime:   result.Stats.RenderTime.String(),
		},
		CacheInfo: result.CacheInfo,
	})
}

func (s *Server) handleListGrids(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.ListLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 && n < limit {
			limit = n
		}
	}

	recs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		s.cfg.Logger.Error("list grids failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list grids", "")
		return
	}

	type item struct {
		ID        string    `json:"id"`
		Title     string    `json:"title,omitempty"`
		Rows      int       `json:"rows"`
		CreatedAt time.Time `json:"created_at"`
	}
	items := make([]item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, item{
			ID:        rec.ID,
			Title:     rec.Title,
			Rows:      rec.Grid.RowCount(),
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"grids": items})
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.lookup(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		VizType:   q.Get("viz"),
		ShowStats: q.Get("stats") == "true",
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	if scale := q.Get("scale"); scale != "" {
		if f, err := strconv.ParseFloat(scale, 64); err == nil {
			opts.Scale = f
		}
	}

	artifacts, err := s.cfg.Runner.Render(r.Context(), rec.Grid, rec.Deck, opts)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[format])
}

func (s *Server) handleDeleteGrid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.cfg.Store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "grid not found", string(cgerrors.ErrCodeGridNotFound))
		return
	}
	if err != nil {
		s.cfg.Logger.Error("delete grid failed", "grid", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete grid", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup fetches the record named in the URL, writing the error response
// itself when the record cannot be served.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.cfg.Store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "grid not found", string(cgerrors.ErrCodeGridNotFound))
		return nil, false
	}
	if err != nil {
		s.cfg.Logger.Error("get grid failed", "grid", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load grid", "")
		return nil, false
	}
	return rec, true
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeDomainError maps pipeline error codes to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	code := cgerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case cgerrors.ErrCodeInvalidInput, cgerrors.ErrCodeInvalidDeck,
		cgerrors.ErrCodeInvalidFormat, cgerrors.ErrCodeInvalidOptions:
		status = http.StatusBadRequest
	case cgerrors.ErrCodeNotFound, cgerrors.ErrCodeFileNotFound, cgerrors.ErrCodeGridNotFound:
		status = http.StatusNotFound
	case cgerrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, cgerrors.UserMessage(err), string(code))
}
