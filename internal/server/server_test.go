package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/pipeline"
	"github.com/mhertel/cardgrid/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	t.Cleanup(func() { runner.Close() })

	return New(Config{
		Runner: runner,
		Store:  store.NewMemoryStore(),
		Logger: log.New(io.Discard),
	})
}

func createBody() *bytes.Buffer {
	req := createRequest{
		Deck: card.Deck{
			Title: "demo",
			Cards: []card.Card{
				{ID: "a", Title: "Alpha", Body: strings.Repeat("alpha content ", 30)},
				{ID: "b", Title: "Beta", Body: "short"},
			},
		},
	}
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(req)
	return &buf
}

func doRequest(t *testing.T, srv *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func createGrid(t *testing.T, srv *Server) createResponse {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/v1/grids", createBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/grids = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp createResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
}

func TestCreateGrid(t *testing.T) {
	resp := createGrid(t, testServer(t))

	if resp.ID == "" {
		t.Error("response missing grid ID")
	}
	if resp.Grid.Title != "demo" {
		t.Errorf("grid title = %q, want \"demo\"", resp.Grid.Title)
	}
	if resp.Stats.CardCount != 2 || resp.Stats.RowCount != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestCreateGridRejectsBadInput(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/grids", strings.NewReader("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d, want 400", rec.Code)
	}

	// A deck with no cards fails domain validation.
	empty, _ := json.Marshal(createRequest{})
	rec = doRequest(t, srv, http.MethodPost, "/v1/grids", bytes.NewReader(empty))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty deck = %d, want 400", rec.Code)
	}
}

func TestGetGrid(t *testing.T) {
	srv := testServer(t)
	created := createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/v1/grids/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET grid = %d, body %s", rec.Code, rec.Body.String())
	}

	var got store.Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || got.Grid.RowCount() != 1 {
		t.Errorf("record = %+v", got)
	}
}

func TestGetGridNotFound(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/v1/grids/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing grid = %d, want 404", rec.Code)
	}
}

func TestListGrids(t *testing.T) {
	srv := testServer(t)
	createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/v1/grids", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/grids = %d", rec.Code)
	}

	var resp struct {
		Grids []struct {
			ID   string `json:"id"`
			Rows int    `json:"rows"`
		} `json:"grids"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Grids) != 1 || resp.Grids[0].Rows != 1 {
		t.Errorf("list = %+v", resp.Grids)
	}
}

func TestGetArtifact(t *testing.T) {
	srv := testServer(t)
	created := createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/v1/grids/"+created.ID+"/artifact", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET artifact = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("artifact body is not an SVG")
	}
}

func TestGetArtifactDOT(t *testing.T) {
	srv := testServer(t)
	created := createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodGet,
		"/v1/grids/"+created.ID+"/artifact?viz=diagram&format=dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET dot artifact = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q, want text/vnd.graphviz", ct)
	}
	if !strings.Contains(rec.Body.String(), "digraph grid") {
		t.Error("artifact body is not DOT")
	}
}

func TestGetArtifactRejectsBadFormat(t *testing.T) {
	srv := testServer(t)
	created := createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodGet,
		"/v1/grids/"+created.ID+"/artifact?format=gif", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format = %d, want 400", rec.Code)
	}
}

func TestDeleteGrid(t *testing.T) {
	srv := testServer(t)
	created := createGrid(t, srv)

	rec := doRequest(t, srv, http.MethodDelete, "/v1/grids/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d, want 204", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/grids/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/grids/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestRequestIDHeaderHonored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")

	var captured string
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "req-42" {
		t.Errorf("request ID = %q, want \"req-42\"", captured)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if captured == "" {
		t.Error("no request ID generated")
	}
}
