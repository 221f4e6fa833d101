package stub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestBareArrayMode(t *testing.T) {
	srv := New(false)
	srv.Seed("news", SampleNews(25))

	w := get(t, srv, "/api/news?page=1&limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var records []Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("expected a bare array, got %q", w.Body.String())
	}
	if len(records) != 25 {
		t.Errorf("bare mode ignores pagination params, expected 25, got %d", len(records))
	}
}

func TestEnvelopeModePaginates(t *testing.T) {
	srv := New(true)
	srv.Seed("news", SampleNews(25))

	w := get(t, srv, "/api/news?page=2&limit=10")

	var envelope struct {
		Items      []Record `json:"items"`
		Total      int      `json:"total"`
		TotalPages int      `json:"totalPages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(envelope.Items) != 10 || envelope.Total != 25 || envelope.TotalPages != 3 {
		t.Errorf("unexpected envelope: %d items, total %d, totalPages %d",
			len(envelope.Items), envelope.Total, envelope.TotalPages)
	}
}

func TestEnvelopeModeFilters(t *testing.T) {
	srv := New(true)
	srv.Seed("news", SampleNews(25))

	w := get(t, srv, "/api/news?page=1&limit=10&tags=Youth")
	var envelope struct {
		Items []Record `json:"items"`
	}
	json.Unmarshal(w.Body.Bytes(), &envelope)
	for _, rec := range envelope.Items {
		if !recordHasTags(rec, []string{"youth"}) {
			t.Errorf("record without Youth tag leaked through: %v", rec)
		}
	}

	w = get(t, srv, "/api/news?page=1&limit=10&q=delegation")
	json.Unmarshal(w.Body.Bytes(), &envelope)
	if len(envelope.Items) == 0 {
		t.Error("expected search matches for body text")
	}
}

func TestUnknownCollection(t *testing.T) {
	srv := New(true)
	if w := get(t, srv, "/api/nonexistent"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown collection, got %d", w.Code)
	}
}

func TestDeleteRecord(t *testing.T) {
	srv := New(true)
	srv.Seed("projects", SampleProjects())

	req := httptest.NewRequest(http.MethodDelete, "/api/projects/p1", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if srv.Len("projects") != 2 {
		t.Errorf("expected 2 records left, got %d", srv.Len("projects"))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/projects/p1", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for repeated delete, got %d", w.Code)
	}
}
