package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"media-indexer/internal/cache"
	"media-indexer/internal/indexer"
	"media-indexer/internal/media"
	"media-indexer/internal/mediatypes"

	"github.com/gorilla/mux"
)

const publishTimeout = 10 * time.Second

func newTestHandlers(t *testing.T) (*Handlers, *indexer.Indexer) {
	t.Helper()

	classifier, err := mediatypes.NewClassifier(nil)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	contentCache := cache.New()
	ix := indexer.New(media.NewScanner(classifier, contentCache), contentCache)
	t.Cleanup(ix.Dispose)

	return New(ix, contentCache), ix
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func selectAndWait(t *testing.T, ix *indexer.Indexer, root string) {
	t.Helper()

	events, cancel := ix.Subscribe()
	defer cancel()

	if err := ix.SelectRoot(root); err != nil {
		t.Fatalf("SelectRoot: %v", err)
	}

	deadline := time.After(publishTimeout)
	for {
		select {
		case ev := <-events:
			if ev.Type == indexer.EventPublished {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot publication")
		}
	}
}

func TestGetSnapshotIdle(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.GetSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != "idle" {
		t.Errorf("expected idle state, got %q", resp.State)
	}
	if len(resp.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(resp.Categories))
	}
}

func TestGetSnapshotReady(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))
	writeFile(t, root, "clip.mp4", []byte("mp4-bytes"))
	selectAndWait(t, ix, root)

	rec := httptest.NewRecorder()
	h.GetSnapshot(rec, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	var resp SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != "ready" {
		t.Errorf("expected ready state, got %q", resp.State)
	}
	if resp.Generation == 0 {
		t.Error("expected a non-zero generation")
	}
	if len(resp.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(resp.Categories))
	}
	if resp.Categories[0].Label != "image/jpeg" || resp.Categories[1].Label != "video/mp4" {
		t.Errorf("unexpected category order: %+v", resp.Categories)
	}
}

func TestGetCategory(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))
	selectAndWait(t, ix, root)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/categories/image/jpeg", nil),
		map[string]string{"label": "image/jpeg"})
	rec := httptest.NewRecorder()
	h.GetCategory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cat media.Category
	if err := json.NewDecoder(rec.Body).Decode(&cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cat.Label != "image/jpeg" || len(cat.Entries) != 1 {
		t.Errorf("unexpected category: %+v", cat)
	}
	if cat.Entries[0].Path != "photo.jpg" {
		t.Errorf("unexpected entry path %q", cat.Entries[0].Path)
	}
}

func TestGetCategoryUnknown(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))
	selectAndWait(t, ix, root)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/categories/audio/mpeg", nil),
		map[string]string{"label": "audio/mpeg"})
	rec := httptest.NewRecorder()
	h.GetCategory(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetContent(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	content := []byte("jpeg-bytes")
	writeFile(t, root, "photo.jpg", content)
	writeFile(t, root, "clip.mp4", []byte("mp4-bytes"))
	selectAndWait(t, ix, root)

	rec := httptest.NewRecorder()
	h.GetContent(rec, httptest.NewRequest(http.MethodGet, "/api/content?path=photo.jpg", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Errorf("expected image/jpeg content type, got %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Error("served bytes do not match the file content")
	}

	// Videos are metadata-only
	rec = httptest.NewRecorder()
	h.GetContent(rec, httptest.NewRequest(http.MethodGet, "/api/content?path=clip.mp4", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for metadata-only entry, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.GetContent(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without path, got %d", rec.Code)
	}
}

func TestGetTree(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	writeFile(t, root, "albums/photo.jpg", []byte("jpeg-bytes"))
	selectAndWait(t, ix, root)

	rec := httptest.NewRecorder()
	h.GetTree(rec, httptest.NewRequest(http.MethodGet, "/api/tree", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var tree media.DirectoryNode
	if err := json.NewDecoder(rec.Body).Decode(&tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tree.Children) != 1 || tree.Children[0].Path != "albums" {
		t.Errorf("unexpected tree: %+v", tree)
	}
}

func TestSelectRootEndpoint(t *testing.T) {
	h, ix := newTestHandlers(t)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.SelectRoot(rec, httptest.NewRequest(http.MethodPost, "/api/root", strings.NewReader(body)))
		return rec
	}

	if rec := post("not json"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
	if rec := post(`{"path":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty path, got %d", rec.Code)
	}
	if rec := post(`{"path":"/does/not/exist"}`); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing root, got %d", rec.Code)
	}

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))

	events, cancel := ix.Subscribe()
	defer cancel()

	body, _ := json.Marshal(selectRootRequest{Path: root})
	if rec := post(string(body)); rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	select {
	case ev := <-events:
		if ev.Type != indexer.EventPublished {
			t.Fatalf("expected published event, got %q", ev.Type)
		}
	case <-time.After(publishTimeout):
		t.Fatal("timed out waiting for snapshot publication")
	}
}

func TestRefreshEndpoint(t *testing.T) {
	h, ix := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 without a root, got %d", rec.Code)
	}

	root := t.TempDir()
	selectAndWait(t, ix, root)

	rec = httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h, ix := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != statusHealthy {
		t.Errorf("expected healthy while idle, got %q", resp.Status)
	}

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))
	selectAndWait(t, ix, root)

	rec = httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != statusHealthy || resp.Indexer.State != "ready" {
		t.Errorf("unexpected health after publication: %+v", resp)
	}
	if resp.Indexer.Entries != 1 {
		t.Errorf("expected 1 indexed entry, got %d", resp.Indexer.Entries)
	}
}

func TestReadinessCheck(t *testing.T) {
	h, ix := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 while idle, got %d", rec.Code)
	}

	root := t.TempDir()
	selectAndWait(t, ix, root)

	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 after publication, got %d", rec.Code)
	}
}

func TestEventsStream(t *testing.T) {
	h, ix := newTestHandlers(t)

	root := t.TempDir()
	writeFile(t, root, "photo.jpg", []byte("jpeg-bytes"))
	selectAndWait(t, ix, root)

	router := mux.NewRouter()
	router.HandleFunc("/api/events", h.Events)
	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", got)
	}

	if err := ix.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	deadline := time.After(publishTimeout)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("event stream closed before a published event arrived")
			}
			if line == "event: published" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for a published event")
		}
	}
}
