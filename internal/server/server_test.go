package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lectorapp/lector/internal/home"
	"github.com/lectorapp/lector/internal/playback"
	"github.com/lectorapp/lector/internal/speech"
	"github.com/lectorapp/lector/internal/voices"
)

func newTestServer(t *testing.T) (*httptest.Server, *speech.MockEngine) {
	t.Helper()

	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	mock := speech.NewMockEngine([]voices.Candidate{
		{Name: "Alex Natural", Lang: "en-US", Local: true},
		{Name: "Daniel", Lang: "en-GB", Local: false},
	})

	srv, err := New(Config{
		Home:   h,
		Engine: mock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, mock
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decoding %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func uploadText(t *testing.T, baseURL, name, text string) map[string]any {
	t.Helper()

	var resp map[string]any
	status := doJSON(t, http.MethodPost, baseURL+"/api/documents",
		map[string]string{"name": name, "text": text}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("upload returned status %d: %v", status, resp)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp map[string]string
	if status := doJSON(t, http.MethodGet, ts.URL+"/health", nil, &resp); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if resp["status"] != "ok" {
		t.Fatalf("health = %v", resp)
	}
}

func TestUploadAndRetrieveDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := uploadText(t, ts.URL, "greeting.txt", "Hello world. This is a test.")
	if resp["sentence_count"].(float64) != 2 {
		t.Fatalf("sentence_count = %v", resp["sentence_count"])
	}
	id := resp["id"].(string)
	if id == "" {
		t.Fatal("expected a document ID")
	}
	upReport, ok := resp["report"].(map[string]any)
	if !ok {
		t.Fatalf("upload response missing report: %v", resp)
	}
	if _, ok := upReport["score"]; !ok {
		t.Fatalf("upload report missing score: %v", upReport)
	}

	var list map[string]any
	doJSON(t, http.MethodGet, ts.URL+"/api/documents", nil, &list)
	if docs := list["documents"].([]any); len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	var doc map[string]any
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/documents/"+id, nil, &doc); status != http.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if doc["name"] != "greeting.txt" {
		t.Fatalf("name = %v", doc["name"])
	}

	var report map[string]any
	if status := doJSON(t, http.MethodGet, ts.URL+"/api/documents/"+id+"/report", nil, &report); status != http.StatusOK {
		t.Fatalf("report status = %d", status)
	}
	if _, ok := report["score"]; !ok {
		t.Fatalf("report missing score: %v", report)
	}
}

func TestUploadMultipart(t *testing.T) {
	ts, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(fw, "One sentence here. And another one.")
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/documents", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc["name"] != "notes.txt" {
		t.Fatalf("name = %v", doc["name"])
	}
	if doc["sentence_count"].(float64) != 2 {
		t.Fatalf("sentence_count = %v", doc["sentence_count"])
	}
}

func TestUploadEmptyTextRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp map[string]any
	status := doJSON(t, http.MethodPost, ts.URL+"/api/documents",
		map[string]string{"name": "empty.txt", "text": "   "}, &resp)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestDocumentNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	if status := doJSON(t, http.MethodGet, ts.URL+"/api/documents/nope", nil, nil); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestStartWithoutDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp map[string]any
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/playback/start", nil, &resp); status != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %v", status, resp)
	}
}

func TestPlaybackFlow(t *testing.T) {
	ts, mock := newTestServer(t)

	uploadText(t, ts.URL, "doc.txt", "First sentence. Second sentence. Third sentence.")

	var state playback.State
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/playback/start", nil, &state); status != http.StatusOK {
		t.Fatalf("start status = %d", status)
	}
	if state.Status != playback.StatusPlaying || state.Index != 0 {
		t.Fatalf("state = %+v", state)
	}

	req, ok := mock.LastRequest()
	if !ok {
		t.Fatal("expected a speak request")
	}
	if req.Index != 0 || req.Voice != "Alex Natural" {
		t.Fatalf("request = %+v", req)
	}

	// The engine finishing sentence 0 advances playback to sentence 1.
	mock.Complete(0)
	waitForIndex(t, ts.URL, 1)

	doJSON(t, http.MethodPost, ts.URL+"/api/playback/pause", nil, &state)
	if state.Status != playback.StatusPaused {
		t.Fatalf("status after pause = %s", state.Status)
	}

	doJSON(t, http.MethodPost, ts.URL+"/api/playback/reset", nil, &state)
	if state.Total != 0 || state.Status != playback.StatusIdle {
		t.Fatalf("state after reset = %+v", state)
	}
}

func waitForIndex(t *testing.T, baseURL string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var state playback.State
		doJSON(t, http.MethodGet, baseURL+"/api/playback/status", nil, &state)
		if state.Index == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("playback never reached index %d", want)
}

func TestSeekValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	uploadText(t, ts.URL, "doc.txt", "One. Two.")

	var resp map[string]any
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/playback/seek",
		map[string]int{"delta": 2}, &resp); status != http.StatusBadRequest {
		t.Fatalf("delta 2 status = %d, want 400", status)
	}
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/playback/seek",
		map[string]int{"delta": -1}, &resp); status != http.StatusBadRequest {
		t.Fatalf("seek below 0 status = %d, want 400", status)
	}

	var state playback.State
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/playback/seek",
		map[string]int{"delta": 1}, &state); status != http.StatusOK {
		t.Fatalf("seek status = %d", status)
	}
	if state.Index != 1 {
		t.Fatalf("index = %d, want 1", state.Index)
	}
}

func TestSetRate(t *testing.T) {
	ts, _ := newTestServer(t)

	var state playback.State
	if status := doJSON(t, http.MethodPut, ts.URL+"/api/playback/rate",
		map[string]float64{"rate": 1.5}, &state); status != http.StatusOK {
		t.Fatalf("rate status = %d", status)
	}
	if state.Rate != 1.5 {
		t.Fatalf("rate = %v", state.Rate)
	}

	if status := doJSON(t, http.MethodPut, ts.URL+"/api/playback/rate",
		map[string]float64{"rate": -1}, nil); status != http.StatusBadRequest {
		t.Fatalf("negative rate status = %d, want 400", status)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)

	var rec map[string]any
	doJSON(t, http.MethodGet, ts.URL+"/api/settings", nil, &rec)
	if rec["speed"].(float64) != 1.0 {
		t.Fatalf("default speed = %v", rec["speed"])
	}

	update := map[string]any{"accessibility_mode": true, "speed": 2.0}
	if status := doJSON(t, http.MethodPut, ts.URL+"/api/settings", update, &rec); status != http.StatusOK {
		t.Fatalf("put status = %d", status)
	}

	// The speed change applies to the controller immediately.
	var state playback.State
	doJSON(t, http.MethodGet, ts.URL+"/api/playback/status", nil, &state)
	if state.Rate != 2.0 {
		t.Fatalf("controller rate = %v, want 2.0", state.Rate)
	}

	doJSON(t, http.MethodGet, ts.URL+"/api/settings", nil, &rec)
	if rec["accessibility_mode"] != true || rec["speed"].(float64) != 2.0 {
		t.Fatalf("settings after save = %v", rec)
	}

	if status := doJSON(t, http.MethodPut, ts.URL+"/api/settings",
		map[string]any{"accessibility_mode": false, "speed": 9.0}, nil); status != http.StatusBadRequest {
		t.Fatalf("out-of-range speed status = %d, want 400", status)
	}
}

func TestListVoices(t *testing.T) {
	ts, _ := newTestServer(t)

	var resp map[string]any
	doJSON(t, http.MethodGet, ts.URL+"/api/voices", nil, &resp)
	if resp["selected"] != "Alex Natural" {
		t.Fatalf("selected = %v", resp["selected"])
	}
	if vs := resp["voices"].([]any); len(vs) != 2 {
		t.Fatalf("voices = %v", vs)
	}
}

func TestEventStream(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/playback/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %s", ct)
	}

	uploadText(t, ts.URL, "doc.txt", "Only sentence.")

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	chunk := string(buf[:n])
	if !bytes.Contains([]byte(chunk), []byte("documentLoaded")) {
		t.Fatalf("expected documentLoaded event, got %q", chunk)
	}
}
