package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/llm"
	"github.com/dgallion1/docchat/internal/persona"
)

type stubCompleter struct {
	answer  string
	err     error
	calls   int
	lastReq llm.CompletionRequest
}

func (s *stubCompleter) Model() string { return "stub-model" }

func (s *stubCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	s.calls++
	s.lastReq = req
	return s.answer, s.err
}

func testConfig() config.Config {
	return config.Config{
		Port:                "0",
		MaxUploadBytes:      10 << 20,
		SummaryCharLimit:    15000,
		ChatCharLimit:       14000,
		MaxCompletionTokens: 800,
		ChatTemperature:     0.7,
	}
}

func newTestServer(completer Completer) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(completer, llm.NewStats(time.Hour), log, testConfig())
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestChat_MissingQuestionNeverCallsLLM(t *testing.T) {
	stub := &stubCompleter{answer: "should not be used"}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/chat-with-pdf", map[string]any{"text": "doc"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.calls != 0 {
		t.Errorf("completer called %d times for invalid input", stub.calls)
	}
	if body := decodeBody(t, rec); body["error"] != "No question provided" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestChat_MissingText(t *testing.T) {
	srv := newTestServer(&stubCompleter{})
	rec := postJSON(t, srv, "/chat-with-pdf", map[string]any{"question": "hi"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "No document text provided" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestChat_Success(t *testing.T) {
	stub := &stubCompleter{answer: "I discuss widgets."}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/chat-with-pdf", map[string]any{
		"text":     "widget manual",
		"question": "what are you about?",
		"chatHistory": []map[string]string{
			{"role": "system", "content": "x"},
			{"role": "user", "content": "hi"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["answer"] != "I discuss widgets." {
		t.Errorf("unexpected answer: %v", body["answer"])
	}

	if stub.lastReq.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", stub.lastReq.Temperature)
	}
	if stub.lastReq.MaxTokens != 800 {
		t.Errorf("expected max tokens 800, got %d", stub.lastReq.MaxTokens)
	}

	msgs := stub.lastReq.Messages
	// system, doc context, greeting, one surviving history turn, question.
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d: %+v", len(msgs), msgs)
	}
	if msgs[3].Content != "hi" {
		t.Errorf("history turn not replayed: %+v", msgs[3])
	}
	if msgs[4].Content != "what are you about?" {
		t.Errorf("question not final message: %+v", msgs[4])
	}
}

func TestChat_FallbackOnCompletionError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("upstream down")}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/chat-with-pdf", map[string]any{
		"text":     "doc",
		"question": "q",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with fallback, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["answer"] != persona.FallbackAnswer {
		t.Errorf("expected canned fallback, got %v", body["answer"])
	}
}

func TestChat_MissingAPIKeyIs500(t *testing.T) {
	stub := &stubCompleter{err: llm.ErrMissingAPIKey}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/chat-with-pdf", map[string]any{
		"text":     "doc",
		"question": "q",
	})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for missing api key, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] == "" {
		t.Error("expected error message in body")
	}
}

func TestAnalyze_MissingText(t *testing.T) {
	stub := &stubCompleter{}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/analyze-text", map[string]any{"fileName": "a.pdf"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.calls != 0 {
		t.Errorf("completer called for invalid input")
	}
}

func TestAnalyze_Success(t *testing.T) {
	stub := &stubCompleter{answer: "I am a quarterly report."}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/analyze-text", map[string]any{
		"text":     "revenue went up",
		"fileName": "q3.pdf",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["analysis"] != "I am a quarterly report." {
		t.Errorf("unexpected analysis: %v", body["analysis"])
	}
	if body["fileName"] != "q3.pdf" {
		t.Errorf("unexpected fileName: %v", body["fileName"])
	}
	// Summary mode uses the provider default temperature.
	if stub.lastReq.Temperature != 0 {
		t.Errorf("expected zero temperature, got %v", stub.lastReq.Temperature)
	}
}

func TestAnalyze_FallbackOnCompletionError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	srv := newTestServer(stub)

	rec := postJSON(t, srv, "/analyze-text", map[string]any{"text": "doc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with fallback, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["analysis"] != persona.FallbackSummary {
		t.Errorf("expected canned fallback, got %v", body["analysis"])
	}
	if body["fileName"] != "Document" {
		t.Errorf("expected default fileName, got %v", body["fileName"])
	}
}

func TestExtract_MissingFile(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/extract-text", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "No file uploaded" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pdfFile", "payload.exe")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("nope"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/extract-text", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestExtract_TextFile(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pdfFile", "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("Hello world.\n\nSecond paragraph."))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/extract-text", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	text, _ := body["text"].(string)
	if !strings.Contains(text, "Hello world.") {
		t.Errorf("extracted text missing content: %q", text)
	}
	if body["fileName"] != "notes.txt" {
		t.Errorf("unexpected fileName: %v", body["fileName"])
	}
	if body["pageCount"] != float64(1) {
		t.Errorf("unexpected pageCount: %v", body["pageCount"])
	}
	if _, err := time.Parse(time.RFC3339, body["creationDate"].(string)); err != nil {
		t.Errorf("creationDate not RFC3339: %v", body["creationDate"])
	}
}

func TestExtract_CorruptPDFIs500(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pdfFile", "broken.pdf")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("this is not a pdf"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/extract-text", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for corrupt pdf, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/chat-with-pdf", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "method not allowed" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLLMStats(t *testing.T) {
	stats := llm.NewStats(time.Hour)
	stats.Record(120, 1000, 400)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(&stubCompleter{}, stats, log, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/stats/llm", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["model"] != "stub-model" {
		t.Errorf("unexpected model: %v", body["model"])
	}
}
