package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/store"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/summary"
)

const narrativeResponse = `KEY SIMILARITIES:
Both sites use a single navbar.
KEY DIFFERENCES:
Site A relies on sections, Site B on forms.
UX IMPROVEMENT SUGGESTIONS:
Add more descriptive headings.
`

type scriptedGenerator struct {
	responses []string
	calls     int
}

func (g *scriptedGenerator) Enabled() bool { return true }

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.calls >= len(g.responses) {
		return "", fmt.Errorf("unexpected call %d", g.calls)
	}
	text := g.responses[g.calls]
	g.calls++
	return text, nil
}

func newTestServer(t *testing.T, generator *scriptedGenerator) *Server {
	t.Helper()
	db, err := store.Open(store.InMemoryPath, true)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &Server{
		db:        db,
		fetcher:   summary.NewFetcher(summary.Config{}),
		generator: generator,
		notifier:  NewAnalysisNotifier(),
	}
}

func sitePage(sections int) string {
	var b strings.Builder
	b.WriteString(`<html><body><nav><a href="/">Home</a></nav>`)
	for i := 0; i < sections; i++ {
		b.WriteString("<section><h2>Block</h2></section>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestHandleAnalyze(t *testing.T) {
	gin.SetMode(gin.TestMode)

	siteA := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sitePage(2)))
	}))
	defer siteA.Close()
	siteB := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sitePage(4)))
	}))
	defer siteB.Close()

	scoreBody := `Here are the scores: {"Acme": {"Visual Design": 8, "Overall UX": 7}, "Rival": {"Visual Design": 6, "Overall UX": 6}}`
	generator := &scriptedGenerator{responses: []string{narrativeResponse, scoreBody}}
	server := newTestServer(t, generator)
	router, err := server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	body, _ := json.Marshal(AnalyzeRequest{URLA: siteA.URL, URLB: siteB.URL})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var dto AnalysisDTO
	if err := json.Unmarshal(recorder.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.SiteA.Layout["Sections"] != 2 || dto.SiteB.Layout["Sections"] != 4 {
		t.Fatalf("unexpected layouts: %+v vs %+v", dto.SiteA.Layout, dto.SiteB.Layout)
	}
	if !strings.Contains(dto.Comparison.Similarities, "single navbar") {
		t.Errorf("similarities bucket missing content: %q", dto.Comparison.Similarities)
	}
	if !strings.Contains(dto.Comparison.Differences, "relies on sections") {
		t.Errorf("differences bucket missing content: %q", dto.Comparison.Differences)
	}
	if dto.Scorecard.Error != "" {
		t.Fatalf("unexpected scorecard error: %s", dto.Scorecard.Error)
	}
	if dto.Scorecard.Scores["Acme"]["Visual Design"] != 8 {
		t.Fatalf("unexpected scores: %v", dto.Scorecard.Scores)
	}
	if generator.calls != 2 {
		t.Fatalf("expected 2 generation calls, got %d", generator.calls)
	}

	// The session result is readable afterwards and replaced wholesale.
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/analysis, got %d", recorder.Code)
	}
}

func TestHandleAnalyzeExtractionFailureIsNonFatal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sitePage(1)))
	}))
	defer site.Close()

	rawScores := "I could not produce a table this time, sorry."
	generator := &scriptedGenerator{responses: []string{narrativeResponse, rawScores}}
	server := newTestServer(t, generator)
	router, err := server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	body, _ := json.Marshal(AnalyzeRequest{URLA: site.URL, URLB: site.URL})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var dto AnalysisDTO
	if err := json.Unmarshal(recorder.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.Scorecard.Scores != nil {
		t.Fatalf("expected no scores, got %v", dto.Scorecard.Scores)
	}
	if !strings.Contains(dto.Scorecard.Error, "JSON block not found") {
		t.Fatalf("unexpected extraction error: %q", dto.Scorecard.Error)
	}
	if dto.Scorecard.Raw != rawScores {
		t.Fatalf("raw scoring response altered: %q", dto.Scorecard.Raw)
	}
}

func TestHandleAnalyzeFetchFailureShortCircuits(t *testing.T) {
	gin.SetMode(gin.TestMode)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer broken.Close()

	generator := &scriptedGenerator{responses: []string{narrativeResponse}}
	server := newTestServer(t, generator)
	router, err := server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	body, _ := json.Marshal(AnalyzeRequest{URLA: broken.URL, URLB: broken.URL})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", recorder.Code)
	}
	if generator.calls != 0 {
		t.Fatalf("generation must not run after a fetch failure, got %d calls", generator.calls)
	}
}

func TestHandleAnalyzeMissingURLs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := newTestServer(t, &scriptedGenerator{})
	router, err := server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"url_a": "https://a.example"}`))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandleGetAnalysisEmptySession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := newTestServer(t, &scriptedGenerator{})
	router, err := server.Router()
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestRatingBand(t *testing.T) {
	tests := []struct {
		value    int
		expected string
	}{
		{1, "Bad"},
		{4, "Bad"},
		{5, "Good"},
		{7, "Good"},
		{8, "Excellent"},
		{10, "Excellent"},
	}
	for _, tc := range tests {
		if got := RatingBand(tc.value); got != tc.expected {
			t.Errorf("RatingBand(%d): expected %s got %s", tc.value, tc.expected, got)
		}
	}
}
