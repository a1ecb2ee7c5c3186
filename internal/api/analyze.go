package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/analysis"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/gen"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/prompt"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/store"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/summary"
)

// handleAnalyze runs one full analysis: fetch both layouts, request the
// narrative comparison and the scorecard, partition and extract, then replace
// the session result. The run is synchronous; the only suspension points are
// the four outbound HTTP calls.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	req.URLA = strings.TrimSpace(req.URLA)
	req.URLB = strings.TrimSpace(req.URLB)
	if req.URLA == "" || req.URLB == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("both url_a and url_b are required"))
		return
	}

	if s.generator == nil || !s.generator.Enabled() {
		s.renderError(c, http.StatusServiceUnavailable, errors.New("generation client is disabled"))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	nameA := summary.SiteName(req.URLA)
	nameB := summary.SiteName(req.URLB)

	log := logrus.WithFields(logrus.Fields{"site_a": nameA, "site_b": nameB})
	log.Info("analysis run started")
	s.broadcastProgress("fetching", fmt.Sprintf("fetching layout summaries for %s and %s", nameA, nameB))

	layoutA, err := s.fetcher.Summarize(ctx, req.URLA)
	if err != nil {
		s.failRun(c, log, fmt.Errorf("fetch site A: %w", err))
		return
	}
	layoutB, err := s.fetcher.Summarize(ctx, req.URLB)
	if err != nil {
		s.failRun(c, log, fmt.Errorf("fetch site B: %w", err))
		return
	}

	s.broadcastProgress("comparing", "requesting narrative comparison")
	comparison, err := s.generator.Generate(ctx, prompt.Comparison(nameA, nameB, layoutA, layoutB))
	if err != nil {
		s.failGeneration(c, log, fmt.Errorf("comparison call: %w", err))
		return
	}

	s.broadcastProgress("scoring", "requesting UX scorecard")
	scoreText, err := s.generator.Generate(ctx, prompt.Scoring(nameA, nameB, layoutA, layoutB))
	if err != nil {
		s.failGeneration(c, log, fmt.Errorf("scoring call: %w", err))
		return
	}

	sections := analysis.Partition(comparison)
	scores, rawScores, extractErr := analysis.ExtractScores(scoreText)

	run := &store.AnalysisRun{
		SiteAName:        nameA,
		SiteAURL:         req.URLA,
		SiteBName:        nameB,
		SiteBURL:         req.URLB,
		ComparisonText:   comparison,
		SimilaritiesText: sections.Similarities,
		DifferencesText:  sections.Differences,
		SuggestionsText:  sections.Suggestions,
		RawScoreText:     rawScores,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	run.SetLayoutA(layoutA)
	run.SetLayoutB(layoutB)
	run.SetScores(scores)
	if extractErr != nil {
		// Non-fatal: the run completes and the raw response stays
		// inspectable next to the error message.
		run.ScoreError = extractErr.Error()
		log.WithError(extractErr).Warn("scorecard extraction failed")
	}

	if err := s.db.ReplaceLatestRun(run); err != nil {
		log.WithError(err).Error("store analysis result")
		s.notifier.Broadcast(AnalysisEvent{Type: "failed", Message: err.Error()})
		s.renderError(c, http.StatusInternalServerError, fmt.Errorf("store analysis: %w", err))
		return
	}

	dto := FromModel(*run)
	log.WithField("duration_ms", run.ProcessingTimeMs).Info("analysis run completed")
	s.notifier.Broadcast(AnalysisEvent{Type: "completed", Stage: "done", Analysis: &dto})
	c.JSON(http.StatusOK, dto)
}

func (s *Server) broadcastProgress(stage, message string) {
	s.notifier.Broadcast(AnalysisEvent{Type: "progress", Stage: stage, Message: message})
}

func (s *Server) failRun(c *gin.Context, log *logrus.Entry, err error) {
	log.WithError(err).Warn("analysis run failed")
	s.notifier.Broadcast(AnalysisEvent{Type: "failed", Message: err.Error()})
	s.renderError(c, http.StatusBadGateway, err)
}

func (s *Server) failGeneration(c *gin.Context, log *logrus.Entry, err error) {
	log.WithError(err).Warn("generation call failed")
	s.notifier.Broadcast(AnalysisEvent{Type: "failed", Message: err.Error()})
	switch {
	case errors.Is(err, gen.ErrRateLimited):
		s.renderError(c, http.StatusTooManyRequests, err)
	case errors.Is(err, gen.ErrDisabled):
		s.renderError(c, http.StatusServiceUnavailable, err)
	default:
		s.renderError(c, http.StatusBadGateway, err)
	}
}
