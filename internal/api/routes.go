package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/analysis"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/gen"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/store"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/summary"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	SilentDB       bool
	AllowedOrigins []string
	GenConfig      gen.Config
	FallbackModel  string
	DisableAI      bool
	FetchConfig    summary.Config
}

// Server wires HTTP handlers with the session store, the layout fetcher, and
// the generation client.
type Server struct {
	db             *store.Database
	fetcher        *summary.Fetcher
	generator      gen.Generator
	allowedOrigins []string
	notifier       *AnalysisNotifier
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	var generator gen.Generator
	if cfg.DisableAI {
		logrus.Info("generation client disabled via configuration")
	} else {
		client, err := gen.NewClient(cfg.GenConfig)
		if errors.Is(err, gen.ErrDisabled) {
			return nil, fmt.Errorf("generation client disabled: configure Gemini credentials")
		}
		if err != nil {
			return nil, fmt.Errorf("gen client: %w", err)
		}
		generator = client

		if fallbackModel := strings.TrimSpace(cfg.FallbackModel); fallbackModel != "" {
			fallbackCfg := cfg.GenConfig
			fallbackCfg.Model = fallbackModel
			fallbackClient, err := gen.NewClient(fallbackCfg)
			if err != nil {
				return nil, fmt.Errorf("fallback gen client: %w", err)
			}
			generator = gen.WithFallback(client, fallbackClient)
			logrus.WithField("model", fallbackModel).Info("fallback generation model enabled")
		}
	}

	return &Server{
		db:             db,
		fetcher:        summary.NewFetcher(cfg.FetchConfig),
		generator:      generator,
		allowedOrigins: cfg.AllowedOrigins,
		notifier:       NewAnalysisNotifier(),
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)

	api := r.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/analyze/stream", s.handleAnalyzeStream)
		api.GET("/analysis", s.handleGetAnalysis)
		api.DELETE("/analysis", s.handleClearAnalysis)
		api.GET("/export.csv", s.handleExportCSV)
		api.GET("/export.json", s.handleExportJSON)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	generatorEnabled := s.generator != nil && s.generator.Enabled()
	c.JSON(http.StatusOK, gin.H{
		"score_categories":     analysis.ScoreCategories,
		"category_definitions": CategoryDefinitions,
		"element_order":        summary.ElementOrder,
		"element_definitions":  summary.ElementDefinitions,
		"rating_legend":        RatingLegend,
		"generator_enabled":    generatorEnabled,
	})
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	run, err := s.db.LatestRun()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, errors.New("no analysis has been run yet"))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, FromModel(*run))
}

func (s *Server) handleClearAnalysis(c *gin.Context) {
	if err := s.db.ClearRun(); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) handleAnalyzeStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket connected")
	defer s.notifier.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("analysis websocket closed")
			} else {
				logrus.WithError(err).Warn("analysis websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) handleExportCSV(c *gin.Context) {
	run, err := s.db.LatestRun()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, errors.New("no analysis has been run yet"))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}

	scores := run.Scores()
	if scores == nil {
		s.renderError(c, http.StatusNotFound, errors.New("no scorecard available for the current analysis"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=ux-scorecard.csv")
	c.Header("Content-Type", "text/csv")

	writer := csv.NewWriter(c.Writer)
	headers := append([]string{"site"}, analysis.ScoreCategories...)
	headers = append(headers, "overall_band")
	if err := writer.Write(headers); err != nil {
		return
	}

	sites := make([]string, 0, len(scores))
	for site := range scores {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	for _, site := range sites {
		ratings := scores[site]
		line := []string{site}
		for _, category := range analysis.ScoreCategories {
			if value, ok := ratings[category]; ok {
				line = append(line, strconv.Itoa(value))
			} else {
				line = append(line, "")
			}
		}
		line = append(line, RatingBand(ratings["Overall UX"]))
		if err := writer.Write(line); err != nil {
			return
		}
	}
	writer.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	run, err := s.db.LatestRun()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, errors.New("no analysis has been run yet"))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.Header("Content-Disposition", "attachment; filename=ux-analysis.json")
	c.JSON(http.StatusOK, FromModel(*run))
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
