package main

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/api"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/gen"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/store"
	"github.com/mukhiyajipramod/Competitor-UI-Analyzer/internal/summary"
)

func main() {
	genCfg := gen.Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   os.Getenv("GEMINI_MODEL"),
		BaseURL: os.Getenv("GEMINI_BASE_URL"),
	}
	if timeout := os.Getenv("GEMINI_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			genCfg.Timeout = d
		}
	}

	fetchCfg := summary.Config{
		UserAgent: os.Getenv("FETCH_USER_AGENT"),
	}
	if timeout := os.Getenv("FETCH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			fetchCfg.Timeout = d
		}
	}
	if ttl := os.Getenv("FETCH_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			fetchCfg.CacheTTL = d
		}
	}

	var allowedOrigins []string
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	disableAI := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_AI")), "true")

	cfg := api.Config{
		DBPath:         store.InMemoryPath,
		AllowedOrigins: allowedOrigins,
		GenConfig:      genCfg,
		FallbackModel:  os.Getenv("GEMINI_FALLBACK_MODEL"),
		DisableAI:      disableAI,
		FetchConfig:    fetchCfg,
	}

	if override := strings.TrimSpace(os.Getenv("ANALYZER_DB_PATH")); override != "" {
		cfg.DBPath = override
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting competitor-ui-analyzer backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
