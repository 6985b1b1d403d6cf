package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cryptodb-gateway/internal/api/handlers"
	"cryptodb-gateway/internal/api/middleware"
	"cryptodb-gateway/internal/api/utils"
	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/logger"
	"cryptodb-gateway/internal/query"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	CryptoPath  = "/crypto"
	HealthPath  = "/api/health"
	MetricsPath = "/metrics"
)

type ServerDeps struct {
	Logger logger.LoggerService
	// Registry receives the HTTP and query metrics; a fresh one is created
	// when nil and cfg.Metrics is set.
	Registry *prometheus.Registry
}

func NewServer(cfg config.Config, deps ServerDeps) (*http.Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handler, err := NewHandler(cfg, deps)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              strings.TrimSpace(cfg.APIListen),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, nil
}

// NewHandler builds the route table without binding a listener.
func NewHandler(cfg config.Config, deps ServerDeps) (http.Handler, error) {
	secret := cfg.Secret
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret is required")
	}

	var (
		httpMetrics  *middleware.HTTPMetrics
		queryMetrics *query.Metrics
		reg          = deps.Registry
	)
	if cfg.Metrics {
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		var err error
		if httpMetrics, err = middleware.NewHTTPMetrics(reg); err != nil {
			return nil, err
		}
		if queryMetrics, err = query.NewMetrics(reg); err != nil {
			return nil, err
		}
	}

	dispatcher := query.NewDispatcher(query.Options{
		StorageDir: cfg.StorageDir,
		Timeout:    cfg.QueryTimeout,
		Logger:     deps.Logger,
		Metrics:    queryMetrics,
	})

	mux := http.NewServeMux()
	mux.Handle(CryptoPath, middleware.Metrics(httpMetrics, CryptoPath,
		handlers.NewCryptoHandler(secret, cfg.Database, dispatcher)))
	mux.Handle(HealthPath, middleware.Metrics(httpMetrics, HealthPath,
		handlers.NewHealthHandler(cfg, deps.Logger)))
	if cfg.Metrics {
		mux.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/", notFoundHandler)

	return middleware.Logging(deps.Logger, true, mux), nil
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, http.StatusNotFound, "Not found")
}
