package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/shipment-planner/internal/api"
	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/config"
	"github.com/eugenenazirov/shipment-planner/internal/metrics"
	"github.com/eugenenazirov/shipment-planner/internal/shipment"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	catalog *catalog.MemoryStore
	planner *shipment.Planner
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	initial, err := LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	store := catalog.NewMemoryStore(initial)

	planner := shipment.New(store,
		shipment.WithLogger(logger),
		shipment.WithDefaultStrategy(cfg.DefaultStrategy),
		shipment.WithObserver(metrics.NewRecorder()),
	)
	handler := api.NewHandler(planner, store)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		catalog: store,
		planner: planner,
		handler: handler,
		router:  router,
		logger:  logger,
		server:  NewServer(cfg, router),
	}, nil
}

// LoadCatalog returns the built-in catalog, or the built-in catalog with the
// YAML document at path applied on top.
func LoadCatalog(path string) (catalog.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("default_strategy", a.planner.DefaultStrategy()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}
