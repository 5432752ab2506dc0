package restserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/lakealmanac/internal/log"
	"github.com/chrissnell/lakealmanac/internal/metrics"
	"github.com/chrissnell/lakealmanac/pkg/almanac"
	"github.com/chrissnell/lakealmanac/pkg/responseformat"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// DocumentLoader loads the persisted almanac document
type DocumentLoader interface {
	Load(ctx context.Context) (*almanac.Document, error)
}

// Controller represents the REST server controller
type Controller struct {
	Server    http.Server
	store     DocumentLoader
	metrics   *metrics.Manager
	formatter *responseformat.Formatter
	logger    *zap.SugaredLogger
}

// New creates a REST server controller serving the almanac from store
func New(listenAddr string, store DocumentLoader, m *metrics.Manager, logger *zap.SugaredLogger) *Controller {
	if listenAddr == "" {
		logger.Info("server.listen-addr not provided; defaulting to :8080")
		listenAddr = ":8080"
	}

	c := &Controller{
		store:     store,
		metrics:   m,
		formatter: responseformat.NewFormatter(),
		logger:    logger,
	}
	c.Server.Addr = listenAddr
	c.Server.Handler = c.Router()
	c.Server.ReadHeaderTimeout = 10 * time.Second
	return c
}

// Start serves until ctx is cancelled
func (c *Controller) Start(ctx context.Context, wg *sync.WaitGroup) error {
	c.logger.Infow("Starting REST server controller...", "addr", c.Server.Addr)
	wg.Add(1)

	go func() {
		defer wg.Done()
		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Router configures the HTTP router with all endpoints
func (c *Controller) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware)

	router.HandleFunc("/healthz", c.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/almanac", c.GetAlmanac).Methods(http.MethodGet)
	router.HandleFunc("/almanac/{year}", c.GetAlmanacYear).Methods(http.MethodGet)
	router.HandleFunc("/almanac/{year}/{season}", c.GetAlmanacSeason).Methods(http.MethodGet)
	router.HandleFunc("/metadata", c.GetMetadata).Methods(http.MethodGet)
	router.Handle("/metrics", c.metrics.Handler()).Methods(http.MethodGet)

	return router
}
