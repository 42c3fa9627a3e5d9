package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-dog-catalog/internal/cache"
	"github.com/tbourn/go-dog-catalog/internal/domain"
	"github.com/tbourn/go-dog-catalog/internal/http/handlers"
	"github.com/tbourn/go-dog-catalog/internal/http/middleware"
	"github.com/tbourn/go-dog-catalog/internal/services"
	"github.com/tbourn/go-dog-catalog/internal/store"
)

// postCatalog overrides CreatePost on top of the seeded catalog.
type postCatalog struct {
	handlers.CatalogService
	createPost func() (domain.Post, error)
}

func (p postCatalog) CreatePost(ctx context.Context) (domain.Post, error) {
	if p.createPost != nil {
		return p.createPost()
	}
	return p.CatalogService.CreatePost(ctx)
}

func seededCatalog() handlers.CatalogService {
	return services.NewCatalogService(store.NewSeeded(), cache.New(cache.NewMemoryBackend()))
}

// newCatalogChain mounts the catalog routes behind the request-id, logging,
// recovery and security middleware in the order the router installs them.
func newCatalogChain(t *testing.T, svc handlers.CatalogService, sec middleware.SecurityOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if svc == nil {
		svc = seededCatalog()
	}
	h := handlers.New(svc)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger("/metrics"))
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders(sec))
	r.GET("/", h.Health)
	r.POST("/post", h.CreatePost)
	r.GET("/dog", h.ListDogs)
	r.GET("/dog/:pk", h.GetDog)
	r.POST("/dog", h.CreateDog)
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "# metrics") })
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	return r
}

func send(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// captureLogs swaps the global logger for a JSON buffer at debug level.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf)
	return &buf
}

var errStoreDown = errors.New("store unavailable")
