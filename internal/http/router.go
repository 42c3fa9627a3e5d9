// Package httpapi wires the HTTP transport (Gin) to the catalog service and
// the conversation engine. It centralizes cross-cutting concerns such as
// tracing, correlation IDs, access logging, panic recovery, compression,
// metrics, CORS and security headers.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. Logger
//  4. Recovery
//  5. Body size limit
//  6. gzip
//  7. Metrics (+ /metrics)
//  8. CORS and security headers
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-dog-catalog/docs"
	"github.com/tbourn/go-dog-catalog/internal/config"
	"github.com/tbourn/go-dog-catalog/internal/http/handlers"
	"github.com/tbourn/go-dog-catalog/internal/http/middleware"
)

const (
	metricsPath  = "/metrics"
	maxBodyBytes = 1 << 20
)

// RegisterRoutes attaches the shared middleware and the catalog endpoints to
// r. Catalog routes are mounted under cfg.APIBasePath.
func RegisterRoutes(r *gin.Engine, catalog handlers.CatalogService, cfg config.Config) {
	useCommon(r, cfg.OTEL.ServiceName, cfg)

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(catalog)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/", h.Health)
		api.POST("/post", h.CreatePost)
		api.GET("/dog", h.ListDogs)
		api.POST("/dog", h.CreateDog)
		api.GET("/dog/:pk", h.GetDog)
		api.PATCH("/dog/:pk", h.UpdateDog)
	}
}

// RegisterBotRoutes attaches the shared middleware and POST /updates.
func RegisterBotRoutes(r *gin.Engine, engine handlers.ConversationEngine, cfg config.Config) {
	useCommon(r, cfg.OTEL.ServiceName+"-bot", cfg)

	h := handlers.NewBot(engine)
	r.POST("/updates", h.PostUpdate)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
}

func useCommon(r *gin.Engine, service string, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(service))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(metricsPath))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))

	r.Use(middleware.Metrics(metricsPath))
	r.GET(metricsPath, gin.WrapH(promhttp.Handler()))

	// CORS posture (safe defaults: allow all if none configured)
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})
}

// limitBody caps the request body at maxBytes; larger bodies fail to decode.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
