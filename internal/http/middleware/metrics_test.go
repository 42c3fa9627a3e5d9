package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CatalogOutcomesByRouteLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/dog", func(c *gin.Context) {
		if c.Query("kind") == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []any{}})
			return
		}
		c.JSON(http.StatusOK, []any{})
	})
	r.POST("/post", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	count := func(path, status string) float64 {
		return testutil.ToFloat64(httpReqs.WithLabelValues("GET", path, status))
	}
	baseList, baseInvalid, baseMissing := count("/dog", "200"), count("/dog", "422"), count("/cats", "404")
	baseSizes := testutil.CollectAndCount(httpRespSize)

	for _, target := range []string{"/dog?kind=terrier", "/dog?kind=bulldog", "/dog", "/cats"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/post", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST /post -> %d", w.Code)
	}

	if got := count("/dog", "200"); got != baseList+2 {
		t.Fatalf("/dog 200 = %v; want %v", got, baseList+2)
	}
	if got := count("/dog", "422"); got != baseInvalid+1 {
		t.Fatalf("/dog 422 = %v; want %v", got, baseInvalid+1)
	}
	// Unmatched routes fall back to the raw path.
	if got := count("/cats", "404"); got != baseMissing+1 {
		t.Fatalf("/cats 404 = %v; want %v", got, baseMissing+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("POST", "/post", "204")); got < 1 {
		t.Fatalf("POST /post not counted")
	}
	if testutil.CollectAndCount(httpRespSize) < baseSizes {
		t.Fatalf("response size series disappeared")
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestMetrics_SkipsListedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics("/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "# scrape") })
	r.GET("/dog/:pk", func(c *gin.Context) { c.String(http.StatusOK, "{}") })

	baseScrape := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/metrics", "200"))
	baseDog := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/dog/:pk", "200"))

	for _, p := range []string{"/metrics", "/dog/1", "/dog/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/metrics", "200")); got != baseScrape {
		t.Fatalf("skipped route counted: %v -> %v", baseScrape, got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/dog/:pk", "200")); got != baseDog+2 {
		t.Fatalf("route label counter = %v; want %v", got, baseDog+2)
	}
}
