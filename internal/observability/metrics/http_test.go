package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/convidados", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/convidados", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	families, err := m.Gather()
	require.NoError(t, err)

	var requests *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "celebre_http_requests_total" {
			requests = family
		}
	}
	require.NotNil(t, requests)

	found := false
	for _, metric := range requests.GetMetric() {
		if labelsMatch(metric, map[string]string{
			"route":  "/convidados",
			"method": "GET",
			"status": "200",
		}) {
			found = true
			assert.Equal(t, float64(3), metric.GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

func TestHTTPMetricsServeScrape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewHTTPMetrics()

	router := gin.New()
	router.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok && pair.GetValue() == want {
			matched++
		}
	}
	return matched == len(labels)
}
