package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/users/:id", http.MethodGet, "4xx"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("/users/:id", http.MethodGet, "4xx"))
	assert.Equal(t, before+1, after)
}

func TestRecordClaim(t *testing.T) {
	before := testutil.ToFloat64(claimsTotal.WithLabelValues("self", ClaimSucceeded))
	movedBefore := testutil.ToFloat64(assignmentsTransferred)

	RecordClaim("self", ClaimSucceeded, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(claimsTotal.WithLabelValues("self", ClaimSucceeded)))
	assert.Equal(t, movedBefore+3, testutil.ToFloat64(assignmentsTransferred))
}

func TestRecordTreeBuild(t *testing.T) {
	okBefore := testutil.ToFloat64(treeBuilds.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(treeBuilds.WithLabelValues("error"))

	RecordTreeBuild(nil, 10)
	RecordTreeBuild(errors.New("boom"), 0)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(treeBuilds.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(treeBuilds.WithLabelValues("error")))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "0", statusClass(0))
}
