package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nutripae/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_Status(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", apierror.Validation(map[string]string{"name": "Requerido"}), http.StatusUnprocessableEntity, `"fields":{"name":"Requerido"}`},
		{"not found", apierror.NotFound("Sede no encontrada"), http.StatusNotFound, "Sede no encontrada"},
		{"conflict", apierror.Conflict("Ya existe"), http.StatusConflict, "Ya existe"},
		{"transport", apierror.Transport("GET /towns", errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "no disponible"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Error interno"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestBindJSON_Malformed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var v map[string]any
		if bindJSON(c, &v) {
			c.Status(http.StatusOK)
		}
	})
	w := send(r, http.MethodPost, "/x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Request = httptest.NewRequest(http.MethodGet, "/towns", nil)
	assert.Nil(t, filters(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/towns?department_id=19", nil)
	assert.Equal(t, "19", filters(c).Get("department_id"))
}
