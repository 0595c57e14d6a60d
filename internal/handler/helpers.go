package handler

import (
	"net/http"
	"net/url"

	"nutripae/internal/apierror"
	"nutripae/internal/form"
	"nutripae/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// bindJSON binds the body and writes a 400 when it is not valid JSON.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return true
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if !bindJSON(c, req) {
		return false
	}
	if fields := form.ValidateStruct(req); len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError writes the envelope for err. Server-side failures are logged
// with the request id; their details never reach the client.
func respondError(c *gin.Context, err error) {
	status, body := apierror.Response(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, body)
}

// filters forwards the query string to the upstream list endpoint.
func filters(c *gin.Context) url.Values {
	q := c.Request.URL.Query()
	if len(q) == 0 {
		return nil
	}
	return q
}
