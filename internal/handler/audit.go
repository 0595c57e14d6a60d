package handler

import (
	"net/http"
	"strconv"
	"time"

	"nutripae/internal/apierror"
	"nutripae/internal/repository"
	"nutripae/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct{ svc *service.AuditService }

func NewAuditHandler(svc *service.AuditService) *AuditHandler { return &AuditHandler{svc: svc} }

// Listar godoc
// @Summary Bitácora de mutaciones
// @Tags auditoria
// @Produce json
// @Param recurso query string false "Recurso"
// @Param desde query string false "Desde (aaaa-mm-dd)"
// @Param hasta query string false "Hasta (aaaa-mm-dd, exclusivo)"
// @Param page query int false "Página"
// @Param limit query int false "Tamaño de página (máx. 200)"
// @Success 200 {object} dto.AuditPageResponse
// @Security BearerAuth
// @Router /v1/auditoria [get]
func (h *AuditHandler) Listar(c *gin.Context) {
	f := repository.AuditFilter{Recurso: c.Query("recurso")}
	f.Page, _ = strconv.Atoi(c.Query("page"))
	f.Limit, _ = strconv.Atoi(c.Query("limit"))
	for param, dst := range map[string]**time.Time{"desde": &f.Desde, "hasta": &f.Hasta} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
				param: "Fecha inválida, use el formato aaaa-mm-dd",
			}))
			return
		}
		*dst = &t
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
