package handler

import (
	"context"
	"net/http"

	"nutripae/internal/dto"
	"nutripae/internal/form"
	"nutripae/internal/model"

	"github.com/gin-gonic/gin"
)

func (h *ResourcesHandler) registerMenus(ing, dish, sched *gin.RouterGroup, write []gin.HandlerFunc) {
	ing.GET("/active", h.ActiveIngredients)
	ing.GET("/check-name", h.CheckIngredientName)
	ing.GET("/:id/detailed", h.IngredientDetail)
	ing.POST("/:id/activate", chain(write, h.setIngredientStatus(model.StatusActive))...)
	ing.POST("/:id/deactivate", chain(write, h.setIngredientStatus(model.StatusInactive))...)

	dish.POST("/:id/activate", chain(write, h.setDishStatus(model.StatusActive))...)
	dish.POST("/:id/deactivate", chain(write, h.setDishStatus(model.StatusInactive))...)

	sched.POST("/assign", chain(write, h.schedules.Create)...)
	sched.POST("/:id/cancel", chain(write, h.CancelSchedule)...)
}

// ActiveIngredients godoc
// @Summary Ingredientes activos
// @Tags menus
// @Produce json
// @Success 200 {array} model.Ingredient
// @Security BearerAuth
// @Router /v1/ingredients/active [get]
func (h *ResourcesHandler) ActiveIngredients(c *gin.Context) {
	rows, err := h.deps.Menus.Ingredients.ListarActivos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// IngredientDetail godoc
// @Summary Ingrediente con los platos que lo usan
// @Tags menus
// @Produce json
// @Param id path string true "ID del ingrediente"
// @Success 200 {object} model.IngredientDetail
// @Failure 404 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/ingredients/{id}/detailed [get]
func (h *ResourcesHandler) IngredientDetail(c *gin.Context) {
	out, err := h.deps.Menus.Ingredients.ObtenerDetallado(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// CheckIngredientName godoc
// @Summary Disponibilidad del nombre de un ingrediente
// @Tags menus
// @Produce json
// @Param name query string true "Nombre"
// @Param exclude_id query string false "ID del ingrediente en edición"
// @Success 200 {object} dto.NameAvailabilityResponse
// @Security BearerAuth
// @Router /v1/ingredients/check-name [get]
func (h *ResourcesHandler) CheckIngredientName(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusOK, dto.NameAvailabilityResponse{Available: false})
		return
	}
	ok, err := h.deps.Menus.Ingredients.NombreDisponible(c.Request.Context(), name, c.Query("exclude_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NameAvailabilityResponse{Available: ok})
}

func (h *ResourcesHandler) ingredientForm(original, excludeID string, onSubmit form.SubmitFunc[dto.IngredientRequest]) *form.IngredientForm {
	checker := form.NewNameChecker(h.deps.Menus.Ingredients.NombreDisponible, h.deps.NameCheckDelay, original, excludeID)
	return &form.IngredientForm{Form: form.New(form.Ingredient(checker), onSubmit), Checker: checker}
}

func (h *ResourcesHandler) createIngredient(c *gin.Context) {
	var req dto.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	var out *model.Ingredient
	f := h.ingredientForm("", "", func(ctx context.Context, v dto.IngredientRequest) error {
		var err error
		out, err = h.deps.Menus.Ingredients.Crear(ctx, v)
		return err
	})
	defer f.Close()
	f.Open(nil)
	f.Set(req)
	if err := f.SubmitNow(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *ResourcesHandler) updateIngredient(c *gin.Context) {
	var req dto.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	current, err := h.deps.Menus.Ingredients.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	var out *model.Ingredient
	f := h.ingredientForm(current.Name, id, func(ctx context.Context, v dto.IngredientRequest) error {
		var err error
		out, err = h.deps.Menus.Ingredients.Actualizar(ctx, id, v)
		return err
	})
	defer f.Close()
	f.Open(nil)
	f.Set(req)
	if err := f.SubmitNow(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ResourcesHandler) setIngredientStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h.deps.Menus.Ingredients.CambiarEstado(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func (h *ResourcesHandler) setDishStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := h.deps.Menus.Dishes.CambiarEstado(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// CancelSchedule godoc
// @Summary Cancelar una programación de menú
// @Tags menus
// @Accept json
// @Produce json
// @Param id path string true "ID de la programación"
// @Param body body dto.CancelScheduleRequest false "Motivo"
// @Success 200 {object} model.MenuSchedule
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/menu-schedules/{id}/cancel [post]
func (h *ResourcesHandler) CancelSchedule(c *gin.Context) {
	var req dto.CancelScheduleRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	form.Normalize(&req)
	out, err := h.deps.Menus.Schedules.Cancelar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
