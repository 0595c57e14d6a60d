package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"nutripae/internal/catalog"
	"nutripae/internal/form"
	"nutripae/internal/model"
	"nutripae/internal/service"
	"nutripae/internal/view"

	"github.com/gin-gonic/gin"
)

// FormPayload is what the form endpoints return: the values to show and the
// field errors, if any.
type FormPayload[T any] struct {
	Values T                 `json:"values"`
	Errors map[string]string `json:"errors"`
}

// crudHandler serves the standard routes of one upstream resource: list,
// detail, create, update, delete, form defaults and prefill, rendered table
// and xlsx export. Writes go through the resource's form.
type crudHandler[T model.Entity, C, U any] struct {
	name         string
	svc          *service.CRUDService[T, C, U]
	createSchema func() form.Schema[C]
	updateSchema func() form.Schema[U]
	prefill      func(T) U
	table        func(ctx context.Context) (view.Table[T], error)
	updateMethod string
	// catalogs shown next to the table on the composed page
	catalogs []string
	reg      *catalog.Registry

	// overrides for resources whose writes need more than a plain form
	create gin.HandlerFunc
	update gin.HandlerFunc
}

func (h *crudHandler[T, C, U]) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) *gin.RouterGroup {
	g := rg.Group("/" + h.name)
	g.GET("", h.List)
	g.GET("/form", h.NewForm)
	g.GET("/table", h.Table)
	g.GET("/export", h.Export)
	g.GET("/:id", h.Get)
	g.GET("/:id/form", h.EditForm)

	create, update := h.Create, h.Update
	if h.create != nil {
		create = h.create
	}
	if h.update != nil {
		update = h.update
	}
	method := h.updateMethod
	if method == "" {
		method = http.MethodPatch
	}
	g.POST("", chain(write, create)...)
	g.Handle(method, "/:id", chain(write, update)...)
	g.DELETE("/:id", chain(write, h.Delete)...)
	return g
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append([]gin.HandlerFunc(nil), mw...), h)
}

func (h *crudHandler[T, C, U]) List(c *gin.Context) {
	rows, err := h.svc.Listar(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *crudHandler[T, C, U]) Get(c *gin.Context) {
	row, err := h.svc.ObtenerPorID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *crudHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !bindJSON(c, &req) {
		return
	}
	var out *T
	f := form.New(h.createSchema(), func(ctx context.Context, v C) error {
		var err error
		out, err = h.svc.Crear(ctx, v)
		return err
	})
	f.Open(nil)
	f.Set(req)
	if err := f.Submit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *crudHandler[T, C, U]) Update(c *gin.Context) {
	var req U
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	var out *T
	f := form.New(h.updateSchema(), func(ctx context.Context, v U) error {
		var err error
		out, err = h.svc.Actualizar(ctx, id, v)
		return err
	})
	f.Open(nil)
	f.Set(req)
	if err := f.Submit(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *crudHandler[T, C, U]) Delete(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// NewForm returns the empty create form.
func (h *crudHandler[T, C, U]) NewForm(c *gin.Context) {
	var values C
	c.JSON(http.StatusOK, FormPayload[C]{Values: values, Errors: map[string]string{}})
}

// EditForm returns the edit form prefilled from the current record.
func (h *crudHandler[T, C, U]) EditForm(c *gin.Context) {
	row, err := h.svc.ObtenerPorID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	f := form.New(h.updateSchema(), nil)
	values := h.prefill(*row)
	f.Open(&values)
	c.JSON(http.StatusOK, FormPayload[U]{Values: f.Values(), Errors: map[string]string{}})
}

func (h *crudHandler[T, C, U]) renderRows(ctx context.Context, q url.Values) (view.Rendered, error) {
	rows, err := h.svc.Listar(ctx, q)
	if err != nil {
		return view.Rendered{}, err
	}
	t, err := h.table(ctx)
	if err != nil {
		return view.Rendered{}, err
	}
	return t.Render(rows), nil
}

func (h *crudHandler[T, C, U]) render(c *gin.Context) (view.Rendered, bool) {
	r, err := h.renderRows(c.Request.Context(), filters(c))
	if err != nil {
		respondError(c, err)
		return view.Rendered{}, false
	}
	return r, true
}

// page loads the table and the resource's catalogs together.
func (h *crudHandler[T, C, U]) page(ctx context.Context, q url.Values) (view.Page, error) {
	sections := map[string]view.Section{
		"table": func(ctx context.Context) (any, error) { return h.renderRows(ctx, q) },
	}
	for _, name := range h.catalogs {
		p, err := h.reg.Get(name)
		if err != nil {
			return nil, err
		}
		sections[name] = func(ctx context.Context) (any, error) { return p.List(ctx) }
	}
	return view.LoadPage(ctx, sections)
}

func (h *crudHandler[T, C, U]) Table(c *gin.Context) {
	if r, ok := h.render(c); ok {
		c.JSON(http.StatusOK, r)
	}
}

func (h *crudHandler[T, C, U]) Export(c *gin.Context) {
	if r, ok := h.render(c); ok {
		writeXLSX(c, h.name, r)
	}
}

func writeXLSX(c *gin.Context, name string, r view.Rendered) {
	c.Header("Content-Type", view.XLSXContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", name))
	c.Status(http.StatusOK)
	if err := view.WriteXLSX(c.Writer, name, r); err != nil {
		_ = c.Error(err)
	}
}

// staticTable wraps a table that needs no lookups.
func staticTable[T model.Entity](t view.Table[T]) func(context.Context) (view.Table[T], error) {
	return func(context.Context) (view.Table[T], error) { return t, nil }
}

func noSchema[T any]() form.Schema[T] { return form.Schema[T]{} }
