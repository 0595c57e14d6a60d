package repository

import (
	"context"
	"net/url"

	"nutripae/internal/model"
)

// Client is the subset of infra.RESTClient the upstream repositories need.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// UpdateMethod is the verb a service uses for edits.
type UpdateMethod int

const (
	UpdatePatch UpdateMethod = iota
	UpdatePut
)

// ResourceRepository is the one-function-per-verb module every upstream
// resource exposes. T is the record, C the create body, U the update body.
type ResourceRepository[T model.Entity, C, U any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, req C) (*T, error)
	Update(ctx context.Context, id string, req U) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Resource implements ResourceRepository over a REST collection.
type Resource[T model.Entity, C, U any] struct {
	client     Client
	path       string
	createPath string
	update     UpdateMethod
}

type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	createPath string
}

// WithCreatePath posts creations somewhere other than the collection
// (menu schedules are created through /menu-schedules/assign).
func WithCreatePath(p string) ResourceOption {
	return func(o *resourceOptions) { o.createPath = p }
}

func NewResource[T model.Entity, C, U any](client Client, path string, update UpdateMethod, opts ...ResourceOption) *Resource[T, C, U] {
	o := resourceOptions{createPath: path}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[T, C, U]{client: client, path: path, createPath: o.createPath, update: update}
}

func (r *Resource[T, C, U]) Path() string { return r.path }

func (r *Resource[T, C, U]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T, C, U]) List(ctx context.Context, query url.Values) ([]T, error) {
	return getList[T](ctx, r.client, r.path, query)
}

// getList decodes a JSON array. A null or empty body comes back as an empty
// slice so list endpoints always serialize as [].
func getList[T any](ctx context.Context, c Client, path string, query url.Values) ([]T, error) {
	var out []T
	if err := c.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r *Resource[T, C, U]) FindByID(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.client.Get(ctx, r.itemPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T, C, U]) Create(ctx context.Context, req C) (*T, error) {
	var out T
	if err := r.client.Post(ctx, r.createPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T, C, U]) Update(ctx context.Context, id string, req U) (*T, error) {
	var out T
	var err error
	if r.update == UpdatePut {
		err = r.client.Put(ctx, r.itemPath(id), req, &out)
	} else {
		err = r.client.Patch(ctx, r.itemPath(id), req, &out)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T, C, U]) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, r.itemPath(id))
}

// action posts to /{collection}/{id}/{name} and decodes the updated record.
func (r *Resource[T, C, U]) action(ctx context.Context, id, name string, body any) (*T, error) {
	var out T
	if err := r.client.Post(ctx, r.itemPath(id)+"/"+name, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
