package safety

import (
	"context"
	"fmt"
	"net/url"
)

// API is the verb level backend surface. Implementations attach the
// current bearer token and report failures as *safety.RequestError.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	GetList(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Validator rejects a form with a *safety.ValidationError
type Validator interface {
	Validate(form any) error
}

// Sanitizer turns user supplied text into plain text
type Sanitizer interface {
	Text(value string) string
}

// Input is a form payload that can normalize its own free text fields
type Input interface {
	Clean(text func(string) string)
}

// Collection exposes list, detail and write operations on one REST resource
type Collection[T any, I Input] struct {
	api   API
	check Validator
	clean Sanitizer
	path  string
}

// NewCollection creates a collection rooted at path, e.g. "/equipment"
func NewCollection[T any, I Input](api API, check Validator, clean Sanitizer, path string) *Collection[T, I] {
	return &Collection[T, I]{api: api, check: check, clean: clean, path: path}
}

// Path returns the resource root
func (c *Collection[T, I]) Path() string { return c.path }

func (c *Collection[T, I]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

// List fetches every item
func (c *Collection[T, I]) List(ctx context.Context) ([]T, error) {
	return c.ListWhere(ctx, nil)
}

// ListWhere fetches the items matching query
func (c *Collection[T, I]) ListWhere(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := c.api.GetList(ctx, c.path, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one item
func (c *Collection[T, I]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := c.api.Get(ctx, c.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create cleans and validates in, then posts it. A rejected form never
// reaches the backend.
func (c *Collection[T, I]) Create(ctx context.Context, in I) error {
	if err := c.prepare(in); err != nil {
		return err
	}
	return c.api.Post(ctx, c.path, in, nil)
}

// Update cleans and validates in, then puts it
func (c *Collection[T, I]) Update(ctx context.Context, id string, in I) error {
	if err := c.prepare(in); err != nil {
		return err
	}
	return c.api.Put(ctx, c.itemPath(id), in, nil)
}

// Delete removes one item
func (c *Collection[T, I]) Delete(ctx context.Context, id string) error {
	return c.api.Delete(ctx, c.itemPath(id))
}

func (c *Collection[T, I]) prepare(in I) error {
	in.Clean(c.clean.Text)
	if err := c.check.Validate(in); err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	return nil
}
