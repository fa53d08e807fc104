// Package ctx gives handlers a single request context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (h *CartController) Show(c *ctx.Context) {
//	    view, err := h.carts.View(c.Context(), c.UserID())
//	    ...
//	    c.Success(view)
//	}
//
//	r.Get("/cart", "cart.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/honeyshop/pkg/bind"
	"github.com/shashiranjanraj/honeyshop/pkg/middleware"
	"github.com/shashiranjanraj/honeyshop/pkg/response"
	"github.com/shashiranjanraj/honeyshop/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{New: func() any { return &Context{} }}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W, c.R, c.status = w, r, 0
	return c
}

func release(c *Context) {
	c.W, c.R = nil, nil
	pool.Put(c)
}

// ─── Request ────────────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }

// Query returns a query-string value or "".
func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

// QueryInt parses a query-string integer, returning def when absent or
// malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the authenticated user's id, or 0 on public routes.
func (c *Context) UserID() uint {
	id, _ := middleware.UserIDFromCtx(c.R.Context())
	return id
}

// Role returns the authenticated user's role, or "".
func (c *Context) Role() string {
	role, _ := middleware.RoleFromCtx(c.R.Context())
	return role
}

// BindJSON decodes and validates the body into dest. On failure it writes a
// 400 and returns false.
//
//	var in AddToCartRequest
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response ───────────────────────────────────────────────────────────────

func (c *Context) write(code int, body response.Envelope) {
	c.status = code
	response.Write(c.W, code, body)
}

func (c *Context) Success(data any) {
	c.write(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

func (c *Context) Message(message string, data any) {
	c.write(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: message, Data: data})
}

func (c *Context) Created(data any) {
	c.write(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

func (c *Context) Error(code int, message string) {
	c.write(code, response.Envelope{Status: code, Message: message})
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.write(http.StatusBadRequest, response.Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
