package tenant

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/clinichub/internal/models"
)

// SlugParam is the route parameter that carries the clinic slug
const SlugParam = "clinic_slug"

// SlugFunc extracts the router-captured clinic slug from a request
type SlugFunc func(r *http.Request) string

// UserFunc extracts the authenticated user from a request
type UserFunc func(r *http.Request) *models.Principal

// ErrorHandler writes the response for a request rejected by a tenant guard
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	slugFunc SlugFunc
	userFunc UserFunc
}

// Option configures the boundary middleware
type Option func(*config)

// WithSlugFunc overrides how the slug is read from the request
func WithSlugFunc(fn SlugFunc) Option {
	return func(c *config) {
		c.slugFunc = fn
	}
}

// WithUserFunc overrides how the user is read from the request
func WithUserFunc(fn UserFunc) Option {
	return func(c *config) {
		c.userFunc = fn
	}
}

// ChiSlug reads SlugParam from the chi route context
func ChiSlug(r *http.Request) string {
	return chi.URLParam(r, SlugParam)
}

// NoSlug is the SlugFunc for routes that are not tenant-scoped
func NoSlug(*http.Request) string {
	return ""
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoTenantInContext):
		if r.Method == http.MethodGet {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.Error(w, "Clinic not found", http.StatusNotFound)
	case errors.Is(err, ErrForeignClinic):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
