package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
)

// ClinicLookup loads clinics for the resolver.
// Both methods return ErrClinicNotFound when nothing matches.
type ClinicLookup interface {
	GetBySlug(ctx context.Context, slug string) (*models.Clinic, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
}

// Source tells which rule decided a resolution
type Source string

const (
	SourceSlug          Source = "slug"
	SourceUnknownSlug   Source = "unknown_slug"
	SourceUser          Source = "user"
	SourceUnknownClinic Source = "unknown_clinic"
	SourceInactive      Source = "inactive"
	SourceNone          Source = "none"
	SourceError         Source = "error"
)

// Request is what the resolver needs to know about an inbound request
type Request struct {
	// Slug captured by the router, empty if the route is not tenant-scoped
	Slug string
	// User is the authenticated principal, nil for anonymous requests
	User *models.Principal
}

// Resolution is the outcome of Resolve. Clinic is nil when no tenant applies.
type Resolution struct {
	Clinic *models.Clinic
	Source Source
}

// Resolver decides which clinic a request belongs to.
type Resolver struct {
	lookup        ClinicLookup
	requireActive bool
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithRequireActive makes inactive clinics resolve to no tenant.
func WithRequireActive(require bool) ResolverOption {
	return func(r *Resolver) {
		r.requireActive = require
	}
}

// NewResolver creates a resolver backed by lookup
func NewResolver(lookup ClinicLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{lookup: lookup}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies the precedence slug → user's clinic → none. A slug that
// matches no clinic resolves to none; it never falls back to the user's clinic.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if req.Slug != "" {
		clinic, err := r.lookup.GetBySlug(ctx, req.Slug)
		if errors.Is(err, ErrClinicNotFound) {
			return Resolution{Source: SourceUnknownSlug}, nil
		}
		if err != nil {
			return Resolution{Source: SourceError}, fmt.Errorf("failed to look up clinic %q: %w", req.Slug, err)
		}
		return r.accept(clinic, SourceSlug), nil
	}

	if req.User.Authenticated() {
		if clinicID, ok := req.User.AssignedClinic(); ok {
			clinic, err := r.lookup.GetByID(ctx, clinicID)
			// the user's clinic was deleted after the token was issued
			if errors.Is(err, ErrClinicNotFound) {
				return Resolution{Source: SourceUnknownClinic}, nil
			}
			if err != nil {
				return Resolution{Source: SourceError}, fmt.Errorf("failed to look up clinic %s: %w", clinicID, err)
			}
			return r.accept(clinic, SourceUser), nil
		}
	}

	return Resolution{Source: SourceNone}, nil
}

func (r *Resolver) accept(clinic *models.Clinic, source Source) Resolution {
	if clinic == nil {
		return Resolution{Source: SourceNone}
	}
	if r.requireActive && !clinic.IsActive {
		return Resolution{Source: SourceInactive}
	}
	return Resolution{Clinic: clinic, Source: source}
}
