package tenant

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/auth"
	"github.com/otcheredev/clinichub/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Middleware is the request boundary: it gives every request a fresh Store,
// fills it from the resolver and clears it when the downstream handler
// returns, panics included. An unresolved clinic is not an error; the request
// continues with no tenant and handlers decide what that means.
func Middleware(resolver *Resolver, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		slugFunc: ChiSlug,
		userFunc: auth.PrincipalFromRequest,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, store := NewContext(r.Context())
			defer store.Clear()

			req := Request{
				Slug: cfg.slugFunc(r),
				User: cfg.userFunc(r),
			}

			res, err := resolver.Resolve(ctx, req)
			if err != nil {
				log.Error().Err(err).Str("clinic_slug", req.Slug).Str("path", r.URL.Path).Msg("Clinic resolution failed")
				res.Clinic = nil
			}
			metrics.TenantResolutions.WithLabelValues(string(res.Source)).Inc()

			switch res.Source {
			case SourceUnknownSlug:
				log.Warn().Str("clinic_slug", req.Slug).Str("path", r.URL.Path).Msg("Unknown clinic slug")
			case SourceUnknownClinic:
				log.Warn().Str("user_id", req.User.UserID.String()).Str("path", r.URL.Path).Msg("User's clinic no longer exists")
			}

			store.Set(res.Clinic, req.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTenant rejects requests that resolved to no clinic.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ClinicFromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMembership rejects signed-in users acting under a clinic other than
// their own. Platform operators and anonymous callers pass; role checks are
// left to the routes.
func RequireMembership(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user := UserFromContext(ctx)
			if !user.Authenticated() || user.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			clinicID, ok := ClinicIDFromContext(ctx)
			assigned, hasClinic := user.AssignedClinic()
			if !ok || !hasClinic || assigned != clinicID {
				log.Warn().
					Str("user_id", user.UserID.String()).
					Str("clinic_id", clinicID.String()).
					Msg("User outside their clinic")
				errorHandler(w, r, ErrForeignClinic)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
