package tenant

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
)

// Store holds the clinic and user of one request. A new Store is created for
// every request and is reachable only through that request's context.
type Store struct {
	mu     sync.RWMutex
	clinic *models.Clinic
	user   *models.Principal
}

// Set associates clinic and user with the request. Either may be nil.
func (s *Store) Set(clinic *models.Clinic, user *models.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinic = clinic
	s.user = user
}

// Clinic returns the current clinic, or nil, false if none is set.
func (s *Store) Clinic() (*models.Clinic, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clinic, s.clinic != nil
}

// ClinicID returns the current clinic ID, or uuid.Nil, false if none is set.
func (s *Store) ClinicID() (uuid.UUID, bool) {
	clinic, ok := s.Clinic()
	if !ok || clinic.ID == uuid.Nil {
		return uuid.Nil, false
	}
	return clinic.ID, true
}

// User returns the current user; nil means anonymous.
func (s *Store) User() *models.Principal {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Clear resets the store to no clinic and an anonymous user.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clinic = nil
	s.user = nil
}

type contextKey struct{}

// NewContext attaches a fresh, empty Store to ctx.
func NewContext(ctx context.Context) (context.Context, *Store) {
	store := &Store{}
	return context.WithValue(ctx, contextKey{}, store), store
}

// WithClinic returns a context whose Store already holds clinic and user.
// Used by code running outside the HTTP boundary, such as CLI commands.
func WithClinic(ctx context.Context, clinic *models.Clinic, user *models.Principal) context.Context {
	ctx, store := NewContext(ctx)
	store.Set(clinic, user)
	return ctx
}

// StoreFromContext returns the request Store, or nil outside a request.
func StoreFromContext(ctx context.Context) *Store {
	store, _ := ctx.Value(contextKey{}).(*Store)
	return store
}

// ClinicFromContext returns the clinic of the current request.
func ClinicFromContext(ctx context.Context) (*models.Clinic, bool) {
	return StoreFromContext(ctx).Clinic()
}

// ClinicIDFromContext returns the ID of the clinic of the current request.
func ClinicIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return StoreFromContext(ctx).ClinicID()
}

// UserFromContext returns the user of the current request; nil means anonymous.
func UserFromContext(ctx context.Context) *models.Principal {
	return StoreFromContext(ctx).User()
}

// MustClinicFromContext returns the current clinic and panics if there is none.
// Use it only behind RequireTenant.
func MustClinicFromContext(ctx context.Context) *models.Clinic {
	clinic, ok := ClinicFromContext(ctx)
	if !ok {
		panic("tenant: no clinic in context")
	}
	return clinic
}
