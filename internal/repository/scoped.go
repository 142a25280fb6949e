package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/metrics"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cross-tenant methods, as recorded in audit logs and metrics
const (
	MethodQueryForClinic  = "QueryForClinic"
	MethodQueryAllTenants = "QueryAllTenants"
)

// CrossTenantAccess describes one query that bypassed the ambient clinic
type CrossTenantAccess struct {
	Method   string
	Entity   string
	// ClinicID is the explicit clinic, nil for QueryAllTenants
	ClinicID *uuid.UUID
	User     *models.Principal
}

// Auditor records cross-tenant accesses
type Auditor interface {
	RecordCrossTenant(ctx context.Context, access CrossTenantAccess)
}

// Scoped is the data-access surface of one tenant-owned entity type. Every
// method filters by the clinic in ctx unless its name says otherwise.
type Scoped[T any, PT interface {
	*T
	models.ClinicOwned
}] struct {
	db      *gorm.DB
	auditor Auditor
	entity  string
}

// NewScoped creates a scoped repository for T
func NewScoped[T any, PT interface {
	*T
	models.ClinicOwned
}](db *gorm.DB, auditor Auditor) *Scoped[T, PT] {
	var zero T
	return &Scoped[T, PT]{
		db:      db,
		auditor: auditor,
		entity:  reflect.TypeOf(zero).Name(),
	}
}

// WithDB returns a copy of the repository bound to db, typically a transaction
func (s *Scoped[T, PT]) WithDB(db *gorm.DB) *Scoped[T, PT] {
	clone := *s
	clone.db = db
	return &clone
}

// Entity returns the entity name used in audit records
func (s *Scoped[T, PT]) Entity() string {
	return s.entity
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// Query returns a query over the current clinic's rows. With no clinic in
// ctx the query matches nothing.
func (s *Scoped[T, PT]) Query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	clinicID, ok := tenant.ClinicIDFromContext(ctx)
	if !ok {
		return q.Where("1 = 0")
	}
	return q.Where(clause.Eq{Column: column("clinic_id"), Value: clinicID})
}

// QueryForClinic returns a query over clinic's rows regardless of ctx.
// It fails with ErrInvalidArgument when clinic is nil.
func (s *Scoped[T, PT]) QueryForClinic(ctx context.Context, clinic *models.Clinic) (*gorm.DB, error) {
	if clinic == nil || clinic.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: %s query requires an explicit clinic", ErrInvalidArgument, s.entity)
	}
	id := clinic.ID
	s.audit(ctx, MethodQueryForClinic, &id)
	return s.db.WithContext(ctx).Model(new(T)).Where(clause.Eq{Column: column("clinic_id"), Value: id}), nil
}

// QueryAllTenants returns an unfiltered query. Reserved for platform-operator code.
func (s *Scoped[T, PT]) QueryAllTenants(ctx context.Context) *gorm.DB {
	s.audit(ctx, MethodQueryAllTenants, nil)
	return s.db.WithContext(ctx).Model(new(T))
}

func (s *Scoped[T, PT]) audit(ctx context.Context, method string, clinicID *uuid.UUID) {
	metrics.CrossTenantQueries.WithLabelValues(method, s.entity).Inc()
	if s.auditor == nil {
		return
	}
	s.auditor.RecordCrossTenant(ctx, CrossTenantAccess{
		Method:   method,
		Entity:   s.entity,
		ClinicID: clinicID,
		User:     tenant.UserFromContext(ctx),
	})
}

// List returns the current clinic's rows, narrowed by scopes
func (s *Scoped[T, PT]) List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	var items []T
	if err := s.Query(ctx).Scopes(scopes...).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.entity, err)
	}
	return items, nil
}

// ListForClinic is List over an explicit clinic
func (s *Scoped[T, PT]) ListForClinic(ctx context.Context, clinic *models.Clinic, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	q, err := s.QueryForClinic(ctx, clinic)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := q.Scopes(scopes...).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s for clinic: %w", s.entity, err)
	}
	return items, nil
}

// Get returns the row with id if the current clinic owns it
func (s *Scoped[T, PT]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	err := s.Query(ctx).Where(clause.Eq{Column: column("id"), Value: id}).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %s: %w", s.entity, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.entity, err)
	}
	return &item, nil
}

// Count returns the number of the current clinic's rows, narrowed by scopes
func (s *Scoped[T, PT]) Count(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	if err := s.Query(ctx).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.entity, err)
	}
	return n, nil
}

// Create inserts entity under the current clinic
func (s *Scoped[T, PT]) Create(ctx context.Context, entity PT) error {
	clinicID, ok := tenant.ClinicIDFromContext(ctx)
	if !ok {
		return fmt.Errorf("failed to create %s: %w", s.entity, ErrNoTenant)
	}
	if owner := entity.OwningClinicID(); owner != uuid.Nil && owner != clinicID {
		return fmt.Errorf("failed to create %s: %w", s.entity, ErrCrossTenant)
	}
	entity.SetOwningClinic(clinicID)

	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", s.entity, err)
	}
	return nil
}

// Update saves every field of entity except its owning clinic. The entity
// must belong to the current clinic.
func (s *Scoped[T, PT]) Update(ctx context.Context, entity PT) error {
	clinicID, ok := tenant.ClinicIDFromContext(ctx)
	if !ok {
		return fmt.Errorf("failed to update %s: %w", s.entity, ErrNoTenant)
	}
	if entity.OwningClinicID() != clinicID {
		return fmt.Errorf("failed to update %s: %w", s.entity, ErrCrossTenant)
	}

	res := s.db.WithContext(ctx).
		Model(entity).
		Where(clause.Eq{Column: column("clinic_id"), Value: clinicID}).
		Select("*").
		Omit("clinic_id", "created_at").
		Updates(entity)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", s.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to update %s: %w", s.entity, ErrNotFound)
	}
	return nil
}

// Delete removes the row with id if the current clinic owns it
func (s *Scoped[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := tenant.ClinicIDFromContext(ctx); !ok {
		return fmt.Errorf("failed to delete %s: %w", s.entity, ErrNoTenant)
	}

	res := s.Query(ctx).Where(clause.Eq{Column: column("id"), Value: id}).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", s.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", s.entity, id, ErrNotFound)
	}
	return nil
}

// DeleteWhere removes the current clinic's rows matched by scopes and returns
// how many were removed
func (s *Scoped[T, PT]) DeleteWhere(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	if _, ok := tenant.ClinicIDFromContext(ctx); !ok {
		return 0, fmt.Errorf("failed to delete %s: %w", s.entity, ErrNoTenant)
	}

	res := s.Query(ctx).Scopes(scopes...).Delete(new(T))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", s.entity, res.Error)
	}
	return res.RowsAffected, nil
}
