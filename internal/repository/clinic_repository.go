package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/cache"
	"github.com/otcheredev/clinichub/internal/database"
	"github.com/otcheredev/clinichub/internal/metrics"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClinicRepository handles clinic database operations. Lookups by slug and
// ID are cached when a cache is configured.
type ClinicRepository struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewClinicRepository creates a new clinic repository. c may be nil.
func NewClinicRepository(db *gorm.DB, c cache.Cache, ttl time.Duration) *ClinicRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ClinicRepository{db: db, cache: c, ttl: ttl}
}

// Create creates a new clinic
func (r *ClinicRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	return r.CreateTx(ctx, r.db, clinic)
}

// CreateTx creates a clinic inside tx
func (r *ClinicRepository) CreateTx(ctx context.Context, tx *gorm.DB, clinic *models.Clinic) error {
	if err := tx.WithContext(ctx).Create(clinic).Error; err != nil {
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	return nil
}

// GetBySlug retrieves a clinic by its slug
func (r *ClinicRepository) GetBySlug(ctx context.Context, slug string) (*models.Clinic, error) {
	key := cache.ClinicSlugKey(slug)
	if clinic, ok := r.fromCache(ctx, key); ok {
		return clinic, nil
	}

	var clinic models.Clinic
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&clinic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenant.ErrClinicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}

	r.toCache(ctx, &clinic)
	return &clinic, nil
}

// GetByID retrieves a clinic by ID
func (r *ClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	key := cache.ClinicIDKey(id.String())
	if clinic, ok := r.fromCache(ctx, key); ok {
		return clinic, nil
	}

	var clinic models.Clinic
	err := r.db.WithContext(ctx).First(&clinic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenant.ErrClinicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}

	r.toCache(ctx, &clinic)
	return &clinic, nil
}

// LockTx locks the clinic row until tx ends and returns its stored state.
// Writers that check a clinic limit take this lock first.
func (r *ClinicRepository) LockTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Clinic, error) {
	var clinic models.Clinic
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&clinic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tenant.ErrClinicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock clinic: %w", err)
	}
	return &clinic, nil
}

// NextPatientNumberTx advances the clinic's patient sequence inside tx and
// returns the new value. Numbers are never handed out twice, deleted patients included.
func (r *ClinicRepository) NextPatientNumberTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Clinic{}).
		Where("id = ?", id).
		UpdateColumn("patient_sequence", gorm.Expr("patient_sequence + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to advance patient sequence: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, tenant.ErrClinicNotFound
	}

	var seq []int64
	if err := tx.WithContext(ctx).Model(&models.Clinic{}).Where("id = ?", id).Pluck("patient_sequence", &seq).Error; err != nil {
		return 0, fmt.Errorf("failed to read patient sequence: %w", err)
	}
	if len(seq) == 0 {
		return 0, tenant.ErrClinicNotFound
	}
	return seq[0], nil
}

// SlugExists reports whether a clinic already uses slug
func (r *ClinicRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Clinic{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// List retrieves all clinics, newest first
func (r *ClinicRepository) List(ctx context.Context) ([]models.Clinic, error) {
	var clinics []models.Clinic
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&clinics).Error; err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

// SetActive activates or deactivates a clinic
func (r *ClinicRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Clinic, error) {
	clinic, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&models.Clinic{}).
		Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	r.invalidate(ctx, clinic)

	clinic.IsActive = active
	return clinic, nil
}

// Delete removes a clinic and every row it owns in one transaction
func (r *ClinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	clinic, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range database.TenantOwnedModels() {
			if err := tx.Where("clinic_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete %T rows: %w", model, err)
			}
		}
		return tx.Delete(&models.Clinic{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}

	r.invalidate(ctx, clinic)
	return nil
}

func (r *ClinicRepository) fromCache(ctx context.Context, key string) (*models.Clinic, bool) {
	if r.cache == nil {
		return nil, false
	}

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("Clinic cache read failed")
		}
		metrics.ClinicCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	var clinic models.Clinic
	if err := json.Unmarshal(data, &clinic); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding malformed cached clinic")
		_ = r.cache.Delete(ctx, key)
		metrics.ClinicCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.ClinicCacheLookups.WithLabelValues("hit").Inc()
	return &clinic, true
}

func (r *ClinicRepository) toCache(ctx context.Context, clinic *models.Clinic) {
	if r.cache == nil {
		return
	}

	data, err := json.Marshal(clinic)
	if err != nil {
		return
	}
	for _, key := range []string{cache.ClinicSlugKey(clinic.Slug), cache.ClinicIDKey(clinic.ID.String())} {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Clinic cache write failed")
		}
	}
}

func (r *ClinicRepository) invalidate(ctx context.Context, clinic *models.Clinic) {
	if r.cache == nil {
		return
	}
	for _, key := range []string{cache.ClinicSlugKey(clinic.Slug), cache.ClinicIDKey(clinic.ID.String())} {
		if err := r.cache.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Clinic cache invalidation failed")
		}
	}
}
