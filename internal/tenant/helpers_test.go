package tenant_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/tenant"
)

type mockLookup struct {
	mu      sync.RWMutex
	bySlug  map[string]*models.Clinic
	byID    map[uuid.UUID]*models.Clinic
	err     error
	lookups int
}

func newMockLookup(clinics ...*models.Clinic) *mockLookup {
	m := &mockLookup{
		bySlug: make(map[string]*models.Clinic),
		byID:   make(map[uuid.UUID]*models.Clinic),
	}
	for _, c := range clinics {
		m.bySlug[c.Slug] = c
		m.byID[c.ID] = c
	}
	return m
}

func (m *mockLookup) GetBySlug(_ context.Context, slug string) (*models.Clinic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.bySlug[slug]; ok {
		return c, nil
	}
	return nil, tenant.ErrClinicNotFound
}

func (m *mockLookup) GetByID(_ context.Context, id uuid.UUID) (*models.Clinic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, tenant.ErrClinicNotFound
}

func newClinic(slug string) *models.Clinic {
	return &models.Clinic{ID: uuid.New(), Name: slug, Slug: slug, IsActive: true}
}

func staff(clinic *models.Clinic, role models.Role) *models.Principal {
	p := &models.Principal{UserID: uuid.New(), Username: "user-" + string(role), Role: role}
	if clinic != nil {
		id := clinic.ID
		p.ClinicID = &id
	}
	return p
}
